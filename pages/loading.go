package pages

import (
	"context"
	"sync"
	"time"
)

// Loadable is the outcome of a page fetch as seen by one render: still loading,
// failed, or resolved with data.
type Loadable[T any] struct {
	Data    T
	Err     error
	Loading bool
}

type call[T any] struct {
	done       chan struct{}
	val        T
	err        error
	resolvedAt time.Time
}

// Query shares one in-flight fetch per key between renders. A render waits at
// most its budget; if the fetch is still running it reports Loading and the
// next render picks the result up as soon as it has arrived.
type Query[T any] struct {
	timeout time.Duration
	mu      sync.Mutex
	calls   map[string]*call[T]
}

// NewQuery bounds every fetch by timeout. A resolved result nobody collected
// within timeout is dropped and fetched again.
func NewQuery[T any](timeout time.Duration) *Query[T] {
	return &Query[T]{timeout: timeout, calls: make(map[string]*call[T])}
}

func (q *Query[T]) Load(ctx context.Context, key string, budget time.Duration, fetch func(context.Context) (T, error)) Loadable[T] {
	c := q.join(ctx, key, fetch)

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case <-c.done:
		q.forget(key, c)
		return Loadable[T]{Data: c.val, Err: c.err}
	case <-timer.C:
		return Loadable[T]{Loading: true}
	case <-ctx.Done():
		return Loadable[T]{Loading: true}
	}
}

func (q *Query[T]) join(ctx context.Context, key string, fetch func(context.Context) (T, error)) *call[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.sweep()
	if c, ok := q.calls[key]; ok {
		return c
	}

	c := &call[T]{done: make(chan struct{})}
	q.calls[key] = c
	// the fetch outlives the render that started it
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.timeout)
	go func() {
		defer cancel()
		c.val, c.err = fetch(fctx)
		c.resolvedAt = time.Now()
		close(c.done)
	}()
	return c
}

// sweep drops resolved results nobody collected within timeout. Callers hold q.mu.
func (q *Query[T]) sweep() {
	for key, c := range q.calls {
		select {
		case <-c.done:
			if time.Since(c.resolvedAt) > q.timeout {
				delete(q.calls, key)
			}
		default:
		}
	}
}

// Forget drops the shared fetch for key, resolved or not, so the next render
// reads the store again. Call it after a write the key's data depends on.
func (q *Query[T]) Forget(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.calls, key)
}

// Reset forgets every key.
func (q *Query[T]) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.calls)
}

// Len reports how many fetches are held, pending or uncollected.
func (q *Query[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.calls)
}

func (q *Query[T]) forget(key string, c *call[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.calls[key] == c {
		delete(q.calls, key)
	}
}
