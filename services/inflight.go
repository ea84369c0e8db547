package services

import "sync"

const (
	KindRegister = "register"
	KindApply    = "apply"
)

// Key identifies one viewer's mutation against one item.
type Key struct {
	Kind     string
	ViewerID string
	ItemID   string
}

// InFlight records mutations that have been dispatched but not yet resolved.
// At most one mutation per key runs at a time.
type InFlight struct {
	mu      sync.Mutex
	pending map[Key]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{pending: make(map[Key]struct{})}
}

// Begin claims k. It returns ok=false when k is already in flight; otherwise
// the caller must invoke release once the mutation resolves.
func (f *InFlight) Begin(k Key) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.pending[k]; busy {
		return nil, false
	}
	f.pending[k] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.pending, k)
			f.mu.Unlock()
		})
	}, true
}

func (f *InFlight) Pending(k Key) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.pending[k]
	return busy
}
