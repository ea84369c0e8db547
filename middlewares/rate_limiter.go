package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type LimiterConfig struct {
	RPS     float64       // 每秒補充多少令牌（穩態速率）
	Burst   int           // 桶子容量（允許的突發）
	IdleTTL time.Duration // key 閒置多久就清掉
}

// 一個 key 一個桶，記住最近使用時間
type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one in-memory token bucket per key.
type RateLimiter struct {
	conf    LimiterConfig
	mu      sync.Mutex
	buckets map[string]*keyLimiter
	done    chan struct{}
	once    sync.Once
}

// NewRateLimiter starts a janitor goroutine that evicts idle buckets until Close.
func NewRateLimiter(conf LimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		conf:    conf,
		buckets: make(map[string]*keyLimiter),
		done:    make(chan struct{}),
	}

	interval := conf.IdleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	// 週期性清理閒置 key，Close 之後就收工
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-rl.done:
				return
			case now := <-ticker.C:
				rl.evictIdle(now)
			}
		}
	}()

	return rl
}

func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, v := range rl.buckets {
		if now.Sub(v.lastSeen) > rl.conf.IdleTTL {
			delete(rl.buckets, k)
		}
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, ok := rl.buckets[key]; ok { // 舊桶：更新使用時間
		b.lastSeen = now
		return b.limiter
	}

	// 新 key → 開一個滿的桶
	lim := rate.NewLimiter(rate.Limit(rl.conf.RPS), rl.conf.Burst)
	rl.buckets[key] = &keyLimiter{limiter: lim, lastSeen: now}
	return lim
}

// KeySelector decides what a request is limited by (client IP, viewer id...).
// An empty key bypasses the limiter.
type KeySelector func(c *gin.Context) string

func (rl *RateLimiter) Middleware(selectKey KeySelector) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := selectKey(c)
		if key == "" {
			c.Next() // 沒有 key 就不限速
			return
		}
		lim := rl.getLimiter(key)

		if !lim.Allow() { // 桶子空了 → 429，順便告訴 client 幾秒後再來
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(rl.conf.RPS)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// retryAfterSeconds is the time for one token to refill, at least one second.
func retryAfterSeconds(rps float64) int {
	if rps <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(1/rps)))
}
