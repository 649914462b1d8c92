package middleware

import (
	"net/http"
	"sync"
	"time"

	"stockpilot/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipWindow is a per-IP sliding-window counter. One instance backs each
// limiter so login throttling and the general API limit stay independent.
type ipWindow struct {
	name    string
	limit   int
	window  time.Duration
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func newIPWindow(name string, limit int, window time.Duration) *ipWindow {
	w := &ipWindow{
		name:    name,
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
	}
	go w.purgeLoop()
	return w
}

// allow counts one request for ip and reports whether it is still within the
// limit, plus the end of the current window for the Retry-After header.
func (w *ipWindow) allow(ip string) (bool, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.buckets[ip]
	now := time.Now()
	if !ok || now.After(b.windowEnd) {
		b = &bucket{windowEnd: now.Add(w.window)}
		w.buckets[ip] = b
	}
	b.count++
	return b.count <= w.limit, b.windowEnd
}

// purgeLoop drops expired buckets so IPs that never return do not accumulate.
func (w *ipWindow) purgeLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		w.mu.Lock()
		purged := 0
		for ip, b := range w.buckets {
			if now.After(b.windowEnd) {
				delete(w.buckets, ip)
				purged++
			}
		}
		remaining := len(w.buckets)
		w.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Str("limiter", w.name).
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter buckets purged")
		}
	}
}

var loginWindow = newIPWindow("login", 20, time.Minute)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, _ := loginWindow.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many login attempts, retry in 1 minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose per-IP limiter for the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	w := newIPWindow("api", limit, window)
	return func(c *gin.Context) {
		ok, windowEnd := w.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, retry shortly"))
			return
		}
		c.Next()
	}
}
