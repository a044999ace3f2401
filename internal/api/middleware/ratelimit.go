package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// client is one IP's request count inside the current window.
type client struct {
	count   int
	resetAt time.Time
}

// RateLimiter caps requests per IP per window. Pipeline submissions
// spawn subprocesses, so the cap protects the host more than the
// router; progress polling stays well under it.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
}

// NewRateLimiter allows limit requests per window per IP
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rl.dropExpired()
		}
	}()
	return rl
}

func (rl *RateLimiter) dropExpired() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	for ip, c := range rl.clients {
		if now.After(c.resetAt) {
			delete(rl.clients, ip)
		}
	}
}

// RateLimitEntry is one IP's current standing
type RateLimitEntry struct {
	IP      string    `json:"ip"`
	Count   int       `json:"count"`
	ResetAt time.Time `json:"reset_at"`
}

// RateLimitStatus is the admin view of the limiter
type RateLimitStatus struct {
	Limit   int              `json:"limit"`
	Window  string           `json:"window"`
	Entries []RateLimitEntry `json:"entries"`
}

// Status lists every IP still inside its window
func (rl *RateLimiter) Status() RateLimitStatus {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entries := make([]RateLimitEntry, 0, len(rl.clients))
	for ip, c := range rl.clients {
		if now.Before(c.resetAt) {
			entries = append(entries, RateLimitEntry{IP: ip, Count: c.count, ResetAt: c.resetAt})
		}
	}
	return RateLimitStatus{
		Limit:   rl.limit,
		Window:  rl.window.String(),
		Entries: entries,
	}
}

// Clear forgets all tracked IPs
func (rl *RateLimiter) Clear() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.clients = make(map[string]*client)
}

// Handler enforces the limit. RemoteAddr is the client IP when the
// RealIP middleware runs first.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl.mu.Lock()
		now := time.Now()
		c, ok := rl.clients[r.RemoteAddr]
		if !ok || now.After(c.resetAt) {
			c = &client{resetAt: now.Add(rl.window)}
			rl.clients[r.RemoteAddr] = c
		}
		c.count++
		allowed := c.count <= rl.limit
		retryAfter := int(time.Until(c.resetAt).Seconds()) + 1
		rl.mu.Unlock()

		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests, try again later"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
