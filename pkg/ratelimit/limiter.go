package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// SlidingWindowLimiter admits at most limit requests per key within any
// window of the configured size.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	now        func() time.Time
}

type window struct {
	requests []time.Time
	mu       sync.Mutex
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Allow records the request and reports whether it fits in the window
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.windowSize)

	kept := w.requests[:0]
	for _, t := range w.requests {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}
	w.requests = kept

	if len(w.requests) >= l.limit {
		return false, nil
	}

	w.requests = append(w.requests, now)
	return true, nil
}

// Prune drops keys with no request inside the current window
func (l *SlidingWindowLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := l.now().Add(-l.windowSize)
	removed := 0
	for key, w := range l.windows {
		w.mu.Lock()
		idle := len(w.requests) == 0 || !w.requests[len(w.requests)-1].After(windowStart)
		w.mu.Unlock()
		if idle {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// ClientLimiter keys a limiter by client address
type ClientLimiter struct {
	limiter *SlidingWindowLimiter
}

// NewClientLimiter allows requestsPerMinute submissions per client address
func NewClientLimiter(requestsPerMinute int) *ClientLimiter {
	return &ClientLimiter{
		limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute),
	}
}

// Allow checks if a request from addr is allowed
func (l *ClientLimiter) Allow(ctx context.Context, addr string) (bool, error) {
	return l.limiter.Allow(ctx, "ip:"+addr)
}

// Run prunes idle clients every interval until ctx is done
func (l *ClientLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.limiter.Prune()
		}
	}
}
