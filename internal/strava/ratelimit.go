package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava allows 100 requests per 15 minutes and 1000 per day by default.
// The limits are refreshed from every response's X-RateLimit-* headers.

// quota tracks one rate limit window
type quota struct {
	limit    int
	usage    int
	resetsAt time.Time
	next     func(now time.Time) time.Time
}

func (q *quota) roll(now time.Time) {
	if now.After(q.resetsAt) {
		q.usage = 0
		q.resetsAt = q.next(now)
	}
}

func (q *quota) exhausted() bool {
	return q.usage >= q.limit
}

func fifteenMinutes(now time.Time) time.Time { return now.Add(15 * time.Minute) }
func nextUTCDay(now time.Time) time.Time     { return now.Truncate(24 * time.Hour).Add(24 * time.Hour) }

// RateLimiter paces requests to stay within Strava's API quotas
type RateLimiter struct {
	mu sync.Mutex

	short quota
	daily quota

	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a rate limiter with Strava's default limits
func NewRateLimiter() *RateLimiter {
	return newRateLimiter(150 * time.Millisecond)
}

func newRateLimiter(minInterval time.Duration) *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		short:       quota{limit: 100, resetsAt: fifteenMinutes(now), next: fifteenMinutes},
		daily:       quota{limit: 1000, resetsAt: nextUTCDay(now), next: nextUTCDay},
		minInterval: minInterval,
	}
}

// Wait blocks until a request can be made without exceeding either quota
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, q := range []*quota{&r.short, &r.daily} {
		q.roll(time.Now())
		if !q.exhausted() {
			continue
		}
		if err := r.sleep(ctx, time.Until(q.resetsAt)); err != nil {
			return err
		}
		q.usage = 0
		q.resetsAt = q.next(time.Now())
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = time.Now()

	return nil
}

// sleep releases the lock while waiting. Callers must hold r.mu.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	r.mu.Unlock()
	defer r.mu.Lock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders updates rate limit state from Strava response headers
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strava returns: X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512"
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.short.usage, r.daily.usage = short, daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit, r.daily.limit = short, daily
	}
}

func parsePair(v string) (int, int, bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// Status returns the requests remaining in each window
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.usage, r.daily.limit - r.daily.usage
}
