// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// HostThrottle spaces requests to the same host at least Interval apart.
// Requests to different hosts do not wait on each other. A HostThrottle
// is safe for concurrent use.
type HostThrottle struct {
	Interval time.Duration

	mu   sync.Mutex
	next map[string]time.Time
	now  func() time.Time
}

// NewHostThrottle returns a throttle with the given minimum interval.
func NewHostThrottle(interval time.Duration) *HostThrottle {
	return &HostThrottle{Interval: interval, next: make(map[string]time.Time), now: time.Now}
}

// Wait blocks until a request to host may be sent and reserves that slot.
// It returns ctx.Err() if the context ends first; the slot is then left
// reserved, which only delays later callers.
func (t *HostThrottle) Wait(ctx context.Context, host string) error {
	if t == nil || t.Interval <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	if t.next == nil {
		t.next = make(map[string]time.Time)
	}
	if t.now == nil {
		t.now = time.Now
	}
	now := t.now()
	slot := t.next[host]
	if slot.Before(now) {
		slot = now
	}
	t.next[host] = slot.Add(t.Interval)
	t.mu.Unlock()

	wait := slot.Sub(now)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// HostOf returns the host part of rawURL, or rawURL itself when it does
// not parse, so malformed URLs still share one throttle slot.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}
