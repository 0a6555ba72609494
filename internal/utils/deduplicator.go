package utils

import (
	"sync"
	"time"
)

// Deduplicator remembers keys for a window. It collapses bursts of identical
// notifications, e.g. one order row updated several times in a transaction.
type Deduplicator struct {
	window time.Duration
	now    func() time.Time
	mu     sync.Mutex
	seen   map[string]time.Time
}

func NewDeduplicator(window time.Duration) *Deduplicator {
	return &Deduplicator{window: window, now: time.Now, seen: make(map[string]time.Time)}
}

// WithClock sets the clock used for the window.
func (d *Deduplicator) WithClock(now func() time.Time) *Deduplicator {
	d.now = now
	return d
}

// IsDuplicate reports whether key was seen within the window, and records it.
func (d *Deduplicator) IsDuplicate(key string) bool {
	if key == "" {
		return false
	}
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if at, ok := d.seen[key]; ok && now.Sub(at) < d.window {
		return true
	}
	d.seen[key] = now

	// Cleanup old entries if map gets too big
	if len(d.seen) > 10000 {
		for k, at := range d.seen {
			if now.Sub(at) > 2*d.window {
				delete(d.seen, k)
			}
		}
	}
	return false
}
