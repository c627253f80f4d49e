package reminder

import (
	"sync"
	"time"
)

// DefaultWindow is the modal suppression window: once a course has fired a
// modal, it stays quiet for this long.
const DefaultWindow = 24 * time.Hour

// Ledger tracks which courses have already fired a modal and when.
//
// It is the only mutable state shared across pipeline runs. Timer lines run
// on a worker pool, so every check-and-mark must happen under one lock
// acquisition; otherwise two near-simultaneous runs could both observe
// "not suppressed" and both fire.
//
// Entries are volatile: a restart forgets them and the next cycle may
// re-fire. That is the documented trade-off, not a bug.
type Ledger struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]time.Time // courseID -> last notified
}

// NewLedger creates a ledger with the given suppression window.
// A non-positive window falls back to DefaultWindow.
func NewLedger(window time.Duration) *Ledger {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Ledger{
		window:  window,
		entries: map[string]time.Time{},
	}
}

func (l *Ledger) Window() time.Duration { return l.window }

// Suppressed reports whether id fired within the window before now.
func (l *Ledger) Suppressed(id string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.suppressedLocked(id, now)
}

func (l *Ledger) suppressedLocked(id string, now time.Time) bool {
	at, ok := l.entries[id]
	if !ok {
		return false
	}
	return now.Sub(at) < l.window
}

// MarkNotified records that id fired at now, overwriting any earlier mark.
func (l *Ledger) MarkNotified(id string, now time.Time) {
	l.mu.Lock()
	l.entries[id] = now
	l.mu.Unlock()
}

// TryMark is the atomic check-and-mark used by the evaluator: it returns
// false if id is still suppressed, otherwise records the fire and returns true.
func (l *Ledger) TryMark(id string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.suppressedLocked(id, now) {
		return false
	}
	l.entries[id] = now
	return true
}

// Prune drops entries whose window has fully elapsed. Run once per pipeline
// cycle to bound memory.
func (l *Ledger) Prune(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for id, at := range l.entries {
		if now.Sub(at) > l.window {
			delete(l.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the current entry count (for status/observability).
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
