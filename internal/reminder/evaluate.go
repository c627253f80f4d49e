package reminder

import (
	"time"
)

// Decision is the outcome of evaluating one candidate. The two surfaces are
// independent: a candidate starting within the window *tomorrow* can fire both.
type Decision struct {
	Modal bool
	Toast bool
}

// Evaluator applies the time-window and dedup rules.
//
// Modal: fires when the course starts within +/- window of now and the
// ledger has no live entry for it; firing marks the ledger immediately
// (at evaluation time, not at acknowledgment time).
//
// Toast: fires when the course date is exactly tomorrow. No suppression:
// the toast is a low-friction informational surface and repeating it on
// every cycle of the eligible day is accepted behavior.
type Evaluator struct {
	ledger *Ledger
	window time.Duration
}

func NewEvaluator(ledger *Ledger) *Evaluator {
	return &Evaluator{ledger: ledger, window: ledger.Window()}
}

func (e *Evaluator) Evaluate(c Candidate, now time.Time) Decision {
	var d Decision

	delta := c.StartsAt.Sub(now)
	if delta < 0 {
		delta = -delta
	}
	// Inclusive bound: a course starting exactly `window` away (or exactly
	// now, delta == 0) still fires.
	if delta <= e.window {
		d.Modal = e.ledger.TryMark(c.ID, now)
	}

	tomorrow := now.AddDate(0, 0, 1)
	if sameDay(c.StartsAt, tomorrow) {
		d.Toast = true
	}

	return d
}
