// Package scheduler is the trigger service the reminder lines run on.
//
// It wraps robfig/cron with a small worker pool so timer callbacks never run
// on cron's own goroutine, adds per-task timeouts, overlap control and retry,
// and records a bounded run history.
//
// A "line" here is one registered schedule (interval, daily, or an immediate
// one-shot via RunNow). Lines are independent: a failing run is logged and the
// line keeps its cadence. Stop() cancels every line as a unit.
package scheduler
