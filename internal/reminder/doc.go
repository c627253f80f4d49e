// Package reminder implements the course reminder pipeline: it polls the
// backend for due reminders and today's courses, applies the 24-hour modal
// suppression window and the tomorrow-toast rule, and publishes the results
// on the event bus for whatever surface renders them.
//
// Three timer lines drive the pipeline (startup, recurring interval, daily
// fixed-time) plus an independent post-class confirmation line. All state
// that survives between cycles lives in the Ledger; it is memory-resident
// and lost on restart on purpose.
package reminder
