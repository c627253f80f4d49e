package reminder

import (
	"testing"
	"time"
)

func mustCandidate(t *testing.T, id, name, date, start string, loc *time.Location) Candidate {
	t.Helper()
	startsAt, err := combine(date, start, loc)
	if err != nil {
		t.Fatalf("combine(%q, %q): %v", date, start, err)
	}
	return Candidate{
		ID:           id,
		Name:         name,
		StartsAt:     startsAt,
		ScheduleDate: date,
		StartTime:    start,
	}
}

func TestEvaluateModalWindow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)

	tests := []struct {
		name     string
		startsAt time.Time
		modal    bool
	}{
		{"starts now", now, true},
		{"starts in 1h", now.Add(time.Hour), true},
		{"started 1h ago", now.Add(-time.Hour), true},
		{"starts in exactly 24h", now.Add(24 * time.Hour), true},
		{"started exactly 24h ago", now.Add(-24 * time.Hour), true},
		{"starts in 24h+1m", now.Add(24*time.Hour + time.Minute), false},
		{"started 24h+1m ago", now.Add(-24*time.Hour - time.Minute), false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			e := NewEvaluator(NewLedger(24 * time.Hour))
			d := e.Evaluate(Candidate{ID: "1", StartsAt: tc.startsAt}, now)
			if d.Modal != tc.modal {
				t.Fatalf("modal = %v, want %v", d.Modal, tc.modal)
			}
		})
	}
}

func TestEvaluateModalDedup(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	c := mustCandidate(t, "42", "Algebra", "2025-03-10", "15:00", loc)

	e := NewEvaluator(NewLedger(24 * time.Hour))

	if d := e.Evaluate(c, now); !d.Modal {
		t.Fatalf("first evaluation must fire the modal")
	}
	if d := e.Evaluate(c, now.Add(30*time.Minute)); d.Modal {
		t.Fatalf("re-evaluation inside the window must be suppressed")
	}
	// Past the suppression window the same course may fire again.
	if d := e.Evaluate(c, now.Add(25*time.Hour)); !d.Modal {
		t.Fatalf("evaluation after the window must fire again")
	}
}

func TestEvaluateToastTomorrow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, loc)

	tests := []struct {
		name  string
		date  string
		start string
		toast bool
	}{
		{"today", "2025-03-10", "23:45", false},
		{"tomorrow early", "2025-03-11", "00:10", true},
		{"tomorrow evening", "2025-03-11", "20:00", true},
		{"day after tomorrow", "2025-03-12", "10:00", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			e := NewEvaluator(NewLedger(24 * time.Hour))
			c := mustCandidate(t, "9", "Physics", tc.date, tc.start, loc)
			d := e.Evaluate(c, now)
			if d.Toast != tc.toast {
				t.Fatalf("toast = %v, want %v", d.Toast, tc.toast)
			}
		})
	}
}

func TestEvaluateToastNotDeduplicated(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	c := mustCandidate(t, "5", "Chemistry", "2025-03-11", "08:00", loc)

	e := NewEvaluator(NewLedger(24 * time.Hour))
	for i := 0; i < 3; i++ {
		if d := e.Evaluate(c, now.Add(time.Duration(i)*time.Hour)); !d.Toast {
			t.Fatalf("toast must fire on every cycle of the eligible day (cycle %d)", i)
		}
	}
}

func TestEvaluateBothSurfaces(t *testing.T) {
	loc := time.UTC
	// 23:00 now, course tomorrow 08:00: 9h away (inside the modal window)
	// and on tomorrow's calendar day.
	now := time.Date(2025, 3, 10, 23, 0, 0, 0, loc)
	c := mustCandidate(t, "3", "Biology", "2025-03-11", "08:00", loc)

	e := NewEvaluator(NewLedger(24 * time.Hour))
	d := e.Evaluate(c, now)
	if !d.Modal || !d.Toast {
		t.Fatalf("expected both surfaces to fire, got modal=%v toast=%v", d.Modal, d.Toast)
	}
}
