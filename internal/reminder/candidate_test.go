package reminder

import (
	"testing"
	"time"

	"coursebell/internal/api"
)

func TestNewCandidate(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name    string
		in      api.Reminder
		wantErr bool
	}{
		{"valid", api.Reminder{CourseID: 12, CourseName: "Algebra", ScheduleDate: "2025-03-10", StartTime: "15:00", EndTime: "16:30"}, false},
		{"no end time", api.Reminder{CourseID: 12, ScheduleDate: "2025-03-10", StartTime: "15:00"}, false},
		{"no start time means midnight", api.Reminder{CourseID: 12, ScheduleDate: "2025-03-10"}, false},
		{"missing course id", api.Reminder{ScheduleDate: "2025-03-10", StartTime: "15:00"}, true},
		{"missing date", api.Reminder{CourseID: 12, StartTime: "15:00"}, true},
		{"garbage date", api.Reminder{CourseID: 12, ScheduleDate: "not-a-date", StartTime: "15:00"}, true},
		{"garbage start time", api.Reminder{CourseID: 12, ScheduleDate: "2025-03-10", StartTime: "3pm"}, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c, err := newCandidate(tc.in, loc)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got candidate %+v", c)
				}
				return
			}
			if err != nil {
				t.Fatalf("newCandidate: %v", err)
			}
			if c.ID != "12" {
				t.Fatalf("expected id %q, got %q", "12", c.ID)
			}
		})
	}
}

func TestNewCandidateTimes(t *testing.T) {
	loc := time.UTC
	c, err := newCandidate(api.Reminder{
		CourseID: 7, CourseName: "Physics",
		ScheduleDate: "2025-03-10", StartTime: "15:00", EndTime: "16:30",
	}, loc)
	if err != nil {
		t.Fatalf("newCandidate: %v", err)
	}
	wantStart := time.Date(2025, 3, 10, 15, 0, 0, 0, loc)
	if !c.StartsAt.Equal(wantStart) {
		t.Fatalf("StartsAt = %v, want %v", c.StartsAt, wantStart)
	}
	wantEnd := time.Date(2025, 3, 10, 16, 30, 0, 0, loc)
	if !c.EndsAt.Equal(wantEnd) {
		t.Fatalf("EndsAt = %v, want %v", c.EndsAt, wantEnd)
	}
}

func TestNewCandidateBadEndTimeIsDropped(t *testing.T) {
	c, err := newCandidate(api.Reminder{
		CourseID: 7, ScheduleDate: "2025-03-10", StartTime: "15:00", EndTime: "soon",
	}, time.UTC)
	if err != nil {
		t.Fatalf("bad end time must not fail the candidate: %v", err)
	}
	if c.EndTime != "" || !c.EndsAt.IsZero() {
		t.Fatalf("expected end time cleared, got %q / %v", c.EndTime, c.EndsAt)
	}
}

func TestSameDay(t *testing.T) {
	loc := time.UTC
	a := time.Date(2025, 3, 10, 0, 0, 1, 0, loc)
	b := time.Date(2025, 3, 10, 23, 59, 59, 0, loc)
	if !sameDay(a, b) {
		t.Fatalf("expected same calendar day")
	}
	if sameDay(b, b.Add(time.Second)) {
		t.Fatalf("midnight rollover must change the day")
	}
}
