package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"coursebell/internal/api"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Candidate is one course session under evaluation. Produced fresh on each
// fetch, immutable once built.
type Candidate struct {
	ID   string // course id, the ledger key
	Name string

	// StartsAt is scheduleDate+startTime in the evaluation timezone.
	StartsAt time.Time
	// EndsAt is scheduleDate+endTime; zero when the backend sent no end time.
	EndsAt time.Time

	// Raw wire strings, carried through to event payloads unchanged.
	ScheduleDate string
	StartTime    string
	EndTime      string
}

// newCandidate validates and normalizes one wire item.
func newCandidate(r api.Reminder, loc *time.Location) (Candidate, error) {
	if r.CourseID == 0 {
		return Candidate{}, fmt.Errorf("missing courseId")
	}
	date := strings.TrimSpace(r.ScheduleDate)
	if date == "" {
		return Candidate{}, fmt.Errorf("missing scheduleDate")
	}
	start, err := combine(date, r.StartTime, loc)
	if err != nil {
		return Candidate{}, fmt.Errorf("bad start: %w", err)
	}

	c := Candidate{
		ID:           strconv.FormatInt(r.CourseID, 10),
		Name:         r.CourseName,
		StartsAt:     start,
		ScheduleDate: date,
		StartTime:    strings.TrimSpace(r.StartTime),
		EndTime:      strings.TrimSpace(r.EndTime),
	}
	if c.EndTime != "" {
		end, err := combine(date, c.EndTime, loc)
		if err != nil {
			// An unparseable end time doesn't block the reminder itself.
			c.EndTime = ""
		} else {
			c.EndsAt = end
		}
	}
	return c, nil
}

// combine builds a wall-clock instant from "2006-01-02" + "15:04" in loc.
// A missing time-of-day means midnight.
func combine(date, hhmm string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, err
	}
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return d, nil
	}
	t, err := time.ParseInLocation(timeLayout, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// sameDay reports whether a and b fall on the same calendar day (in their
// respective locations; callers pass times already in the evaluation zone).
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
