package reminder

import (
	"context"
	"time"

	"coursebell/internal/api"
	logx "coursebell/pkg/logx"
)

// ReminderSource is the "reminders due" query collaborator.
type ReminderSource interface {
	DueReminders(ctx context.Context) ([]api.Reminder, error)
}

// Fetcher pulls due reminders and normalizes them into Candidates.
//
// Failures are soft: a transport error degrades to "no candidates this
// cycle" and the cadence retries naturally. Malformed items are dropped
// one by one with a diagnostic, never failing the batch.
type Fetcher struct {
	src ReminderSource
	loc *time.Location
	log logx.Logger
}

func NewFetcher(src ReminderSource, loc *time.Location, log logx.Logger) *Fetcher {
	if loc == nil {
		loc = time.Local
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Fetcher{src: src, loc: loc, log: log}
}

// FetchDue returns the current due candidates. It never returns an error;
// see the type comment for the failure model.
func (f *Fetcher) FetchDue(ctx context.Context) []Candidate {
	items, err := f.src.DueReminders(ctx)
	if err != nil {
		f.log.Warn("due-reminder fetch failed; skipping cycle", logx.Err(err))
		return nil
	}

	out := make([]Candidate, 0, len(items))
	for i, r := range items {
		c, err := newCandidate(r, f.loc)
		if err != nil {
			f.log.Warn("dropping malformed reminder",
				logx.Int("index", i),
				logx.Int64("course_id", r.CourseID),
				logx.String("schedule_date", r.ScheduleDate),
				logx.Err(err),
			)
			continue
		}
		out = append(out, c)
	}
	return out
}
