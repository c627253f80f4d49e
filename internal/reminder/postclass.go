package reminder

import (
	"context"
	"time"

	"coursebell/internal/api"
	logx "coursebell/pkg/logx"
)

// CourseSource is the "today's courses" query collaborator.
type CourseSource interface {
	TodayCourses(ctx context.Context) ([]api.TodayCourse, error)
}

// PostClassChecker finds sessions whose end time passed within the trailing
// window and that still lack an attendance record.
//
// There is no suppression here: a course stays a candidate for the whole
// window and is re-signaled on every scan tick. Known, documented behavior.
type PostClassChecker struct {
	src    CourseSource
	window time.Duration
	loc    *time.Location
	log    logx.Logger
}

// DefaultPostClassWindow is how long after a class ends it remains confirmable.
const DefaultPostClassWindow = 2 * time.Hour

func NewPostClassChecker(src CourseSource, window time.Duration, loc *time.Location, log logx.Logger) *PostClassChecker {
	if window <= 0 {
		window = DefaultPostClassWindow
	}
	if loc == nil {
		loc = time.Local
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &PostClassChecker{src: src, window: window, loc: loc, log: log}
}

// Scan fetches today's courses and returns the confirmations due at now.
// Failures are soft, same model as the reminder fetcher.
func (p *PostClassChecker) Scan(ctx context.Context, now time.Time) []Confirmation {
	courses, err := p.src.TodayCourses(ctx)
	if err != nil {
		p.log.Warn("today-courses fetch failed; skipping scan", logx.Err(err))
		return nil
	}

	today := now.In(p.loc).Format(dateLayout)
	var out []Confirmation
	for _, course := range courses {
		if course.HasAttendance {
			continue
		}
		for _, sched := range course.Schedules {
			end, err := combine(today, sched.EndTime, p.loc)
			if err != nil {
				p.log.Warn("dropping schedule with bad end time",
					logx.Int64("course_id", course.ID),
					logx.String("end_time", sched.EndTime),
					logx.Err(err),
				)
				continue
			}
			if now.Before(end) || now.After(end.Add(p.window)) {
				continue
			}
			out = append(out, Confirmation{Course: course, Schedule: sched})
		}
	}
	return out
}
