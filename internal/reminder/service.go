package reminder

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"coursebell/internal/eventbus"
	"coursebell/internal/scheduler"
	"coursebell/internal/storage"
	logx "coursebell/pkg/logx"
)

// Line names registered on the scheduler. Upsert semantics on the scheduler
// make re-registration on config reload safe.
const (
	lineStartup   = "reminder.startup"
	lineInterval  = "reminder.interval"
	lineDaily     = "reminder.daily"
	linePostClass = "attendance.postclass"
)

// Config tunes the pipeline cadences and windows.
type Config struct {
	CheckInterval     time.Duration // default 30m
	DailyAt           string        // default "09:00"
	Window            time.Duration // default 24h
	PostClassInterval time.Duration // default 10m
	PostClassWindow   time.Duration // default 2h
}

func (c Config) withDefaults() Config {
	if c.CheckInterval <= 0 {
		c.CheckInterval = 30 * time.Minute
	}
	if c.DailyAt == "" {
		c.DailyAt = "09:00"
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.PostClassInterval <= 0 {
		c.PostClassInterval = 10 * time.Minute
	}
	if c.PostClassWindow <= 0 {
		c.PostClassWindow = DefaultPostClassWindow
	}
	return c
}

// Deps are the collaborators the service is wired with. Reminders, Courses,
// Bus and Scheduler are required; the rest default sensibly.
type Deps struct {
	Reminders ReminderSource
	Courses   CourseSource
	Bus       eventbus.Bus
	Scheduler *scheduler.Service
	Audit     storage.Store // optional notice audit log
	Clock     Clock         // optional, defaults to SystemClock
	Location  *time.Location
	Log       logx.Logger
}

// Service owns the reminder pipeline and its timer lines.
type Service struct {
	mu  sync.Mutex
	cfg Config

	log   logx.Logger
	bus   eventbus.Bus
	sched *scheduler.Service
	audit storage.Store
	clock Clock
	loc   *time.Location

	ledger  *Ledger
	eval    *Evaluator
	fetcher *Fetcher
	checker *PostClassChecker

	started bool
}

func New(cfg Config, deps Deps) *Service {
	cfg = cfg.withDefaults()

	log := deps.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}

	ledger := NewLedger(cfg.Window)
	return &Service{
		cfg:     cfg,
		log:     log,
		bus:     deps.Bus,
		sched:   deps.Scheduler,
		audit:   deps.Audit,
		clock:   clock,
		loc:     loc,
		ledger:  ledger,
		eval:    NewEvaluator(ledger),
		fetcher: NewFetcher(deps.Reminders, loc, log.With(logx.String("comp", "fetcher"))),
		checker: NewPostClassChecker(deps.Courses, cfg.PostClassWindow, loc, log.With(logx.String("comp", "postclass"))),
	}
}

// Ledger exposes the dedup ledger (for status surfaces and tests).
func (s *Service) Ledger() *Ledger { return s.ledger }

// Start registers the four timer lines and fires the startup run.
// Line registration failure is a fatal initialization error.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if err := s.registerLinesLocked(); err != nil {
		return err
	}
	if err := s.sched.RunNow(lineStartup, 0, s.runPipeline); err != nil {
		return fmt.Errorf("startup run: %w", err)
	}
	s.started = true
	s.log.Info("reminder service started",
		logx.Duration("check_interval", s.cfg.CheckInterval),
		logx.String("daily_at", s.cfg.DailyAt),
		logx.Duration("window", s.cfg.Window),
		logx.Duration("postclass_interval", s.cfg.PostClassInterval),
	)
	return nil
}

func (s *Service) registerLinesLocked() error {
	if _, err := s.sched.AddInterval(lineInterval, s.cfg.CheckInterval, 0, s.runPipeline); err != nil {
		return fmt.Errorf("interval line: %w", err)
	}
	if _, err := s.sched.AddDaily(lineDaily, s.cfg.DailyAt, 0, s.runPipeline); err != nil {
		return fmt.Errorf("daily line: %w", err)
	}
	if _, err := s.sched.AddInterval(linePostClass, s.cfg.PostClassInterval, 0, s.runPostClass); err != nil {
		return fmt.Errorf("postclass line: %w", err)
	}
	return nil
}

// Stop unregisters the service's lines. The scheduler handles cancelling
// in-flight runs when it stops.
func (s *Service) Stop(ctx context.Context) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.sched.RemoveLine(lineInterval)
	s.sched.RemoveLine(lineDaily)
	s.sched.RemoveLine(linePostClass)
	s.started = false
	s.log.Info("reminder service stopped")
}

// Apply updates cadences at runtime (config hot-reload). The suppression
// window is fixed at construction; changing it live would reinterpret
// existing ledger entries mid-flight.
func (s *Service) Apply(cfg Config) {
	cfg = cfg.withDefaults()
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg.Window = s.cfg.Window
	s.cfg = cfg
	s.checker = NewPostClassChecker(s.checker.src, cfg.PostClassWindow, s.loc, s.log.With(logx.String("comp", "postclass")))
	if !s.started {
		return
	}
	if err := s.registerLinesLocked(); err != nil {
		s.log.Error("line re-registration failed", logx.Err(err))
	}
}

// runPipeline is one full prune -> fetch -> evaluate -> publish cycle.
// It is the job body for the startup, interval and daily lines.
func (s *Service) runPipeline(ctx context.Context) error {
	now := s.clock().In(s.loc)

	pruned := s.ledger.Prune(now)
	if pruned > 0 {
		s.log.Debug("pruned expired ledger entries", logx.Int("removed", pruned))
	}

	cands := s.fetcher.FetchDue(ctx)
	if len(cands) == 0 {
		s.log.Debug("no due reminders this cycle")
		return nil
	}

	modals, toasts := 0, 0
	for _, c := range cands {
		d := s.evaluateOne(c, now)
		if d.Modal {
			modals++
			s.publish(ctx, EventModal, "modal", c)
		}
		if d.Toast {
			toasts++
			s.publish(ctx, EventToast, "toast", c)
		}
	}
	s.log.Info("reminder cycle done",
		logx.Int("candidates", len(cands)),
		logx.Int("modals", modals),
		logx.Int("toasts", toasts),
	)
	return nil
}

// evaluateOne isolates a panic to the candidate that caused it; one bad
// candidate must not prevent evaluation of the rest.
func (s *Service) evaluateOne(c Candidate, now time.Time) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic evaluating candidate",
				logx.String("course_id", c.ID),
				logx.Any("panic", r),
				logx.Stack(string(debug.Stack())),
			)
			d = Decision{}
		}
	}()
	return s.eval.Evaluate(c, now)
}

// runPostClass is the job body for the post-class confirmation line.
func (s *Service) runPostClass(ctx context.Context) error {
	now := s.clock().In(s.loc)

	s.mu.Lock()
	checker := s.checker
	s.mu.Unlock()

	due := checker.Scan(ctx, now)
	for _, conf := range due {
		s.bus.Publish(eventbus.Event{Type: EventConfirm, Time: now, Data: conf})
		s.recordNotice(ctx, storage.NoticeEntry{
			At:           now,
			Channel:      "confirm",
			CourseID:     fmt.Sprintf("%d", conf.Course.ID),
			CourseName:   conf.Course.Name,
			ScheduleDate: now.Format(dateLayout),
			StartTime:    conf.Schedule.StartTime,
			EndTime:      conf.Schedule.EndTime,
		})
	}
	if len(due) > 0 {
		s.log.Info("attendance confirmations due", logx.Int("count", len(due)))
	}
	return nil
}

func (s *Service) publish(ctx context.Context, eventType, channel string, c Candidate) {
	n := noticeFor(c)
	s.bus.Publish(eventbus.Event{Type: eventType, Data: n})
	s.recordNotice(ctx, storage.NoticeEntry{
		At:           s.clock(),
		Channel:      channel,
		CourseID:     n.CourseID,
		CourseName:   n.CourseName,
		ScheduleDate: n.ScheduleDate,
		StartTime:    n.StartTime,
		EndTime:      n.EndTime,
	})
}

func (s *Service) recordNotice(ctx context.Context, e storage.NoticeEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.AppendNotice(ctx, e); err != nil {
		s.log.Debug("notice audit append failed", logx.Err(err))
	}
}
