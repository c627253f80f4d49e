package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"coursebell/internal/eventbus"
	logx "coursebell/pkg/logx"
)

var ErrNotStarted = errors.New("scheduler not started")

type Service struct {
	mu sync.Mutex

	log logx.Logger
	bus eventbus.Bus
	cfg Config
	loc *time.Location

	parser cron.Parser
	c      *cron.Cron
	defs   []lineDef

	queue    chan task
	stopCh   chan struct{}
	workerWG sync.WaitGroup

	hmu     sync.Mutex
	history []HistoryItem

	seq uint64
}

func New(cfg Config, log logx.Logger, bus eventbus.Bus) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:    cfg,
		log:    log,
		bus:    bus,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled
}

func (s *Service) Location() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loc != nil {
		return s.loc
	}
	return s.loadLocationLocked()
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	if !s.cfg.Enabled {
		s.log.Info("scheduler disabled")
		return
	}
	s.stopCh = make(chan struct{})

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	s.queue = make(chan task, 64)

	loc := s.loadLocationLocked()
	s.loc = loc
	s.c = cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))

	// Register lines added before Start().
	for i := range s.defs {
		if err := s.addCronLocked(&s.defs[i]); err != nil {
			s.log.Error("line register failed", logx.String("name", s.defs[i].name), logx.Err(err))
		}
	}

	stopCh := s.stopCh
	queue := s.queue
	for i := 0; i < workers; i++ {
		i := i
		s.workerWG.Add(1)
		go func() {
			defer s.workerWG.Done()
			s.worker(ctx, stopCh, queue, i)
		}()
	}
	s.c.Start()
	s.log.Info("scheduler started", logx.Int("workers", workers), logx.String("tz", loc.String()))
}

// Stop cancels all lines as a unit and waits for in-flight runs to return.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.stopCh = nil
	s.queue = nil
	c := s.c
	s.c = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}

	done := make(chan struct{})
	go func() {
		s.workerWG.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}

	s.log.Info("scheduler stopped")
}

// AddInterval registers a recurring line firing every `every`.
func (s *Service) AddInterval(name string, every time.Duration, timeout time.Duration, job func(ctx context.Context) error) (string, error) {
	return s.AddIntervalOpt(name, every, timeout, TaskOptions{}, job)
}

func (s *Service) AddIntervalOpt(name string, every time.Duration, timeout time.Duration, opt TaskOptions, job func(ctx context.Context) error) (string, error) {
	if every <= 0 {
		return "", fmt.Errorf("interval must be > 0, got %s", every)
	}
	return s.add(name, fmt.Sprintf("@every %s", every.String()), timeout, opt, job)
}

// AddDaily registers a line firing every day at HH:MM in the scheduler timezone.
func (s *Service) AddDaily(name string, atHHMM string, timeout time.Duration, job func(ctx context.Context) error) (string, error) {
	h, m, err := ParseHHMM(atHHMM)
	if err != nil {
		return "", err
	}
	return s.add(name, fmt.Sprintf("%d %d * * *", m, h), timeout, TaskOptions{}, job)
}

func (s *Service) add(name, spec string, timeout time.Duration, opt TaskOptions, job func(ctx context.Context) error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		return "", errors.New("name required")
	}
	// Upsert by name: remove previous line with the same name to prevent
	// duplicates across hot-reloads or repeated registrations.
	s.removeLineLocked(name)

	s.seq++
	id := fmt.Sprintf("line:%d", s.seq)
	d := lineDef{
		id:      id,
		name:    name,
		spec:    spec,
		timeout: s.resolveTimeout(timeout),
		job:     job,
		opt:     opt.withDefaults(s.cfg),
		state:   &runState{},
	}
	s.defs = append(s.defs, d)
	if s.c == nil {
		// Not started yet: keep the definition and register when Start() runs.
		return id, nil
	}
	def := &s.defs[len(s.defs)-1]
	if err := s.addCronLocked(def); err != nil {
		s.log.Error("line register failed", logx.String("name", name), logx.String("spec", spec), logx.Err(err))
		return id, err
	}
	s.log.Debug("line registered", logx.String("name", name), logx.String("id", id), logx.String("spec", spec), logx.Duration("timeout", d.timeout))
	return id, nil
}

// RunNow enqueues a one-shot run of job immediately (the startup line).
func (s *Service) RunNow(name string, timeout time.Duration, job func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.queue == nil {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.seq++
	t := task{
		id:      fmt.Sprintf("now:%d", s.seq),
		name:    name,
		timeout: s.resolveTimeout(timeout),
		run:     job,
		opt:     TaskOptions{}.withDefaults(s.cfg),
		state:   &runState{},
	}
	s.mu.Unlock()
	s.enqueue(t)
	return nil
}

// RemoveLine unregisters a line by name. Unknown names are a no-op.
func (s *Service) RemoveLine(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLineLocked(name)
}

func (s *Service) removeLineLocked(name string) {
	for i := range s.defs {
		if s.defs[i].name != name {
			continue
		}
		if s.c != nil && s.defs[i].entryID != 0 {
			s.c.Remove(s.defs[i].entryID)
		}
		s.defs = append(s.defs[:i], s.defs[i+1:]...)
		return
	}
}

func (s *Service) addCronLocked(d *lineDef) error {
	id := d.id
	name := d.name
	timeout := d.timeout
	job := d.job
	opt := d.opt
	state := d.state
	entryID, err := s.c.AddFunc(d.spec, func() {
		s.enqueue(task{id: id, name: name, timeout: timeout, run: job, opt: opt, state: state})
	})
	if err != nil {
		return err
	}
	d.entryID = entryID
	return nil
}

func (s *Service) loadLocationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone, falling back to Local", logx.String("tz", tz), logx.Err(err))
		return time.Local
	}
	return loc
}

func (s *Service) resolveTimeout(t time.Duration) time.Duration {
	if t > 0 {
		return t
	}
	return s.cfg.DefaultTimeout
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Enabled:  s.cfg.Enabled,
		Timezone: s.cfg.Timezone,
		Workers:  s.cfg.Workers,
	}
	if s.queue != nil {
		snap.QueueLen = len(s.queue)
	}
	for _, d := range s.defs {
		li := LineInfo{ID: d.id, Name: d.name, Spec: d.spec, Timeout: d.timeout}
		if s.c != nil && d.entryID != 0 {
			e := s.c.Entry(d.entryID)
			li.Next = e.Next
			li.Prev = e.Prev
		}
		snap.Lines = append(snap.Lines, li)
	}
	s.mu.Unlock()

	s.hmu.Lock()
	snap.History = append([]HistoryItem(nil), s.history...)
	s.hmu.Unlock()
	return snap
}

// ParseHHMM parses a wall-clock "HH:MM" string. Config layers use it to
// reject a bad daily time before it reaches line registration.
func ParseHHMM(s string) (hour int, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
