// Package notify delivers reminder events to their rendering surfaces.
//
// The pipeline publishes to the event bus and moves on; this package owns
// the subscription side: a consumer loop fans each event out to the
// configured sinks (console, optionally Telegram). Toasts are rate-limited
// here because the upstream toast channel is intentionally not deduplicated.
package notify

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"

	"coursebell/internal/eventbus"
	"coursebell/internal/reminder"
	logx "coursebell/pkg/logx"
)

var ErrStopped = errors.New("notify service stopped")

// Delivery is one event handed to a sink.
type Delivery struct {
	// Channel is "modal", "toast" or "confirm".
	Channel string
	// Notice is set for modal and toast deliveries.
	Notice *reminder.Notice
	// Confirmation is set for confirm deliveries.
	Confirmation *reminder.Confirmation
}

// Sink renders deliveries somewhere. Implementations must be safe for
// sequential calls from the consumer loop; delivery errors are logged and
// never retried (the next cadence tick regenerates anything that matters).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, d Delivery) error
}

type Config struct {
	// ToastRatePerSec bounds repeated toast deliveries per course. The limit
	// is keyed by course id: one cycle publishing toasts for N distinct
	// courses delivers all N. 0 means 1/s.
	ToastRatePerSec int
}

// toastLimiterCap bounds the per-course limiter map. The map normally holds
// one entry per course scheduled tomorrow; hitting the cap means course ids
// churned for a long time, and resetting only risks one extra toast each.
const toastLimiterCap = 1024

// Service subscribes to the reminder events and fans them out to sinks.
type Service struct {
	log   logx.Logger
	bus   eventbus.Bus
	sinks []Sink

	toastRate rate.Limit
	tlMu      sync.Mutex
	toastLim  map[string]*rate.Limiter // course id -> limiter

	mu     sync.Mutex
	unsub  func()
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg Config, bus eventbus.Bus, log logx.Logger, sinks ...Sink) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	rps := cfg.ToastRatePerSec
	if rps <= 0 {
		rps = 1
	}
	return &Service{
		log:       log,
		bus:       bus,
		sinks:     sinks,
		toastRate: rate.Limit(rps),
		toastLim:  map[string]*rate.Limiter{},
	}
}

// allowToast rate-limits toasts per course: distinct courses never contend
// for the same tokens, only repeats of the same course are dropped.
func (s *Service) allowToast(courseID string) bool {
	s.tlMu.Lock()
	defer s.tlMu.Unlock()
	if len(s.toastLim) > toastLimiterCap {
		s.toastLim = map[string]*rate.Limiter{}
	}
	l, ok := s.toastLim[courseID]
	if !ok {
		l = rate.NewLimiter(s.toastRate, 1)
		s.toastLim[courseID] = l
	}
	return l.Allow()
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		return
	}
	if len(s.sinks) == 0 {
		s.log.Info("no sinks configured; notify service idle")
		return
	}

	ch, unsub := s.bus.Subscribe(64,
		reminder.EventModal,
		reminder.EventToast,
		reminder.EventConfirm,
	)
	runCtx, cancel := context.WithCancel(ctx)
	s.unsub = unsub
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.consume(runCtx, ch)
	}()
	s.log.Info("notify service started", logx.Int("sinks", len(s.sinks)))
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	unsub := s.unsub
	cancel := s.cancel
	s.unsub = nil
	s.cancel = nil
	s.mu.Unlock()

	if unsub == nil {
		return
	}
	unsub()
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
	s.log.Info("notify service stopped")
}

func (s *Service) consume(ctx context.Context, ch <-chan eventbus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.dispatch(ctx, ev)
		}
	}
}

func (s *Service) dispatch(ctx context.Context, ev eventbus.Event) {
	d, ok := deliveryFor(ev)
	if !ok {
		s.log.Debug("ignoring event with unexpected payload", logx.String("type", ev.Type))
		return
	}

	// Toasts are not deduplicated upstream; bound repeats per course here.
	if d.Channel == "toast" && !s.allowToast(d.Notice.CourseID) {
		s.log.Debug("toast rate-limited", logx.String("course_id", d.Notice.CourseID))
		return
	}

	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, d); err != nil {
			s.log.Warn("delivery failed",
				logx.String("sink", sink.Name()),
				logx.String("channel", d.Channel),
				logx.Err(err),
			)
		}
	}
}

func deliveryFor(ev eventbus.Event) (Delivery, bool) {
	switch ev.Type {
	case reminder.EventModal:
		n, ok := ev.Data.(reminder.Notice)
		if !ok {
			return Delivery{}, false
		}
		return Delivery{Channel: "modal", Notice: &n}, true
	case reminder.EventToast:
		n, ok := ev.Data.(reminder.Notice)
		if !ok {
			return Delivery{}, false
		}
		return Delivery{Channel: "toast", Notice: &n}, true
	case reminder.EventConfirm:
		c, ok := ev.Data.(reminder.Confirmation)
		if !ok {
			return Delivery{}, false
		}
		return Delivery{Channel: "confirm", Confirmation: &c}, true
	default:
		return Delivery{}, false
	}
}
