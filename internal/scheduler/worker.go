package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"coursebell/internal/eventbus"
	logx "coursebell/pkg/logx"
)

func (s *Service) enqueue(t task) {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()
	if q == nil {
		s.log.Debug("scheduler not running; dropping task", logx.String("task", t.name))
		return
	}
	select {
	case q <- t:
		// ok
	default:
		s.log.Warn("scheduler queue full; dropping task", logx.String("task", t.name), logx.Int("queue_len", len(q)), logx.Int("queue_cap", cap(q)))
	}
}

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, queue <-chan task, idx int) {
	for {
		// Fast-exit check so a closed stopCh wins over queued work.
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case t := <-queue:
			s.execOne(ctx, stopCh, t)
		}
	}
}

func (s *Service) execOne(ctx context.Context, stopCh <-chan struct{}, t task) {
	start := time.Now()

	// Overlap control: shared state between cron invocations of the same line.
	if t.state != nil && t.opt.Overlap == OverlapSkipIfRunning {
		t.state.mu.Lock()
		if t.state.running {
			t.state.mu.Unlock()
			s.log.Debug("previous run still in flight; skipping tick", logx.String("task", t.name))
			return
		}
		t.state.running = true
		t.state.mu.Unlock()
		defer func() {
			t.state.mu.Lock()
			t.state.running = false
			t.state.mu.Unlock()
		}()
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: "task.started", Time: start, Data: TaskEvent{ID: t.id, Name: t.name, Started: start}})
	}

	retries := t.opt.RetryMax
	var err error
	attempts := 0
	maxAttempts := 1 + retries
attemptLoop:
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		err = s.runOnce(ctx, t)
		if err == nil || attempt >= maxAttempts {
			break
		}

		// Linear backoff is enough here: lines re-fire on their own cadence
		// anyway, retries only smooth over blips inside one tick.
		delay := t.opt.RetryBase * time.Duration(attempt)
		s.log.Debug("task retry scheduled", logx.String("task", t.name), logx.Int("attempt", attempt+1), logx.Duration("delay", delay), logx.Err(err))
		tmr := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			if !tmr.Stop() {
				<-tmr.C
			}
			err = ctx.Err()
			break attemptLoop
		case <-stopCh:
			if !tmr.Stop() {
				<-tmr.C
			}
			err = errors.New("scheduler stopped")
			break attemptLoop
		case <-tmr.C:
		}
	}

	dur := time.Since(start)
	item := HistoryItem{ID: t.id, Name: t.name, Started: start, Duration: dur}
	if err != nil {
		item.Error = err.Error()
		s.log.Warn("task failed", logx.String("task", t.name), logx.Err(err), logx.Duration("dur", dur), logx.Int("attempts", attempts))
		if s.bus != nil {
			s.bus.Publish(eventbus.Event{Type: "task.failed", Time: time.Now(), Data: TaskEvent{ID: t.id, Name: t.name, Started: start, Duration: dur, Attempts: attempts, Error: item.Error}})
		}
	} else {
		// Avoid noisy logs for very frequent tasks: only elevate to INFO when it took noticeable time.
		if dur >= 750*time.Millisecond {
			s.log.Info("task completed", logx.String("task", t.name), logx.Duration("dur", dur), logx.Int("attempts", attempts))
		} else {
			s.log.Debug("task completed", logx.String("task", t.name), logx.Duration("dur", dur), logx.Int("attempts", attempts))
		}
		if s.bus != nil {
			s.bus.Publish(eventbus.Event{Type: "task.finished", Time: time.Now(), Data: TaskEvent{ID: t.id, Name: t.name, Started: start, Duration: dur, Attempts: attempts}})
		}
	}

	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.history = append(s.history, item)
	s.mu.Lock()
	historySize := s.cfg.HistorySize
	s.mu.Unlock()
	// A zero/negative history_size would mean unbounded growth; cap it.
	if historySize <= 0 {
		historySize = 200
	}
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
}

// runOnce runs one attempt with the per-task timeout and panic isolation.
// A panicking job must not take down the worker or unschedule the line.
func (s *Service) runOnce(ctx context.Context, t task) (err error) {
	runCtx := ctx
	var cancel func()
	if t.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in task %s: %v", t.name, r)
			s.log.Error("panic in task", logx.String("task", t.name), logx.Any("panic", r), logx.Stack(string(debug.Stack())))
		}
	}()
	return t.run(runCtx)
}
