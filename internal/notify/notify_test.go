package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"coursebell/internal/api"
	"coursebell/internal/eventbus"
	"coursebell/internal/reminder"
	logx "coursebell/pkg/logx"
)

type recordingSink struct {
	name string
	err  error

	mu         sync.Mutex
	deliveries []Delivery
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Deliver(ctx context.Context, d Delivery) error {
	r.mu.Lock()
	r.deliveries = append(r.deliveries, d)
	r.mu.Unlock()
	return r.err
}

func (r *recordingSink) got() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}

func modalEvent(id, name string) eventbus.Event {
	return eventbus.Event{Type: reminder.EventModal, Data: reminder.Notice{
		CourseID: id, CourseName: name, ScheduleDate: "2025-03-10", StartTime: "15:00",
	}}
}

func toastEvent(id string) eventbus.Event {
	return eventbus.Event{Type: reminder.EventToast, Data: reminder.Notice{
		CourseID: id, CourseName: "Physics", ScheduleDate: "2025-03-11", StartTime: "09:00",
	}}
}

func TestDeliveryFor(t *testing.T) {
	tests := []struct {
		name    string
		ev      eventbus.Event
		channel string
		ok      bool
	}{
		{"modal", modalEvent("1", "Algebra"), "modal", true},
		{"toast", toastEvent("2"), "toast", true},
		{"confirm", eventbus.Event{Type: reminder.EventConfirm, Data: reminder.Confirmation{
			Course: api.TodayCourse{ID: 3, Name: "Biology"},
		}}, "confirm", true},
		{"unknown type", eventbus.Event{Type: "task.finished", Data: 1}, "", false},
		{"wrong payload", eventbus.Event{Type: reminder.EventModal, Data: "oops"}, "", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			d, ok := deliveryFor(tc.ev)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && d.Channel != tc.channel {
				t.Fatalf("channel = %q, want %q", d.Channel, tc.channel)
			}
		})
	}
}

func TestDispatchFansOutToAllSinks(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b", err: errors.New("broken")}
	c := &recordingSink{name: "c"}
	s := New(Config{}, eventbus.New(), logx.Nop(), a, b, c)

	s.dispatch(context.Background(), modalEvent("1", "Algebra"))

	// A failing sink must not stop delivery to the others.
	for _, sink := range []*recordingSink{a, b, c} {
		if got := sink.got(); len(got) != 1 {
			t.Fatalf("sink %s got %d deliveries, want 1", sink.name, len(got))
		}
	}
}

func TestDispatchRateLimitsRepeatedToasts(t *testing.T) {
	sink := &recordingSink{name: "a"}
	s := New(Config{ToastRatePerSec: 1}, eventbus.New(), logx.Nop(), sink)

	for i := 0; i < 5; i++ {
		s.dispatch(context.Background(), toastEvent("2"))
	}

	// One token per course: exactly one of the repeats goes through.
	if got := sink.got(); len(got) != 1 {
		t.Fatalf("expected 1 delivered toast, got %d", len(got))
	}
}

func TestDispatchDeliversDistinctCourseToasts(t *testing.T) {
	sink := &recordingSink{name: "a"}
	s := New(Config{}, eventbus.New(), logx.Nop(), sink)

	// One pipeline cycle with several courses tomorrow publishes their
	// toasts back to back; every course must reach the sink.
	for _, id := range []string{"1", "2", "3"} {
		s.dispatch(context.Background(), toastEvent(id))
	}

	got := sink.got()
	if len(got) != 3 {
		t.Fatalf("expected 3 delivered toasts, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, d := range got {
		seen[d.Notice.CourseID] = true
	}
	for _, id := range []string{"1", "2", "3"} {
		if !seen[id] {
			t.Fatalf("course %s toast never delivered", id)
		}
	}

	// A repeat of an already-delivered course is still limited.
	s.dispatch(context.Background(), toastEvent("2"))
	if got := sink.got(); len(got) != 3 {
		t.Fatalf("expected the repeat to be dropped, got %d deliveries", len(got))
	}
}

func TestDispatchDoesNotLimitModals(t *testing.T) {
	sink := &recordingSink{name: "a"}
	s := New(Config{ToastRatePerSec: 1}, eventbus.New(), logx.Nop(), sink)

	for i := 0; i < 3; i++ {
		s.dispatch(context.Background(), modalEvent("1", "Algebra"))
	}
	if got := sink.got(); len(got) != 3 {
		t.Fatalf("expected 3 delivered modals, got %d", len(got))
	}
}

func TestServiceConsumesBusEvents(t *testing.T) {
	bus := eventbus.New()
	sink := &recordingSink{name: "a"}
	s := New(Config{ToastRatePerSec: 100}, bus, logx.Nop(), sink)

	s.Start(context.Background())
	bus.Publish(modalEvent("1", "Algebra"))
	bus.Publish(eventbus.Event{Type: "task.finished", Data: 1}) // filtered out

	deadline := time.After(5 * time.Second)
	for len(sink.got()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("event never reached the sink")
		case <-time.After(10 * time.Millisecond):
		}
	}
	s.Stop(context.Background())

	if got := sink.got(); len(got) != 1 || got[0].Channel != "modal" {
		t.Fatalf("unexpected deliveries: %+v", got)
	}
}

func TestConsoleSinkRendering(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleSink(&buf)

	notice := &reminder.Notice{CourseID: "12", CourseName: "Algebra", ScheduleDate: "2025-03-10", StartTime: "15:00", EndTime: "16:30"}
	if err := c.Deliver(context.Background(), Delivery{Channel: "modal", Notice: notice}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if err := c.Deliver(context.Background(), Delivery{Channel: "toast", Notice: notice}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if err := c.Deliver(context.Background(), Delivery{Channel: "confirm", Confirmation: &reminder.Confirmation{
		Course:   api.TodayCourse{ID: 12, Name: "Algebra"},
		Schedule: api.Schedule{StartTime: "15:00", EndTime: "16:30"},
	}}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"[REMINDER] Algebra on 2025-03-10 at 15:00-16:30",
		"[tomorrow] Algebra at 15:00",
		"[CONFIRM ATTENDANCE] Algebra 15:00-16:30",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
