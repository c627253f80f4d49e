package eventbus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(4)
	defer unsub()

	b.Publish(Event{Type: "a", Data: 1})
	b.Publish(Event{Type: "b", Data: 2})

	ev := <-ch
	if ev.Type != "a" || ev.Data.(int) != 1 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Time.IsZero() {
		t.Fatalf("publish must stamp a time")
	}
	ev = <-ch
	if ev.Type != "b" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestSubscribeTypeFilter(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(4, "want.this", "and.this")
	defer unsub()

	b.Publish(Event{Type: "ignore.me"})
	b.Publish(Event{Type: "want.this"})
	b.Publish(Event{Type: "and.this"})
	b.Publish(Event{Type: "ignore.me.too"})

	if ev := <-ch; ev.Type != "want.this" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev := <-ch; ev.Type != "and.this" {
		t.Fatalf("unexpected event %+v", ev)
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected extra event %+v", ev)
	default:
	}
}

func TestPublishDropsWhenFull(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Publish(Event{Type: "one"})
		b.Publish(Event{Type: "two"}) // buffer full, must not block
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a full subscriber")
	}

	if ev := <-ch; ev.Type != "one" {
		t.Fatalf("unexpected event %+v", ev)
	}
	select {
	case ev := <-ch:
		t.Fatalf("dropped event delivered anyway: %+v", ev)
	default:
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(4)

	unsub()
	unsub() // idempotent

	// Channel is closed; publishing afterwards must not panic.
	b.Publish(Event{Type: "late"})

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}
}
