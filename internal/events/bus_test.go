package events

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(NewRunStartedEvent("run-1", "paper.txt", "file"))

	select {
	case ev := <-ch:
		if ev.EventType() != TypeRunStarted {
			t.Errorf("unexpected type %s", ev.EventType())
		}
		if ev.RunID() != "run-1" {
			t.Errorf("unexpected run id %s", ev.RunID())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribeFiltersTypes(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch := bus.Subscribe(TypeStageCompleted)
	bus.Publish(NewStageStartedEvent("r", "methodology"))
	bus.Publish(NewStageCompletedEvent("r", "methodology", true, "", time.Second))

	select {
	case ev := <-ch:
		if ev.EventType() != TypeStageCompleted {
			t.Errorf("filter leaked event type %s", ev.EventType())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for filtered event")
	}
	select {
	case ev := <-ch:
		t.Errorf("unexpected second event %s", ev.EventType())
	default:
	}
}

func TestRingBufferDropsOldest(t *testing.T) {
	bus := NewBus(2)
	defer bus.Close()

	ch := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(NewStageStartedEvent("r", "insight"))
	}

	if bus.DroppedCount() == 0 {
		t.Error("expected drops with full buffer")
	}
	// Buffer still holds the most recent events.
	if len(ch) != 2 {
		t.Errorf("expected full buffer of 2, got %d", len(ch))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(4)
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(NewRunCompletedEvent("r", "success", "", time.Second))
	bus.Close()
}

func TestCloseIsIdempotent(t *testing.T) {
	bus := NewBus(4)
	ch := bus.Subscribe()
	bus.Close()
	bus.Close()

	if _, ok := <-ch; ok {
		t.Error("expected closed subscriber channel")
	}
	bus.Publish(NewRunStartedEvent("r", "x", "text"))
}

func TestNotifyAcceptsEvents(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Notify(NewReportSavedEvent("r", "/tmp/report.md", "markdown"))
	bus.Notify("not an event") // silently ignored

	select {
	case ev := <-ch:
		if ev.EventType() != TypeReportSaved {
			t.Errorf("unexpected type %s", ev.EventType())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}
