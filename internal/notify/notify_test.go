package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pottingshed/verdant/internal/garden"
)

// chanSink delivers every published notification on a channel and returns a
// fixed error.
type chanSink struct {
	ch  chan Notification
	err error
}

func (c *chanSink) Publish(_ context.Context, n Notification) error {
	c.ch <- n
	return c.err
}

func sampleEvents() []garden.Event {
	return []garden.Event{
		{ObjectID: "1", SlotID: "Main-2", Category: "Main", Action: garden.ActionRemove, Reason: garden.ReasonDuplicate},
		{ObjectID: "1", SlotID: "Main-4", Category: "Main", Action: garden.ActionAdd},
	}
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	t.Parallel()
	sink := &chanSink{ch: make(chan Notification, 4)}
	d := NewDispatcher(sink, 4, func(err error) { t.Errorf("unexpected error: %v", err) })
	d.Start(context.Background())
	defer d.Stop()

	d.Emit(garden.DestSingle, sampleEvents())
	d.Emit(garden.DestBatch, sampleEvents()[:1])

	first := waitFor(t, sink.ch)
	if first.Dest != garden.DestSingle || len(first.Events) != 2 {
		t.Fatalf("first = %+v, want single with 2 events", first)
	}
	if first.Events[0].Action != garden.ActionRemove || first.Events[1].Action != garden.ActionAdd {
		t.Error("event order not preserved")
	}
	second := waitFor(t, sink.ch)
	if second.Dest != garden.DestBatch || len(second.Events) != 1 {
		t.Fatalf("second = %+v, want batch with 1 event", second)
	}
}

func TestDispatcher_EmitCopiesEvents(t *testing.T) {
	t.Parallel()
	sink := &chanSink{ch: make(chan Notification, 1)}
	d := NewDispatcher(sink, 1, nil)
	d.Start(context.Background())
	defer d.Stop()

	events := sampleEvents()
	d.Emit(garden.DestSingle, events)
	events[0].ObjectID = "tampered"

	n := waitFor(t, sink.ch)
	if n.Events[0].ObjectID != "1" {
		t.Error("dispatcher shares the caller's event slice")
	}
}

func TestDispatcher_QueueFullDropsAndReports(t *testing.T) {
	t.Parallel()
	// Never started: nothing drains the queue.
	errs := make(chan error, 1)
	sink := &chanSink{ch: make(chan Notification, 1)}
	d := NewDispatcher(sink, 1, func(err error) { errs <- err })

	d.Emit(garden.DestSingle, sampleEvents())
	d.Emit(garden.DestSingle, sampleEvents())

	select {
	case err := <-errs:
		if !errors.Is(err, ErrQueueFull) {
			t.Fatalf("err = %v, want ErrQueueFull", err)
		}
	default:
		t.Fatal("second emit should have been dropped and reported")
	}
}

func TestDispatcher_SinkFailureReported(t *testing.T) {
	t.Parallel()
	errs := make(chan error, 1)
	sink := &chanSink{ch: make(chan Notification, 1), err: errors.New("sink broke")}
	d := NewDispatcher(sink, 1, func(err error) { errs <- err })
	d.Start(context.Background())
	defer d.Stop()

	d.Emit(garden.DestSingle, sampleEvents())

	select {
	case err := <-errs:
		if err == nil || !strings.Contains(err.Error(), "sink broke") {
			t.Fatalf("err = %v, want wrapped sink error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the delivery error")
	}
}

func TestMulti_AttemptsEverySink(t *testing.T) {
	t.Parallel()
	a := &chanSink{ch: make(chan Notification, 1), err: errors.New("a failed")}
	b := &chanSink{ch: make(chan Notification, 1)}
	m := Multi{a, b}

	err := m.Publish(context.Background(), Notification{Dest: garden.DestSingle, Events: sampleEvents()})
	if err == nil || !strings.Contains(err.Error(), "a failed") {
		t.Fatalf("err = %v, want a's failure", err)
	}
	if len(b.ch) != 1 {
		t.Error("sink b should still have been attempted")
	}
}

func waitFor(t *testing.T, ch chan Notification) Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return Notification{}
	}
}
