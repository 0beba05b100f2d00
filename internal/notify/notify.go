// Package notify delivers garden event notifications to downstream
// consumers. The engine hands each mutation's ordered event list to a
// Dispatcher, which queues it and returns immediately; a worker goroutine
// publishes to the configured sinks. Delivery failures are reported through
// a callback and never affect the state change that produced the events.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pottingshed/verdant/internal/garden"
)

// ErrQueueFull is reported when a notification is dropped because the
// dispatcher's queue is saturated.
var ErrQueueFull = errors.New("notify: queue full, notification dropped")

// DefaultQueueSize bounds the dispatcher's in-flight notifications.
const DefaultQueueSize = 64

// Notification is one mutation's worth of events, in emission order.
type Notification struct {
	At     time.Time      `json:"ts"`
	Dest   garden.Dest    `json:"dest"`
	Events []garden.Event `json:"events"`
}

// Notifier publishes one notification to a consumer. Implementations may
// block; the Dispatcher isolates them from the engine.
type Notifier interface {
	Publish(ctx context.Context, n Notification) error
}

// Multi fans a notification out to several sinks. Every sink is attempted;
// errors are joined.
type Multi []Notifier

func (m Multi) Publish(ctx context.Context, n Notification) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Publish(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dispatcher implements garden.Emitter with a bounded queue and a single
// worker goroutine, preserving notification order end-to-end.
type Dispatcher struct {
	sink    Notifier
	queue   chan Notification
	onError func(error)
	now     func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher creates a dispatcher publishing to sink. onError receives
// delivery and overflow errors; nil means they are written to stderr.
// queueSize <= 0 uses DefaultQueueSize.
func NewDispatcher(sink Notifier, queueSize int, onError func(error)) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if onError == nil {
		onError = func(err error) {
			fmt.Fprintf(os.Stderr, "notify: %v\n", err)
		}
	}
	return &Dispatcher{
		sink:    sink,
		queue:   make(chan Notification, queueSize),
		onError: onError,
		now:     time.Now,
	}
}

// Start launches the worker goroutine. It returns immediately.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(ctx)
}

// Stop cancels the worker and waits for it to exit. Queued notifications
// that have not been published yet are dropped.
func (d *Dispatcher) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
}

// Emit queues one notification without blocking. If the queue is full the
// notification is dropped and reported through onError; the mutation that
// produced it is already committed and stays committed.
func (d *Dispatcher) Emit(dest garden.Dest, events []garden.Event) {
	n := Notification{
		At:     d.now(),
		Dest:   dest,
		Events: append([]garden.Event(nil), events...),
	}
	select {
	case d.queue <- n:
	default:
		d.onError(fmt.Errorf("%w: dest=%s events=%d", ErrQueueFull, dest, len(events)))
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.queue:
			if err := d.sink.Publish(ctx, n); err != nil {
				d.onError(fmt.Errorf("notify: publish: %w", err))
			}
		}
	}
}
