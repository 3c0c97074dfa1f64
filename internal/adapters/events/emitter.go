// Package events fans domain events out to subscribers. Emission is
// fire-and-forget: a slow or absent consumer drops events, it never blocks
// or fails the operation that produced them.
package events

import (
	"context"
	"sync"

	domainevents "github.com/som23ya/workwale-core/internal/domain/events"
	"github.com/som23ya/workwale-core/pkg/logger"
	"github.com/som23ya/workwale-core/pkg/metrics"
)

const defaultSubscriberBuffer = 256

// Emitter publishes a domain event to interested consumers.
type Emitter interface {
	Emit(ctx context.Context, ev domainevents.Event)
}

// Bus is an in-process Emitter delivering events to subscriber channels.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan domainevents.Event
	buffer      int
	closed      bool
	log         logger.Logger
}

// NewBus creates a Bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		buffer: defaultSubscriberBuffer,
		log:    logger.Named("events"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new consumer and returns its channel. The channel is
// closed when the bus closes.
func (b *Bus) Subscribe() <-chan domainevents.Event {
	ch := make(chan domainevents.Event, b.buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Emit delivers the event to every subscriber without blocking. An event
// that does not fit a subscriber's buffer is dropped for that subscriber.
func (b *Bus) Emit(ctx context.Context, ev domainevents.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	metrics.RecordEventEmitted(string(ev.Kind))

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			metrics.RecordEventDropped()
			b.log.Debug(ctx, "event dropped for slow subscriber",
				logger.String("kind", string(ev.Kind)))
		}
	}
}

// Close closes every subscriber channel. Further Emit calls are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}

// Multi combines emitters into one that publishes to all of them in order.
func Multi(emitters ...Emitter) Emitter {
	return multiEmitter(emitters)
}

type multiEmitter []Emitter

func (m multiEmitter) Emit(ctx context.Context, ev domainevents.Event) {
	for _, e := range m {
		e.Emit(ctx, ev)
	}
}

// Discard is an Emitter that drops everything. It stands in when no event
// sink is configured.
var Discard Emitter = discardEmitter{}

type discardEmitter struct{}

func (discardEmitter) Emit(context.Context, domainevents.Event) {}
