package notif

import (
	"context"
	"sync"

	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/metrics"
	"github.com/oshokin/notif-panel/internal/panel"
)

// DefaultWatchBuffer is the per-subscriber event buffer of a Broker.
const DefaultWatchBuffer = 16

// Broker fans acknowledge-all events out to watch streams. Publish never
// blocks: a subscriber whose buffer is full misses the event.
type Broker struct {
	// subscribers maps subscription ids to their channels.
	subscribers map[int]chan panel.AckAllEvent
	// nextID identifies the next subscription.
	nextID int
	// buffer is the channel capacity of new subscriptions.
	buffer int
	// closed is set by Close.
	closed bool
	// mu protects subscribers, nextID and closed.
	mu sync.Mutex
}

// NewBroker creates a broker with the given per-subscriber buffer.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultWatchBuffer
	}

	return &Broker{
		subscribers: make(map[int]chan panel.AckAllEvent),
		buffer:      buffer,
	}
}

// Publish delivers the event to every subscriber. It matches panel.AckAllListener.
func (b *Broker) Publish(ctx context.Context, event panel.AckAllEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			logger.WarnKV(ctx, "Dropping acknowledge-all event for slow watcher", "subscription", id)
		}
	}
}

// Subscribe registers a subscriber. The returned cancel function closes the channel.
func (b *Broker) Subscribe() (events <-chan panel.AckAllEvent, cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan panel.AckAllEvent, b.buffer)
	if b.closed {
		close(ch)

		return ch, func() {}
	}

	b.subscribers[id] = ch

	metrics.WatchStreamsActive.Inc()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			if _, ok := b.subscribers[id]; !ok {
				return
			}

			delete(b.subscribers, id)
			close(ch)

			metrics.WatchStreamsActive.Dec()
		})
	}
}

// Close ends every subscription. Watch streams see their channel closed and
// return, which lets a graceful server stop complete.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true

	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)

		metrics.WatchStreamsActive.Dec()
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subscribers)
}
