package panel

import (
	"context"
	"time"

	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/metrics"
)

// AckAllEventName is the name of the acknowledge-all event.
const AckAllEventName = "rs:ackAll"

// AckAllEvent is fired when the user asks to acknowledge every notification.
// The panel does not handle it; push sources listen and acknowledge upstream.
type AckAllEvent struct {
	// Name is always AckAllEventName.
	Name string
	// Actor is who requested the acknowledgement.
	Actor *alarm.Actor
	// Keys are the notification keys displayed when the request was made.
	Keys []string
	// RequestedAt is when the request was made.
	RequestedAt time.Time
}

// AckAllListener receives acknowledge-all events on the panel's goroutine.
// It must not block.
type AckAllListener func(ctx context.Context, event AckAllEvent)

// ackAllSubscription is a registered listener.
type ackAllSubscription struct {
	id       int
	listener AckAllListener
}

// OnAckAll registers a listener and returns a function that unregisters it.
func (p *Panel) OnAckAll(listener AckAllListener) (unsubscribe func()) {
	id := p.nextListenerID
	p.nextListenerID++
	p.listeners = append(p.listeners, ackAllSubscription{id: id, listener: listener})

	return func() {
		for i, sub := range p.listeners {
			if sub.id == id {
				p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)

				return
			}
		}
	}
}

// RequestAckAll fires the acknowledge-all event to every listener, in
// registration order. Like the disabled button of an empty panel, it does
// nothing and returns false when there is nothing to acknowledge.
func (p *Panel) RequestAckAll(ctx context.Context, actor *alarm.Actor) bool {
	if p.store.IsEmpty() {
		return false
	}

	event := AckAllEvent{
		Name:        AckAllEventName,
		Actor:       actor.Clone(),
		Keys:        p.store.Keys(),
		RequestedAt: p.now(),
	}

	logger.InfoKV(ctx, "Acknowledge all requested", "actor", actor, "count", len(event.Keys))
	metrics.AckAllRequestsTotal.Inc()

	for _, sub := range append([]ackAllSubscription(nil), p.listeners...) {
		sub.listener(ctx, event)
	}

	return true
}
