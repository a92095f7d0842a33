package server

import (
	"context"

	api "github.com/oshokin/notif-panel/internal/api/grpc/notif"
	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/panel"
)

// service adapts the panel loop to the transport's Service interface.
// Every call is executed on the loop goroutine.
type service struct {
	// loop owns the panel.
	loop *panel.Loop
	// broker fans acknowledge-all events out to watch streams.
	broker *api.Broker
}

var _ api.Service = (*service)(nil)

// newService wraps the loop.
func newService(loop *panel.Loop, broker *api.Broker) *service {
	return &service{
		loop:   loop,
		broker: broker,
	}
}

// Add inserts a notification at the top of the panel.
func (s *service) Add(ctx context.Context, n *notification.Notification) (panel.Status, error) {
	return s.mutate(ctx, func(ctx context.Context, p *panel.Panel) error {
		return p.Add(ctx, n)
	})
}

// Replace installs ns in place of every notification.
func (s *service) Replace(ctx context.Context, ns []*notification.Notification) (panel.Status, error) {
	return s.mutate(ctx, func(ctx context.Context, p *panel.Panel) error {
		return p.ReplaceAll(ctx, ns)
	})
}

// Remove drops the notification with the key.
func (s *service) Remove(ctx context.Context, key string) (bool, panel.Status, error) {
	var removed bool

	status, err := s.mutate(ctx, func(ctx context.Context, p *panel.Panel) error {
		removed = p.RemoveByKey(ctx, key)

		return nil
	})

	return removed, status, err
}

// Clear removes every notification.
func (s *service) Clear(ctx context.Context) (panel.Status, error) {
	return s.mutate(ctx, func(ctx context.Context, p *panel.Panel) error {
		p.Clear(ctx)

		return nil
	})
}

// SetMute mutes or unmutes the cues.
func (s *service) SetMute(ctx context.Context, muted bool) (panel.Status, error) {
	return s.mutate(ctx, func(ctx context.Context, p *panel.Panel) error {
		if muted {
			return p.Mute(ctx)
		}

		return p.Unmute(ctx)
	})
}

// AckAll fires the acknowledge-all event on behalf of the actor.
func (s *service) AckAll(ctx context.Context, actor *alarm.Actor) (bool, panel.Status, error) {
	var requested bool

	status, err := s.mutate(ctx, func(ctx context.Context, p *panel.Panel) error {
		requested = p.RequestAckAll(ctx, actor)

		return nil
	})

	return requested, status, err
}

// Status returns a snapshot of the panel.
func (s *service) Status(ctx context.Context) (panel.Status, error) {
	return s.mutate(ctx, func(context.Context, *panel.Panel) error { return nil })
}

// SubscribeAckAll registers an acknowledge-all watcher.
func (s *service) SubscribeAckAll() (<-chan panel.AckAllEvent, func()) {
	return s.broker.Subscribe()
}

// mutate runs fn on the loop and returns the resulting snapshot.
func (s *service) mutate(ctx context.Context, fn func(ctx context.Context, p *panel.Panel) error) (panel.Status, error) {
	return panel.Query(ctx, s.loop, func(ctx context.Context, p *panel.Panel) (panel.Status, error) {
		if err := fn(ctx, p); err != nil {
			return panel.Status{}, err
		}

		return p.Status(ctx), nil
	})
}
