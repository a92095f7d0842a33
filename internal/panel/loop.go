package panel

import (
	"context"
	"errors"
)

// DefaultQueueSize is the inbox capacity of a Loop.
const DefaultQueueSize = 64

// ErrLoopStopped is returned when a message is sent to a loop that has exited.
var ErrLoopStopped = errors.New("panel loop stopped")

// Loop owns a Panel on a single goroutine. Every mutation from another
// goroutine is posted as a message and executed in order, so the Panel never
// sees concurrent calls.
type Loop struct {
	// panel is only touched by the goroutine running Run.
	panel *Panel
	// inbox queues messages for the panel.
	inbox chan message
	// done is closed when Run returns.
	done chan struct{}
}

// message is a unit of work executed on the loop goroutine.
type message struct {
	// ctx is the sender's context. A message whose ctx is done before it
	// runs is skipped; fn itself gets ctx without its cancellation.
	ctx context.Context //nolint:containedctx // Messages carry their caller's context to the loop goroutine.
	// fn operates on the panel.
	fn func(ctx context.Context, p *Panel) error
	// reply receives the result of fn when the sender waits for it.
	reply chan error
}

// NewLoop wraps the panel. Nothing runs until Run is called.
func NewLoop(p *Panel, queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Loop{
		panel: p,
		inbox: make(chan message, queueSize),
		done:  make(chan struct{}),
	}
}

// Run executes messages until ctx is canceled. Messages still queued at that
// point are dropped and their senders receive ErrLoopStopped.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-l.inbox:
			err := m.ctx.Err()
			if err == nil {
				// A mutation runs to the end once started, mute lookups included.
				err = m.fn(context.WithoutCancel(m.ctx), l.panel)
			}

			if m.reply != nil {
				m.reply <- err
			}
		}
	}
}

// Post queues fn without waiting for it to run. The message keeps the values
// of ctx but not its cancellation.
func (l *Loop) Post(ctx context.Context, fn func(ctx context.Context, p *Panel) error) error {
	return l.send(ctx, message{ctx: context.WithoutCancel(ctx), fn: fn})
}

// Do queues fn and waits for its result. If ctx is done before fn starts,
// fn never runs.
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context, p *Panel) error) error {
	reply := make(chan error, 1)

	if err := l.send(ctx, message{ctx: ctx, fn: fn, reply: reply}); err != nil {
		return err
	}

	select {
	case err := <-reply:
		return err
	case <-l.done:
		// The loop may have answered right before stopping.
		select {
		case err := <-reply:
			return err
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the loop has stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// send enqueues a message unless the loop has stopped.
func (l *Loop) send(ctx context.Context, m message) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.inbox <- m:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Query runs fn on the loop and returns its value.
func Query[T any](ctx context.Context, l *Loop, fn func(ctx context.Context, p *Panel) (T, error)) (T, error) {
	var result T

	err := l.Do(ctx, func(ctx context.Context, p *Panel) error {
		var err error

		result, err = fn(ctx, p)

		return err
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return result, nil
}
