package panel

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/severity"
	"github.com/oshokin/notif-panel/internal/repository/session"
)

// TestLoop_SerializesProducers feeds the panel from many goroutines.
func TestLoop_SerializesProducers(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		loop := NewLoop(New(ctx, session.NewMemoryStorage()), 0)
		go func() { _ = loop.Run(ctx) }()

		const producers = 16

		var wg sync.WaitGroup

		for i := range producers {
			n := notif(t, string(rune('a'+i)), severity.Minor)

			wg.Go(func() {
				err := loop.Do(ctx, func(ctx context.Context, p *Panel) error {
					return p.Add(ctx, n)
				})
				assert.NoError(t, err)
			})
		}

		wg.Wait()

		status, err := Query(ctx, loop, func(ctx context.Context, p *Panel) (Status, error) {
			return p.Status(ctx), nil
		})
		require.NoError(t, err)
		require.Equal(t, producers, status.Total)
		require.Equal(t, producers, status.Counts[severity.Minor])
		require.Equal(t, alarm.WarningActive, status.State)
	})
}

// TestLoop_PostRunsInOrder verifies posted messages execute before a later Do.
func TestLoop_PostRunsInOrder(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		loop := NewLoop(New(ctx, session.NewMemoryStorage()), 4)
		go func() { _ = loop.Run(ctx) }()

		require.NoError(t, loop.Post(ctx, func(ctx context.Context, p *Panel) error {
			return p.Add(ctx, notif(t, "c", severity.Critical))
		}))
		require.NoError(t, loop.Post(ctx, func(ctx context.Context, p *Panel) error {
			p.RemoveByKey(ctx, "c")

			return p.Add(ctx, notif(t, "i", severity.Info))
		}))

		state, err := Query(ctx, loop, func(_ context.Context, p *Panel) (alarm.State, error) {
			return p.State(), nil
		})
		require.NoError(t, err)
		require.Equal(t, alarm.InfoActive, state)
	})
}

// TestLoop_ReturnsErrors verifies Do and Query surface the panel's errors.
func TestLoop_ReturnsErrors(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		loop := NewLoop(New(ctx, session.NewMemoryStorage()), 0)
		go func() { _ = loop.Run(ctx) }()

		n := notif(t, "k", severity.Major)
		add := func(ctx context.Context, p *Panel) error { return p.Add(ctx, n) }

		require.NoError(t, loop.Do(ctx, add))
		require.ErrorIs(t, loop.Do(ctx, add), ErrDuplicateKey)

		total, err := Query(ctx, loop, func(_ context.Context, p *Panel) (int, error) {
			return p.Status(ctx).Total, ErrDuplicateKey
		})
		require.ErrorIs(t, err, ErrDuplicateKey)
		require.Zero(t, total)
	})
}

// TestLoop_Stopped verifies senders are released once the loop exits.
func TestLoop_Stopped(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		loop := NewLoop(New(ctx, session.NewMemoryStorage()), 1)
		runErr := make(chan error, 1)

		go func() { runErr <- loop.Run(ctx) }()

		cancel()
		synctest.Wait()

		require.NoError(t, <-runErr)

		select {
		case <-loop.Done():
		default:
			t.Fatal("loop is not done")
		}

		noop := func(context.Context, *Panel) error { return nil }

		require.ErrorIs(t, loop.Do(context.Background(), noop), ErrLoopStopped)
		require.ErrorIs(t, loop.Post(context.Background(), noop), ErrLoopStopped)
	})
}

// TestLoop_SkipsExpiredRequests verifies a request whose caller gave up while
// it was queued leaves a muted panel untouched and silent.
func TestLoop_SkipsExpiredRequests(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		player := newFakePlayer()
		p := New(ctx, contextStorage{session.NewMemoryStorage()}, WithPlayer(player))
		require.NoError(t, p.Mute(ctx))

		loop := NewLoop(p, 0)
		go func() { _ = loop.Run(ctx) }()

		release := make(chan struct{})
		require.NoError(t, loop.Post(ctx, func(context.Context, *Panel) error {
			<-release

			return nil
		}))

		reqCtx, reqCancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer reqCancel()

		critical := notif(t, "c", severity.Critical)
		addErr := make(chan error, 1)

		go func() {
			addErr <- loop.Do(reqCtx, func(ctx context.Context, p *Panel) error {
				return p.Add(ctx, critical)
			})
		}()

		time.Sleep(30 * time.Millisecond)
		require.ErrorIs(t, <-addErr, context.DeadlineExceeded)

		close(release)

		status, err := Query(ctx, loop, func(ctx context.Context, p *Panel) (Status, error) {
			return p.Status(ctx), nil
		})
		require.NoError(t, err)
		require.Zero(t, status.Total)
		require.Equal(t, alarm.Idle, status.State)
		require.Empty(t, player.loopingCues())
	})
}

// TestLoop_MutationIgnoresLateCancel verifies a started mutation still reads
// the mute flag after its caller cancels.
func TestLoop_MutationIgnoresLateCancel(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		player := newFakePlayer()
		p := New(ctx, contextStorage{session.NewMemoryStorage()}, WithPlayer(player))
		require.NoError(t, p.Mute(ctx))

		loop := NewLoop(p, 0)
		go func() { _ = loop.Run(ctx) }()

		reqCtx, reqCancel := context.WithCancel(ctx)
		critical := notif(t, "c", severity.Critical)

		// The caller may see either outcome; the panel must stay consistent.
		_ = loop.Do(reqCtx, func(ctx context.Context, p *Panel) error {
			reqCancel()

			return p.Add(ctx, critical)
		})

		status, err := Query(ctx, loop, func(ctx context.Context, p *Panel) (Status, error) {
			return p.Status(ctx), nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, status.Total)
		require.Equal(t, alarm.CriticalActive, status.State)
		require.True(t, status.Muted)
		require.Empty(t, player.loopingCues())
	})
}
