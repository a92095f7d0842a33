package panel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/severity"
)

// TestRequestAckAll fires the event to listeners in registration order.
func TestRequestAckAll(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	actor := &alarm.Actor{Hostname: "scada-op-01", Username: "operator"}

	var got []string

	unsubscribeFirst := f.panel.OnAckAll(func(_ context.Context, e AckAllEvent) {
		got = append(got, "first")

		require.Equal(t, AckAllEventName, e.Name)
		require.Equal(t, []string{"c", "m"}, e.Keys)
		require.Equal(t, actor, e.Actor)
		require.NotSame(t, actor, e.Actor)
		require.Equal(t, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), e.RequestedAt)
	})
	f.panel.OnAckAll(func(context.Context, AckAllEvent) { got = append(got, "second") })

	// Nothing to acknowledge.
	require.False(t, f.panel.RequestAckAll(ctx, actor))
	require.Empty(t, got)

	require.NoError(t, f.panel.Add(ctx, notif(t, "m", severity.Minor)))
	require.NoError(t, f.panel.Add(ctx, notif(t, "c", severity.Critical)))

	require.True(t, f.panel.RequestAckAll(ctx, actor))
	require.Equal(t, []string{"first", "second"}, got)

	// The panel does not acknowledge anything itself.
	require.Equal(t, 2, f.panel.Status(ctx).Total)

	unsubscribeFirst()
	unsubscribeFirst()

	require.True(t, f.panel.RequestAckAll(ctx, actor))
	require.Equal(t, []string{"first", "second", "second"}, got)
}
