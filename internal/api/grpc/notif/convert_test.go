package notif

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
	"github.com/oshokin/notif-panel/internal/panel"
)

type valve struct{}

func (valve) String() string { return "valve V-7" }

// TestNotificationToStruct_RichHandle sends rich handles as plain text.
func TestNotificationToStruct_RichHandle(t *testing.T) {
	t.Parallel()

	n, err := notification.New("v", int(severity.Major), time.Time{}, notification.Rich(valve{}))
	require.NoError(t, err)

	decoded, err := NotificationFromStruct(NotificationToStruct(n))
	require.NoError(t, err)
	require.Equal(t, notification.PlainText, decoded.Message().Format())
	require.Equal(t, "valve V-7", decoded.Message().Text())

	_, ok := decoded.Timestamp()
	require.False(t, ok)
}

// TestStatusStruct keeps counts and names across encoding.
func TestStatusStruct(t *testing.T) {
	t.Parallel()

	want := panel.Status{
		State:   alarm.WarningActive,
		Highest: severity.Major,
		Counts: map[severity.Severity]int{
			severity.Critical: 0,
			severity.Major:    2,
			severity.Minor:    1,
			severity.Info:     4,
		},
		Total:   7,
		Muted:   true,
		Visible: true,
	}

	require.Equal(t, want, StatusFromStruct(StatusToStruct(want)))
}

// TestEventStruct keeps the acknowledge-all event across encoding.
func TestEventStruct(t *testing.T) {
	t.Parallel()

	want := panel.AckAllEvent{
		Name:        panel.AckAllEventName,
		Actor:       &alarm.Actor{Hostname: "op-01", Username: "operator"},
		Keys:        []string{"c", "m"},
		RequestedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}

	got, err := EventFromStruct(EventToStruct(want))
	require.NoError(t, err)
	require.Equal(t, want, got)
}
