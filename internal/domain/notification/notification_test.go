package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/notif-panel/internal/domain/severity"
)

// TestNew_RequiresKey verifies the key is mandatory.
func TestNew_RequiresKey(t *testing.T) {
	t.Parallel()

	n, err := New("", 1, time.Time{}, Plain("boom"))
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Nil(t, n)
}

// TestNew_NormalizesSeverity ensures the known severity is derived from the raw code.
func TestNew_NormalizesSeverity(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	n, err := New("pump-1", 260, ts, Markup("<b>Pressure</b>"))
	require.NoError(t, err)
	require.Equal(t, "pump-1", n.Key())
	require.Equal(t, 260, n.Severity())
	require.Equal(t, severity.Major, n.Known())

	got, ok := n.Timestamp()
	require.True(t, ok)
	require.Equal(t, ts, got)
	require.Equal(t, MarkupText, n.Message().Format())
	require.Equal(t, "<b>Pressure</b>", n.Message().Text())
}

// TestNew_OptionalFields verifies timestamp and message may be absent.
func TestNew_OptionalFields(t *testing.T) {
	t.Parallel()

	n, err := New("k", 0, time.Time{}, Message{})
	require.NoError(t, err)
	require.Equal(t, severity.Undefined, n.Known())

	_, ok := n.Timestamp()
	require.False(t, ok)
	require.True(t, n.Message().IsEmpty())
	require.Equal(t, PlainText, n.Message().Format())
}

// TestMessageVariants checks the three payload cases.
func TestMessageVariants(t *testing.T) {
	t.Parallel()

	type element struct{ id string }

	rich := Rich(&element{id: "btn"})
	require.Equal(t, RichHandle, rich.Format())
	require.Empty(t, rich.Text())
	require.Equal(t, &element{id: "btn"}, rich.Handle())
	require.False(t, rich.IsEmpty())
	require.True(t, Rich(nil).IsEmpty())

	plain := Plain("text")
	require.Equal(t, PlainText, plain.Format())
	require.Nil(t, plain.Handle())
	require.False(t, plain.IsEmpty())
}

// TestParseFormat covers wire names of message formats.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, PlainText, f)

	f, err = ParseFormat("markup")
	require.NoError(t, err)
	require.Equal(t, MarkupText, f)
	require.Equal(t, "markup", f.String())

	_, err = ParseFormat("rich")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
