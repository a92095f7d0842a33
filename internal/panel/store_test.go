package panel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
)

// TestStore_AddPrepends verifies most recent notifications come first.
func TestStore_AddPrepends(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.True(t, s.IsEmpty())

	require.NoError(t, s.Add(notif(t, "a", severity.Info)))
	require.NoError(t, s.Add(notif(t, "b", severity.Minor)))

	require.Equal(t, []string{"b", "a"}, s.Keys())
	require.Equal(t, 2, s.Len())
	require.False(t, s.IsEmpty())

	n, ok := s.Get("a")
	require.True(t, ok)
	require.Equal(t, "a", n.Key())
}

// TestStore_AddRejectsDuplicate pins the reject policy for duplicate keys.
func TestStore_AddRejectsDuplicate(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.NoError(t, s.Add(notif(t, "a", severity.Info)))

	err := s.Add(notif(t, "a", severity.Critical))
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, []string{"a"}, s.Keys())

	n, _ := s.Get("a")
	require.Equal(t, severity.Info, n.Known())

	require.ErrorIs(t, s.Add(nil), notification.ErrInvalidArgument)
}

// TestStore_ReplaceAllIsAtomic ensures invalid sequences leave the store untouched.
func TestStore_ReplaceAllIsAtomic(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.NoError(t, s.Add(notif(t, "old", severity.Info)))

	err := s.ReplaceAll([]*notification.Notification{
		notif(t, "x", severity.Minor),
		notif(t, "x", severity.Major),
	})
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, []string{"old"}, s.Keys())

	err = s.ReplaceAll([]*notification.Notification{notif(t, "y", severity.Minor), nil})
	require.ErrorIs(t, err, notification.ErrInvalidArgument)
	require.Equal(t, []string{"old"}, s.Keys())

	ns := []*notification.Notification{notif(t, "c", severity.Minor), notif(t, "d", severity.Major)}
	require.NoError(t, s.ReplaceAll(ns))
	require.Equal(t, []string{"c", "d"}, s.Keys())

	_, ok := s.Get("old")
	require.False(t, ok)

	// The store keeps its own slice.
	ns[0] = notif(t, "z", severity.Info)
	require.Equal(t, []string{"c", "d"}, s.Keys())
}

// TestStore_RemoveAndClear covers removal of present and absent keys.
func TestStore_RemoveAndClear(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.NoError(t, s.Add(notif(t, "a", severity.Info)))
	require.NoError(t, s.Add(notif(t, "b", severity.Minor)))
	require.NoError(t, s.Add(notif(t, "c", severity.Major)))

	n, ok := s.RemoveByKey("b")
	require.True(t, ok)
	require.Equal(t, "b", n.Key())
	require.Equal(t, []string{"c", "a"}, s.Keys())

	n, ok = s.RemoveByKey("missing")
	require.False(t, ok)
	require.Nil(t, n)
	require.Equal(t, 2, s.Len())

	list := s.List()
	list[0] = nil
	require.Equal(t, []string{"c", "a"}, s.Keys())

	s.Clear()
	require.True(t, s.IsEmpty())

	// Keys can be reused after removal.
	require.NoError(t, s.Add(notif(t, "a", severity.Critical)))
}
