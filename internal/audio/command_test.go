package audio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writePlayer creates a fake player script that keeps "playing" for a while.
func writePlayer(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell player scripts are not available on windows")
	}

	path := filepath.Join(t.TempDir(), "fake-player")

	//nolint:gosec // The script must be executable.
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755))

	return path
}

// writeCue creates an empty sound file.
func writeCue(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	return path
}

// TestNewCommandPlayer_UnknownProgram verifies a missing player is a playback failure.
func TestNewCommandPlayer_UnknownProgram(t *testing.T) {
	t.Parallel()

	_, err := NewCommandPlayer("definitely-not-a-sound-player", nil)
	require.ErrorIs(t, err, ErrPlayback)
}

// TestCommandPlayer_MissingFile verifies cues without a readable file fail with ErrPlayback.
func TestCommandPlayer_MissingFile(t *testing.T) {
	t.Parallel()

	p, err := NewCommandPlayer(writePlayer(t), map[Cue]string{
		Warning: filepath.Join(t.TempDir(), "missing.mp3"),
	})
	require.NoError(t, err)

	require.ErrorIs(t, p.PlayLoop(context.Background(), Warning), ErrPlayback)
	require.ErrorIs(t, p.PlayOnce(context.Background(), Info), ErrPlayback)
	require.NoError(t, p.Close(context.Background()))
}

// TestCommandPlayer_LoopAndStop starts a looping cue, stops it and closes the player.
func TestCommandPlayer_LoopAndStop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	p, err := NewCommandPlayer(writePlayer(t), map[Cue]string{
		Warning:  writeCue(t, "notif-warning.mp3"),
		Critical: writeCue(t, "notif-error.mp3"),
	})
	require.NoError(t, err)

	require.NoError(t, p.PlayLoop(ctx, Warning))
	require.True(t, p.Playing(Warning))

	// Looping the same cue again keeps the running playback.
	require.NoError(t, p.PlayLoop(ctx, Warning))
	require.True(t, p.Playing(Warning))

	require.NoError(t, p.PlayLoop(ctx, Critical))
	require.NoError(t, p.Stop(ctx, Warning))
	require.False(t, p.Playing(Warning))
	require.True(t, p.Playing(Critical))

	// Stopping an idle cue is a no-op.
	require.NoError(t, p.Stop(ctx, Info))

	done := make(chan error, 1)

	go func() { done <- p.Close(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("player did not stop in time")
	}

	require.False(t, p.Playing(Critical))
}

// TestNopPlayer accepts every request.
func TestNopPlayer(t *testing.T) {
	t.Parallel()

	var p NopPlayer

	ctx := context.Background()
	require.NoError(t, p.PlayOnce(ctx, Info))
	require.NoError(t, p.PlayLoop(ctx, Critical))
	require.NoError(t, p.Stop(ctx, Warning))
	require.Equal(t, "critical", Critical.String())
}
