package audio

import (
	"context"
	"errors"

	"github.com/oshokin/notif-panel/internal/logger"
)

// Cue identifies a sound of the panel.
type Cue int

// Panel cues.
const (
	// Info is played once when an information alarm is raised.
	Info Cue = iota
	// Warning loops while a major or minor alarm is raised.
	Warning
	// Critical loops while a critical alarm is raised.
	Critical
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// ErrPlayback is returned when a cue cannot be played or stopped.
var ErrPlayback = errors.New("playback failure")

// NopPlayer accepts every request and only logs it. It stands in when no
// audio device or player program is configured.
type NopPlayer struct{}

// PlayOnce logs the request.
func (NopPlayer) PlayOnce(ctx context.Context, cue Cue) error {
	logger.DebugKV(ctx, "Play cue once", "cue", cue)

	return nil
}

// PlayLoop logs the request.
func (NopPlayer) PlayLoop(ctx context.Context, cue Cue) error {
	logger.DebugKV(ctx, "Loop cue", "cue", cue)

	return nil
}

// Stop logs the request.
func (NopPlayer) Stop(ctx context.Context, cue Cue) error {
	logger.DebugKV(ctx, "Stop cue", "cue", cue)

	return nil
}

// Close does nothing.
func (NopPlayer) Close(context.Context) error {
	return nil
}
