package panel

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/repository/session"
)

// MuteKey is the session storage key of the mute flag.
const MuteKey = "NotifPanel.Mute"

// MuteFlag persists whether sound is muted for the lifetime of the session.
type MuteFlag struct {
	// storage holds the flag between panel re-renders.
	storage session.Storage
}

// NewMuteFlag binds the flag to session storage.
func NewMuteFlag(storage session.Storage) *MuteFlag {
	return &MuteFlag{
		storage: storage,
	}
}

// IsMuted reads the flag. Absent, unreadable or unparseable values mean false.
func (m *MuteFlag) IsMuted(ctx context.Context) bool {
	value, err := m.storage.Get(ctx, MuteKey)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.WarnKV(ctx, "Unable to read mute flag", "error", err)
		}

		return false
	}

	muted, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}

	return muted
}

// SetMuted writes the flag.
func (m *MuteFlag) SetMuted(ctx context.Context, muted bool) error {
	if err := m.storage.Set(ctx, MuteKey, strconv.FormatBool(muted)); err != nil {
		return fmt.Errorf("persist mute flag: %w", err)
	}

	return nil
}
