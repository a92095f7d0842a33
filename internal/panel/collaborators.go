package panel

import (
	"context"

	"github.com/oshokin/notif-panel/internal/audio"
	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
)

// Player plays the sound cues. Failures are logged and swallowed by the panel.
type Player interface {
	PlayOnce(ctx context.Context, cue audio.Cue) error
	PlayLoop(ctx context.Context, cue audio.Cue) error
	Stop(ctx context.Context, cue audio.Cue) error
}

// Presenter renders the panel. Calls are fire-and-forget.
type Presenter interface {
	// Prepare is called once with the phrases before any other call.
	Prepare(phrases Phrases)
	// Show makes the panel visible, optionally sliding it in.
	Show(animate bool)
	// Hide makes the panel invisible.
	Hide()
	// DisplayAlarm updates the bell indicator.
	DisplayAlarm(state alarm.State)
	// Prepend renders a new notification at the top.
	Prepend(n *notification.Notification)
	// Remove drops the rendered notification with the key.
	Remove(key string)
	// Replace renders ns in place of every rendered notification.
	Replace(ns []*notification.Notification)
	// DisplayMuteState updates the mute button.
	DisplayMuteState(muted bool)
	// DisplayEmptyState shows the placeholder and disables ack-all when empty.
	DisplayEmptyState(empty bool)
	// DisplayWaitingState shows or hides a loading indicator.
	DisplayWaitingState(waiting bool)
}

// Phrases are the user-facing texts of the panel.
type Phrases struct {
	NoNotif string
	Mute    string
	Unmute  string
	AckAll  string
}

// DefaultPhrases returns the built-in English phrases.
func DefaultPhrases() Phrases {
	return Phrases{
		NoNotif: "No notifications",
		Mute:    "Mute",
		Unmute:  "Unmute",
		AckAll:  "Ack All",
	}
}

// nopPresenter renders nothing.
type nopPresenter struct{}

func (nopPresenter) Prepare(Phrases) {}
func (nopPresenter) Show(bool) {}
func (nopPresenter) Hide() {}
func (nopPresenter) DisplayAlarm(alarm.State) {}
func (nopPresenter) Prepend(*notification.Notification) {}
func (nopPresenter) Remove(string) {}
func (nopPresenter) Replace([]*notification.Notification) {}
func (nopPresenter) DisplayMuteState(bool) {}
func (nopPresenter) DisplayEmptyState(bool) {}
func (nopPresenter) DisplayWaitingState(bool) {}
