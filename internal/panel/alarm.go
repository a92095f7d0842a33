package panel

import (
	"context"

	"github.com/oshokin/notif-panel/internal/audio"
	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/metrics"
)

// State returns the current alarm state.
func (p *Panel) State() alarm.State {
	return p.state
}

// alarmOnOff moves the alarm to the state of the highest active severity.
// Bell, cues and visibility change only when the state does.
func (p *Panel) alarmOnOff(ctx context.Context) {
	defer p.publishMetrics()

	next := alarm.StateFor(p.counters.Highest())
	if next == p.state {
		return
	}

	previous := p.state
	p.state = next

	logger.InfoKV(ctx, "Alarm state changed", "from", previous, "to", next, "highest", p.counters.Highest())
	metrics.AlarmTransitionsTotal.WithLabelValues(next.String()).Inc()

	p.presenter.DisplayAlarm(next)

	switch next {
	case alarm.CriticalActive:
		p.playCritical(ctx)
	case alarm.WarningActive:
		p.playWarning(ctx)
	case alarm.InfoActive:
		p.playInfo(ctx)
	case alarm.Idle:
		p.stopSounds(ctx)

		if !p.pinned {
			p.hide()
		}

		return
	}

	if previous == alarm.Idle {
		p.show(p.animate)
	}
}

// Mute silences the cues. The alarm state is unchanged.
func (p *Panel) Mute(ctx context.Context) error {
	if err := p.mute.SetMuted(ctx, true); err != nil {
		return err
	}

	p.stopSounds(ctx)
	p.presenter.DisplayMuteState(true)

	return nil
}

// Unmute resumes the looping cue of the current alarm state.
func (p *Panel) Unmute(ctx context.Context) error {
	if err := p.mute.SetMuted(ctx, false); err != nil {
		return err
	}

	p.continueSounds(ctx)
	p.presenter.DisplayMuteState(false)

	return nil
}

// ToggleMute flips the mute flag, as a click on the mute button does.
func (p *Panel) ToggleMute(ctx context.Context) error {
	if p.mute.IsMuted(ctx) {
		return p.Unmute(ctx)
	}

	return p.Mute(ctx)
}

// IsMuted reports whether the cues are muted.
func (p *Panel) IsMuted(ctx context.Context) bool {
	return p.mute.IsMuted(ctx)
}

// continueSounds restarts the looping cue of the current state. The info cue
// is one-shot and is not replayed.
func (p *Panel) continueSounds(ctx context.Context) {
	switch p.state {
	case alarm.CriticalActive:
		p.playCritical(ctx)
	case alarm.WarningActive:
		p.playWarning(ctx)
	case alarm.Idle, alarm.InfoActive:
	}
}

// playInfo stops the looping cues and plays the info cue once.
func (p *Panel) playInfo(ctx context.Context) {
	p.stopCue(ctx, audio.Warning)
	p.stopCue(ctx, audio.Critical)

	if !p.mute.IsMuted(ctx) {
		p.cue(ctx, audio.Info, p.player.PlayOnce)
	}
}

// playWarning replaces the critical cue with the looping warning cue.
func (p *Panel) playWarning(ctx context.Context) {
	p.stopCue(ctx, audio.Critical)

	if !p.mute.IsMuted(ctx) {
		p.cue(ctx, audio.Warning, p.player.PlayLoop)
	}
}

// playCritical replaces the warning cue with the looping critical cue.
func (p *Panel) playCritical(ctx context.Context) {
	p.stopCue(ctx, audio.Warning)

	if !p.mute.IsMuted(ctx) {
		p.cue(ctx, audio.Critical, p.player.PlayLoop)
	}
}

// stopSounds stops every cue.
func (p *Panel) stopSounds(ctx context.Context) {
	p.stopCue(ctx, audio.Warning)
	p.stopCue(ctx, audio.Critical)
	p.stopCue(ctx, audio.Info)
}

// cue starts a playback and swallows its failure.
func (p *Panel) cue(ctx context.Context, c audio.Cue, play func(context.Context, audio.Cue) error) {
	if err := play(ctx, c); err != nil {
		metrics.PlaybackFailuresTotal.Inc()
		logger.WarnKV(ctx, "Unable to play cue", "cue", c, "error", err)

		return
	}

	metrics.CueStartsTotal.WithLabelValues(c.String()).Inc()
}

// stopCue stops a playback and swallows its failure.
func (p *Panel) stopCue(ctx context.Context, c audio.Cue) {
	if err := p.player.Stop(ctx, c); err != nil {
		metrics.PlaybackFailuresTotal.Inc()
		logger.WarnKV(ctx, "Unable to stop cue", "cue", c, "error", err)
	}
}
