package panel

import (
	"context"
	"time"

	"github.com/oshokin/notif-panel/internal/audio"
	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/metrics"
	"github.com/oshokin/notif-panel/internal/repository/session"
)

// Panel is the notification panel core. It is not safe for concurrent use;
// wrap it in a Loop when several goroutines feed it.
type Panel struct {
	// store holds the notifications in display order.
	store *Store
	// counters aggregates the store by known severity.
	counters Counters
	// state is the current alarm state.
	state alarm.State
	// mute gates the sound cues.
	mute *MuteFlag
	// player plays the sound cues.
	player Player
	// presenter renders the panel.
	presenter Presenter
	// phrases are handed to the presenter on construction.
	phrases Phrases
	// animate enables the slide-in when the panel is shown by an alarm.
	animate bool
	// pinned keeps the panel visible when the alarm goes idle.
	pinned bool
	// visible tracks whether the presenter currently shows the panel.
	visible bool
	// listeners receive acknowledge-all events.
	listeners []ackAllSubscription
	// nextListenerID identifies the next subscription.
	nextListenerID int
	// now returns the current time.
	now func() time.Time
}

// Option configures a Panel.
type Option func(*Panel)

// WithPlayer sets the sound player. Without it cues are only logged.
func WithPlayer(player Player) Option {
	return func(p *Panel) {
		if player != nil {
			p.player = player
		}
	}
}

// WithPresenter sets the presentation layer. Without it nothing is rendered.
func WithPresenter(presenter Presenter) Option {
	return func(p *Panel) {
		if presenter != nil {
			p.presenter = presenter
		}
	}
}

// WithPhrases overrides the user-facing texts.
func WithPhrases(phrases Phrases) Option {
	return func(p *Panel) {
		p.phrases = phrases
	}
}

// WithAnimation enables or disables the slide-in on show.
func WithAnimation(animate bool) Option {
	return func(p *Panel) {
		p.animate = animate
	}
}

// WithPinned keeps the panel open when no alarm is active.
func WithPinned(pinned bool) Option {
	return func(p *Panel) {
		p.pinned = pinned
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) {
		if now != nil {
			p.now = now
		}
	}
}

// New prepares an empty panel whose mute flag lives in storage.
func New(ctx context.Context, storage session.Storage, opts ...Option) *Panel {
	p := &Panel{
		store:     NewStore(),
		mute:      NewMuteFlag(storage),
		player:    audio.NopPlayer{},
		presenter: nopPresenter{},
		phrases:   DefaultPhrases(),
		animate:   true,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.presenter.Prepare(p.phrases)
	p.presenter.DisplayMuteState(p.mute.IsMuted(ctx))
	p.presenter.DisplayEmptyState(true)
	p.presenter.DisplayAlarm(p.state)

	if p.pinned {
		p.show(false)
	}

	p.counters.Reset()
	p.publishMetrics()

	return p
}

// Add inserts the notification at the top of the panel.
// A duplicate key is rejected with ErrDuplicateKey.
func (p *Panel) Add(ctx context.Context, n *notification.Notification) error {
	if err := p.store.Add(n); err != nil {
		return err
	}

	p.presenter.DisplayEmptyState(false)
	p.presenter.Prepend(n)
	p.counters.Increment(n.Known())

	logger.DebugKV(ctx, "Notification added", "key", n.Key(), "severity", n.Known())

	p.alarmOnOff(ctx)

	return nil
}

// ReplaceAll discards every notification and installs ns in the given order.
// On error the panel is left untouched.
func (p *Panel) ReplaceAll(ctx context.Context, ns []*notification.Notification) error {
	if err := p.store.ReplaceAll(ns); err != nil {
		return err
	}

	p.presenter.Replace(p.store.List())
	p.presenter.DisplayEmptyState(p.store.IsEmpty())
	p.counters.RecomputeAll(ns)

	logger.DebugKV(ctx, "Notifications replaced", "count", len(ns))

	p.alarmOnOff(ctx)

	return nil
}

// RemoveByKey removes the notification with the key and reports whether it existed.
func (p *Panel) RemoveByKey(ctx context.Context, key string) bool {
	n, ok := p.store.RemoveByKey(key)
	if !ok {
		return false
	}

	p.presenter.Remove(key)
	p.presenter.DisplayEmptyState(p.store.IsEmpty())
	p.counters.Decrement(n.Known())

	logger.DebugKV(ctx, "Notification removed", "key", key)

	p.alarmOnOff(ctx)

	return true
}

// Clear removes every notification.
func (p *Panel) Clear(ctx context.Context) {
	p.store.Clear()
	p.presenter.Replace(nil)
	p.presenter.DisplayEmptyState(true)
	p.counters.Reset()
	p.alarmOnOff(ctx)
}

// IsEmpty reports whether the panel holds no notifications.
func (p *Panel) IsEmpty() bool {
	return p.store.IsEmpty()
}

// Notifications returns the notifications in display order.
func (p *Panel) Notifications() []*notification.Notification {
	return p.store.List()
}

// AddSamples replaces the contents with one sample notification per known severity.
func (p *Panel) AddSamples(ctx context.Context) error {
	samples, err := Samples(p.now())
	if err != nil {
		return err
	}

	return p.ReplaceAll(ctx, samples)
}

// Samples builds one notification per known severity, least severe first,
// keyed "a" to "d".
func Samples(now time.Time) ([]*notification.Notification, error) {
	const message = "<div>Notification text</div>" +
		"<div><span class='notif-btn'>Info</span><span class='notif-btn'>Ack</span></div>"

	levels := []severity.Severity{severity.Info, severity.Minor, severity.Major, severity.Critical}
	samples := make([]*notification.Notification, 0, len(levels))

	for i, s := range levels {
		n, err := notification.New(string(rune('a'+i)), int(s), now, notification.Markup(message))
		if err != nil {
			return nil, err
		}

		samples = append(samples, n)
	}

	return samples, nil
}

// DisplayWaitingState shows or hides the loading indicator.
func (p *Panel) DisplayWaitingState(waiting bool) {
	p.presenter.DisplayWaitingState(waiting)
}

// Toggle shows or hides the panel, as a click on the bell does.
func (p *Panel) Toggle() {
	if p.visible {
		p.hide()
	} else {
		p.show(false)
	}
}

// SetPinned keeps the panel open when idle. Unpinning an idle panel hides it.
func (p *Panel) SetPinned(pinned bool) {
	p.pinned = pinned

	switch {
	case pinned:
		p.show(false)
	case !p.state.IsActive():
		p.hide()
	}
}

// Status is a snapshot of the panel.
type Status struct {
	// State is the current alarm state.
	State alarm.State
	// Highest is the highest active severity.
	Highest severity.Severity
	// Counts holds the number of notifications per known severity.
	Counts map[severity.Severity]int
	// Total is the number of notifications.
	Total int
	// Muted reports whether sound is muted.
	Muted bool
	// Visible reports whether the panel is shown.
	Visible bool
	// Pinned reports whether the panel stays open when idle.
	Pinned bool
}

// Status returns a snapshot of the panel.
func (p *Panel) Status(ctx context.Context) Status {
	counts := make(map[severity.Severity]int, len(severity.Known()))
	for _, s := range severity.Known() {
		counts[s] = p.counters.Count(s)
	}

	return Status{
		State:   p.state,
		Highest: p.counters.Highest(),
		Counts:  counts,
		Total:   p.store.Len(),
		Muted:   p.mute.IsMuted(ctx),
		Visible: p.visible,
		Pinned:  p.pinned,
	}
}

// show makes the panel visible if it is hidden.
func (p *Panel) show(animate bool) {
	if p.visible {
		return
	}

	p.visible = true
	p.presenter.Show(animate)
}

// hide makes the panel invisible.
func (p *Panel) hide() {
	p.visible = false
	p.presenter.Hide()
}

// publishMetrics exports the counters and alarm state.
func (p *Panel) publishMetrics() {
	for _, s := range severity.Known() {
		metrics.ActiveNotifications.WithLabelValues(s.String()).Set(float64(p.counters.Count(s)))
	}

	metrics.AlarmState.Set(float64(p.state))
}
