package panel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/notif-panel/internal/audio"
	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
	"github.com/oshokin/notif-panel/internal/repository/session"
)

var (
	errTestDevice  = errors.New("audio device unavailable")
	errTestStorage = errors.New("storage unavailable")
)

// fakePlayer records cue requests.
type fakePlayer struct {
	// looping holds the cues currently looping.
	looping map[audio.Cue]bool
	// once lists the one-shot cues played.
	once []audio.Cue
	// fail makes every call return an error.
	fail error
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{looping: make(map[audio.Cue]bool)}
}

// PlayOnce records a one-shot cue.
func (f *fakePlayer) PlayOnce(_ context.Context, cue audio.Cue) error {
	if f.fail != nil {
		return f.fail
	}

	f.once = append(f.once, cue)

	return nil
}

// PlayLoop marks the cue as looping.
func (f *fakePlayer) PlayLoop(_ context.Context, cue audio.Cue) error {
	if f.fail != nil {
		return f.fail
	}

	f.looping[cue] = true

	return nil
}

// Stop unmarks the cue.
func (f *fakePlayer) Stop(_ context.Context, cue audio.Cue) error {
	delete(f.looping, cue)

	return f.fail
}

// loopingCues returns the cues currently looping.
func (f *fakePlayer) loopingCues() []audio.Cue {
	var cues []audio.Cue

	for _, c := range []audio.Cue{audio.Info, audio.Warning, audio.Critical} {
		if f.looping[c] {
			cues = append(cues, c)
		}
	}

	return cues
}

// fakePresenter records what the panel asked to render.
type fakePresenter struct {
	phrases Phrases
	visible bool
	shows   []bool
	hides   int
	bell    alarm.State
	keys    []string
	muted   bool
	empty   bool
	waiting bool
}

func (f *fakePresenter) Prepare(phrases Phrases) { f.phrases = phrases }

func (f *fakePresenter) Show(animate bool) {
	f.visible = true
	f.shows = append(f.shows, animate)
}

func (f *fakePresenter) Hide() {
	f.visible = false
	f.hides++
}

func (f *fakePresenter) DisplayAlarm(state alarm.State) { f.bell = state }

func (f *fakePresenter) Prepend(n *notification.Notification) {
	f.keys = append([]string{n.Key()}, f.keys...)
}

func (f *fakePresenter) Remove(key string) {
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i:i], f.keys[i+1:]...)

			return
		}
	}
}

func (f *fakePresenter) Replace(ns []*notification.Notification) {
	f.keys = nil
	for _, n := range ns {
		f.keys = append(f.keys, n.Key())
	}
}

func (f *fakePresenter) DisplayMuteState(muted bool)      { f.muted = muted }
func (f *fakePresenter) DisplayEmptyState(empty bool)     { f.empty = empty }
func (f *fakePresenter) DisplayWaitingState(waiting bool) { f.waiting = waiting }

// failingStorage fails every operation.
type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, error) { return "", errTestStorage }
func (failingStorage) Set(context.Context, string, string) error   { return errTestStorage }
func (failingStorage) Close(context.Context) error                 { return nil }

// contextStorage is a memory storage that fails once the caller's context is
// done, like a network backend.
type contextStorage struct {
	*session.MemoryStorage
}

func (s contextStorage) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return s.MemoryStorage.Get(ctx, key)
}

func (s contextStorage) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.MemoryStorage.Set(ctx, key, value)
}

// fixture is a panel wired to fakes.
type fixture struct {
	panel     *Panel
	player    *fakePlayer
	presenter *fakePresenter
	storage   *session.MemoryStorage
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		player:    newFakePlayer(),
		presenter: new(fakePresenter),
		storage:   session.NewMemoryStorage(),
	}

	opts = append([]Option{
		WithPlayer(f.player),
		WithPresenter(f.presenter),
		WithClock(func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }),
	}, opts...)

	f.panel = New(context.Background(), f.storage, opts...)

	return f
}

// notif builds a notification or fails the test.
func notif(t *testing.T, key string, s severity.Severity) *notification.Notification {
	t.Helper()

	n, err := notification.New(key, int(s), time.Time{}, notification.Plain(key))
	require.NoError(t, err)

	return n
}
