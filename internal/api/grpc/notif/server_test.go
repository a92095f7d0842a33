package notif

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
	"github.com/oshokin/notif-panel/internal/panel"
)

// fakeService records the calls made by the transport.
type fakeService struct {
	added   []*notification.Notification
	removed []string
	muted   *bool
	actor   *alarm.Actor
	err     error
	status  panel.Status
	broker  *Broker
}

func (f *fakeService) Add(_ context.Context, n *notification.Notification) (panel.Status, error) {
	f.added = append(f.added, n)

	return f.status, f.err
}

func (f *fakeService) Replace(_ context.Context, ns []*notification.Notification) (panel.Status, error) {
	f.added = ns

	return f.status, f.err
}

func (f *fakeService) Remove(_ context.Context, key string) (bool, panel.Status, error) {
	f.removed = append(f.removed, key)

	return true, f.status, f.err
}

func (f *fakeService) Clear(context.Context) (panel.Status, error) {
	return f.status, f.err
}

func (f *fakeService) SetMute(_ context.Context, muted bool) (panel.Status, error) {
	f.muted = &muted

	return f.status, f.err
}

func (f *fakeService) AckAll(_ context.Context, actor *alarm.Actor) (bool, panel.Status, error) {
	f.actor = actor

	return true, f.status, f.err
}

func (f *fakeService) Status(context.Context) (panel.Status, error) {
	return f.status, f.err
}

func (f *fakeService) SubscribeAckAll() (<-chan panel.AckAllEvent, func()) {
	return f.broker.Subscribe()
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()

	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)

	return s
}

// TestServer_Add_Validation ensures malformed notifications return InvalidArgument.
func TestServer_Add_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"missing key", map[string]any{"severity": 1}},
		{"empty key", map[string]any{"key": "", "severity": 1}},
		{"missing severity", map[string]any{"key": "k"}},
		{"string severity", map[string]any{"key": "k", "severity": "critical"}},
		{"fractional severity", map[string]any{"key": "k", "severity": 1.5}},
		{"bad timestamp", map[string]any{"key": "k", "severity": 1, "timestamp": "yesterday"}},
		{"bad format", map[string]any{"key": "k", "severity": 1, "format": "rich"}},
		{"numeric message", map[string]any{"key": "k", "severity": 1, "message": 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := new(fakeService)
			s := NewServer(svc)

			_, err := s.Add(context.Background(), mustStruct(t, tt.fields))
			require.Equal(t, codes.InvalidArgument, status.Code(err))
			require.Empty(t, svc.added)
		})
	}
}

// TestServer_Add decodes the notification and returns the status.
func TestServer_Add(t *testing.T) {
	t.Parallel()

	svc := &fakeService{status: panel.Status{State: alarm.CriticalActive, Highest: severity.Critical, Total: 1}}
	s := NewServer(svc)

	resp, err := s.Add(context.Background(), mustStruct(t, map[string]any{
		"key":       "tank-1",
		"severity":  3,
		"timestamp": "2026-10-19T08:30:00Z",
		"message":   "<b>overflow</b>",
		"format":    "markup",
	}))
	require.NoError(t, err)
	require.Len(t, svc.added, 1)

	n := svc.added[0]
	require.Equal(t, "tank-1", n.Key())
	require.Equal(t, 3, n.Severity())
	require.Equal(t, severity.Critical, n.Known())
	require.Equal(t, notification.MarkupText, n.Message().Format())

	ts, ok := n.Timestamp()
	require.True(t, ok)
	require.Equal(t, 2026, ts.Year())

	st := StatusFromStruct(resp.GetFields()[FieldStatus].GetStructValue())
	require.Equal(t, alarm.CriticalActive, st.State)
	require.Equal(t, 1, st.Total)
}

// TestServer_ErrorMapping maps domain errors to status codes.
func TestServer_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("%w: %q", panel.ErrDuplicateKey, "k"), codes.AlreadyExists},
		{fmt.Errorf("%w: nil", notification.ErrInvalidArgument), codes.InvalidArgument},
		{panel.ErrLoopStopped, codes.Unavailable},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("disk on fire"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()

			s := NewServer(&fakeService{err: tt.err})

			_, err := s.Add(context.Background(), mustStruct(t, map[string]any{"key": "k", "severity": 1}))
			require.Equal(t, tt.code, status.Code(err))
		})
	}
}

// TestServer_OtherMethods checks request decoding of the remaining unary calls.
func TestServer_OtherMethods(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := new(fakeService)
	s := NewServer(svc)

	_, err := s.Remove(ctx, mustStruct(t, map[string]any{}))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err := s.Remove(ctx, mustStruct(t, map[string]any{"key": "k"}))
	require.NoError(t, err)
	require.True(t, resp.GetFields()[FieldRemoved].GetBoolValue())
	require.Equal(t, []string{"k"}, svc.removed)

	_, err = s.SetMute(ctx, mustStruct(t, map[string]any{"muted": "yes"}))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.SetMute(ctx, mustStruct(t, map[string]any{"muted": true}))
	require.NoError(t, err)
	require.NotNil(t, svc.muted)
	require.True(t, *svc.muted)

	_, err = s.AckAll(ctx, mustStruct(t, map[string]any{}))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err = s.AckAll(ctx, ActorToStruct(&alarm.Actor{Hostname: "h", Username: "u"}))
	require.NoError(t, err)
	require.True(t, resp.GetFields()[FieldRequested].GetBoolValue())
	require.Equal(t, &alarm.Actor{Hostname: "h", Username: "u"}, svc.actor)

	_, err = s.Replace(ctx, mustStruct(t, map[string]any{"notifications": "nope"}))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Replace(ctx, mustStruct(t, map[string]any{"notifications": []any{
		map[string]any{"key": "a", "severity": 750},
		map[string]any{"key": "b", "severity": 500},
	}}))
	require.NoError(t, err)
	require.Len(t, svc.added, 2)

	_, err = s.Clear(ctx, nil)
	require.NoError(t, err)

	_, err = s.Status(ctx, nil)
	require.NoError(t, err)
}
