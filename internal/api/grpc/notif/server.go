package notif

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/panel"
)

// Service abstracts the panel operations the transport layer depends on.
type Service interface {
	Add(ctx context.Context, n *notification.Notification) (panel.Status, error)
	Replace(ctx context.Context, ns []*notification.Notification) (panel.Status, error)
	Remove(ctx context.Context, key string) (bool, panel.Status, error)
	Clear(ctx context.Context) (panel.Status, error)
	SetMute(ctx context.Context, muted bool) (panel.Status, error)
	AckAll(ctx context.Context, actor *alarm.Actor) (bool, panel.Status, error)
	Status(ctx context.Context) (panel.Status, error)
	SubscribeAckAll() (events <-chan panel.AckAllEvent, cancel func())
}

// Server implements the NotificationPanel gRPC API.
type Server struct {
	// service provides the panel operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

var _ PanelServer = (*Server)(nil)

// Add inserts a notification at the top of the panel.
func (s *Server) Add(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	n, err := NotificationFromStruct(req)
	if err != nil {
		return nil, toStatusError(err)
	}

	st, err := s.service.Add(ctx, n)
	if err != nil {
		return nil, toStatusError(err)
	}

	return withStatus(map[string]*structpb.Value{}, st), nil
}

// Replace installs the given notifications in place of the current ones.
func (s *Server) Replace(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ns, err := NotificationsFromStruct(req)
	if err != nil {
		return nil, toStatusError(err)
	}

	st, err := s.service.Replace(ctx, ns)
	if err != nil {
		return nil, toStatusError(err)
	}

	return withStatus(map[string]*structpb.Value{}, st), nil
}

// Remove drops the notification with the requested key.
func (s *Server) Remove(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := stringField(req.GetFields(), FieldKey, true)
	if err != nil {
		return nil, toStatusError(err)
	}

	removed, st, err := s.service.Remove(ctx, key)
	if err != nil {
		return nil, toStatusError(err)
	}

	return withStatus(map[string]*structpb.Value{
		FieldRemoved: structpb.NewBoolValue(removed),
	}, st), nil
}

// Clear removes every notification.
func (s *Server) Clear(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	st, err := s.service.Clear(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	return withStatus(map[string]*structpb.Value{}, st), nil
}

// SetMute mutes or unmutes the sound cues.
func (s *Server) SetMute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	value, ok := req.GetFields()[FieldMuted]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "muted is required")
	}

	if _, ok := value.GetKind().(*structpb.Value_BoolValue); !ok {
		return nil, status.Error(codes.InvalidArgument, "muted must be a boolean")
	}

	st, err := s.service.SetMute(ctx, value.GetBoolValue())
	if err != nil {
		return nil, toStatusError(err)
	}

	return withStatus(map[string]*structpb.Value{}, st), nil
}

// AckAll fires the acknowledge-all event on behalf of the actor.
func (s *Server) AckAll(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor := ActorFromStruct(req)
	if actor == nil {
		return nil, status.Error(codes.InvalidArgument, "actor is required")
	}

	requested, st, err := s.service.AckAll(ctx, actor)
	if err != nil {
		return nil, toStatusError(err)
	}

	return withStatus(map[string]*structpb.Value{
		FieldRequested: structpb.NewBoolValue(requested),
	}, st), nil
}

// Status returns a snapshot of the panel.
func (s *Server) Status(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	st, err := s.service.Status(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	return StatusToStruct(st), nil
}

// WatchAckAll streams acknowledge-all events until the client goes away.
func (s *Server) WatchAckAll(_ *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()

	events, cancel := s.service.SubscribeAckAll()
	defer cancel()

	logger.DebugKV(ctx, "Acknowledge-all watcher connected")

	for {
		select {
		case <-ctx.Done():
			logger.DebugKV(ctx, "Acknowledge-all watcher disconnected")

			return nil
		case event, ok := <-events:
			if !ok {
				return status.Error(codes.Unavailable, "panel is shutting down")
			}

			if err := stream.Send(EventToStruct(event)); err != nil {
				return err
			}
		}
	}
}

// toStatusError maps domain errors to gRPC status errors.
func toStatusError(err error) error {
	switch {
	case errors.Is(err, notification.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, panel.ErrDuplicateKey):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, panel.ErrLoopStopped):
		return status.Error(codes.Unavailable, "panel is shutting down")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, "unable to update panel")
	}
}
