//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/notif-panel/internal/api/grpc/notif"
	"github.com/oshokin/notif-panel/internal/config"
	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/panel"
)

// Client wraps the NotificationPanel gRPC API with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the panel server.
	conn *grpc.ClientConn

	// callTimeout is the default timeout for individual unary calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errActorRequired is returned when an actor is not provided but is required for the operation.
	errActorRequired = errors.New("actor must be provided")
	// errNotificationRequired is returned when Add is called without a notification.
	errNotificationRequired = errors.New("notification must be provided")
)

// Dial establishes a gRPC connection to the panel server.
// Note: this uses insecure transport credentials; the push API is meant to
// listen on loopback or a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial panel server: %w", err)
	}

	client := &Client{
		conn:        conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Add pushes a notification to the top of the panel.
func (c *Client) Add(ctx context.Context, n *notification.Notification) (panel.Status, error) {
	if n == nil {
		return panel.Status{}, errNotificationRequired
	}

	resp, err := c.invoke(ctx, api.FullMethodAdd, api.NotificationToStruct(n))
	if err != nil {
		return panel.Status{}, fmt.Errorf("add notification: %w", err)
	}

	return statusOf(resp), nil
}

// Replace installs ns in place of every notification on the panel.
func (c *Client) Replace(ctx context.Context, ns []*notification.Notification) (panel.Status, error) {
	resp, err := c.invoke(ctx, api.FullMethodReplace, api.NotificationsToStruct(ns))
	if err != nil {
		return panel.Status{}, fmt.Errorf("replace notifications: %w", err)
	}

	return statusOf(resp), nil
}

// Remove drops the notification with the key and reports whether it existed.
func (c *Client) Remove(ctx context.Context, key string) (bool, panel.Status, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldKey: structpb.NewStringValue(key),
	}}

	resp, err := c.invoke(ctx, api.FullMethodRemove, req)
	if err != nil {
		return false, panel.Status{}, fmt.Errorf("remove notification: %w", err)
	}

	return resp.GetFields()[api.FieldRemoved].GetBoolValue(), statusOf(resp), nil
}

// Clear removes every notification from the panel.
func (c *Client) Clear(ctx context.Context) (panel.Status, error) {
	resp, err := c.invoke(ctx, api.FullMethodClear, new(structpb.Struct))
	if err != nil {
		return panel.Status{}, fmt.Errorf("clear panel: %w", err)
	}

	return statusOf(resp), nil
}

// SetMute mutes or unmutes the panel sounds.
func (c *Client) SetMute(ctx context.Context, muted bool) (panel.Status, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldMuted: structpb.NewBoolValue(muted),
	}}

	resp, err := c.invoke(ctx, api.FullMethodSetMute, req)
	if err != nil {
		return panel.Status{}, fmt.Errorf("set mute: %w", err)
	}

	return statusOf(resp), nil
}

// AckAll requests acknowledgement of every notification on behalf of actor.
// It reports false when the panel was empty.
func (c *Client) AckAll(ctx context.Context, actor *alarm.Actor) (bool, panel.Status, error) {
	if actor == nil {
		return false, panel.Status{}, errActorRequired
	}

	resp, err := c.invoke(ctx, api.FullMethodAckAll, api.ActorToStruct(actor))
	if err != nil {
		return false, panel.Status{}, fmt.Errorf("acknowledge all: %w", err)
	}

	return resp.GetFields()[api.FieldRequested].GetBoolValue(), statusOf(resp), nil
}

// Status returns a snapshot of the panel.
func (c *Client) Status(ctx context.Context) (panel.Status, error) {
	resp, err := c.invoke(ctx, api.FullMethodStatus, new(structpb.Struct))
	if err != nil {
		return panel.Status{}, fmt.Errorf("get status: %w", err)
	}

	return api.StatusFromStruct(resp), nil
}

// WatchAckAll calls fn for every acknowledge-all event until ctx is canceled,
// the server ends the stream or fn returns an error. The call timeout does not apply.
func (c *Client) WatchAckAll(ctx context.Context, fn func(event panel.AckAllEvent) error) error {
	stream, err := c.conn.NewStream(ctx, &api.ServiceDesc.Streams[0], api.FullMethodWatchAckAll)
	if err != nil {
		return fmt.Errorf("watch acknowledge-all: %w", err)
	}

	events := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}

	if err := events.SendMsg(new(structpb.Struct)); err != nil {
		return fmt.Errorf("watch acknowledge-all: %w", err)
	}

	if err := events.CloseSend(); err != nil {
		return fmt.Errorf("watch acknowledge-all: %w", err)
	}

	for {
		msg, err := events.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("receive acknowledge-all event: %w", err)
		}

		event, err := api.EventFromStruct(msg)
		if err != nil {
			return err
		}

		if err := fn(event); err != nil {
			return err
		}
	}
}

// invoke performs a unary call with the client's call timeout.
func (c *Client) invoke(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, method, req, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// statusOf extracts the panel snapshot embedded in a response.
func statusOf(resp *structpb.Struct) panel.Status {
	return api.StatusFromStruct(resp.GetFields()[api.FieldStatus].GetStructValue())
}
