package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/notif-panel/internal/config"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/panel"
	"github.com/oshokin/notif-panel/internal/service/common"
)

// Options configures the connection of every push operation.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides the listen address from config when specified.
	ServerAddress string

	// Retry keeps retrying until the panel accepts the call or ctx is canceled.
	Retry bool

	// Output receives the printed status.
	Output io.Writer
}

// Notification describes a notification to push.
type Notification struct {
	// Key identifies the notification.
	Key string
	// Severity is the raw severity code.
	Severity int
	// Message is the notification text.
	Message string
	// Markup marks Message as markup.
	Markup bool
	// Timestamp is optional.
	Timestamp time.Time
}

// output returns the status writer, stdout by default.
func (o *Options) output() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}

	return o.Output
}

// defaultPushInterval defines retry delay when pushing to the panel.
const defaultPushInterval = 1 * time.Second

// Add pushes a notification to the top of the panel.
func Add(ctx context.Context, opts *Options, n Notification) error {
	message := notification.Plain(n.Message)
	if n.Markup {
		message = notification.Markup(n.Message)
	}

	built, err := notification.New(n.Key, n.Severity, n.Timestamp, message)
	if err != nil {
		return err
	}

	return run(ctx, opts, "add", func(ctx context.Context, c *common.Client) (panel.Status, error) {
		return c.Add(ctx, built)
	})
}

// Remove drops a notification by key.
func Remove(ctx context.Context, opts *Options, key string) error {
	return run(ctx, opts, "remove", func(ctx context.Context, c *common.Client) (panel.Status, error) {
		removed, st, err := c.Remove(ctx, key)
		if err == nil && !removed {
			logger.Infof(ctx, "No notification with key %q", key)
		}

		return st, err
	})
}

// Clear removes every notification.
func Clear(ctx context.Context, opts *Options) error {
	return run(ctx, opts, "clear", func(ctx context.Context, c *common.Client) (panel.Status, error) {
		return c.Clear(ctx)
	})
}

// Samples replaces the panel contents with one sample per severity.
func Samples(ctx context.Context, opts *Options) error {
	samples, err := panel.Samples(time.Now())
	if err != nil {
		return err
	}

	return run(ctx, opts, "samples", func(ctx context.Context, c *common.Client) (panel.Status, error) {
		return c.Replace(ctx, samples)
	})
}

// SetMute mutes or unmutes the panel sounds.
func SetMute(ctx context.Context, opts *Options, muted bool) error {
	return run(ctx, opts, "mute", func(ctx context.Context, c *common.Client) (panel.Status, error) {
		return c.SetMute(ctx, muted)
	})
}

// AckAll asks the push sources to acknowledge every notification on behalf of
// the current user.
func AckAll(ctx context.Context, opts *Options) error {
	// Identify current user and hostname for the acknowledge-all event.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	return run(ctx, opts, "ack-all", func(ctx context.Context, c *common.Client) (panel.Status, error) {
		requested, st, err := c.AckAll(ctx, actor)
		if err == nil && !requested {
			logger.Info(ctx, "Nothing to acknowledge")
		}

		return st, err
	})
}

// Status prints the panel status.
func Status(ctx context.Context, opts *Options) error {
	return run(ctx, opts, "status", func(ctx context.Context, c *common.Client) (panel.Status, error) {
		return c.Status(ctx)
	})
}

// Watch prints acknowledge-all events until ctx is canceled.
func Watch(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "notif-push")

	client, serverAddress, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Watching acknowledge-all events", "server_address", serverAddress)

	err = client.WatchAckAll(ctx, func(event panel.AckAllEvent) error {
		_, err := fmt.Fprintln(opts.output(), FormatEvent(event))

		return err
	})
	if err != nil && ctx.Err() != nil {
		return nil
	}

	return err
}

// run connects to the panel and performs call, retrying on transport
// failures when requested, then prints the status.
func run(
	ctx context.Context,
	opts *Options,
	operation string,
	call func(ctx context.Context, c *common.Client) (panel.Status, error),
) error {
	ctx = logger.WithName(ctx, "notif-push")

	client, serverAddress, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Pushing to panel", "server_address", serverAddress, "operation", operation)

	// attempt tries once, returns (completed, error).
	attempt := func() (bool, error) {
		st, err := call(ctx, client)
		if err == nil {
			_, err = fmt.Fprintln(opts.output(), FormatStatus(st))

			return true, err
		}

		if opts.Retry && status.Code(err) == codes.Unavailable {
			logger.ErrorKV(ctx, "Panel unavailable, retrying", "operation", operation, "error", err)

			return false, nil
		}

		return false, err
	}

	// Attempt immediately before starting retry loop.
	if done, err := attempt(); err != nil || done {
		return err
	}

	ticker := time.NewTicker(defaultPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if done, err := attempt(); err != nil || done {
				return err
			}
		}
	}
}

// connect loads the settings and dials the panel.
func connect(ctx context.Context, opts *Options) (*common.Client, string, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, "", err
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ListenAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return nil, "", err
	}

	return client, serverAddress, nil
}

// FormatStatus renders the panel status as a single line.
func FormatStatus(st panel.Status) string {
	counts := make([]string, 0, len(severity.Known()))
	for _, s := range severity.Known() {
		counts = append(counts, fmt.Sprintf("%s=%d", s, st.Counts[s]))
	}

	flags := make([]string, 0, 3)

	if st.Muted {
		flags = append(flags, "muted")
	}

	if st.Visible {
		flags = append(flags, "visible")
	}

	if st.Pinned {
		flags = append(flags, "pinned")
	}

	line := fmt.Sprintf("%s (highest %s, total %d: %s)", st.State, st.Highest, st.Total, strings.Join(counts, " "))
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ", ") + "]"
	}

	return line
}

// FormatEvent renders an acknowledge-all event as a single line.
func FormatEvent(event panel.AckAllEvent) string {
	requestedAt := "<unknown>"
	if !event.RequestedAt.IsZero() {
		requestedAt = event.RequestedAt.Format(time.RFC3339)
	}

	return fmt.Sprintf("%s by %s (%s): %s", event.Name, event.Actor, requestedAt, strings.Join(event.Keys, ", "))
}
