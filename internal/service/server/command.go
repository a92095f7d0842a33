package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/notif-panel/internal/api/grpc/notif"
	"github.com/oshokin/notif-panel/internal/audio"
	"github.com/oshokin/notif-panel/internal/config"
	"github.com/oshokin/notif-panel/internal/logger"
	"github.com/oshokin/notif-panel/internal/metrics"
	"github.com/oshokin/notif-panel/internal/panel"
	"github.com/oshokin/notif-panel/internal/presentation/console"
	"github.com/oshokin/notif-panel/internal/repository/session"
)

// Options controls the notif-panel process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// MetricsAddress provides an optional metrics address override.
	MetricsAddress string
	// Pinned keeps the panel open when idle regardless of the settings.
	Pinned bool
	// Output receives the rendered panel. Defaults to stdout.
	Output io.Writer
}

// shutdownTimeout bounds the graceful shutdown of the metrics server and player.
const shutdownTimeout = 5 * time.Second

// player is a panel.Player that must be released on exit.
type player interface {
	panel.Player
	Close(ctx context.Context) error
}

// ErrNoListenAddress indicates missing server configuration.
var ErrNoListenAddress = errors.New("no listen address configured")

// Run loads the settings, starts the panel and blocks until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "notif-panel")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	listenAddress, err := resolveListenAddress(settings.ListenAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	if opts.MetricsAddress != "" {
		settings.MetricsAddress = opts.MetricsAddress
	}

	if opts.Pinned {
		settings.Panel.Pinned = true
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	return Serve(ctx, settings, lis, out)
}

// Serve runs the panel behind the gRPC API on lis until ctx is canceled.
// The session ends when Serve returns: the session storage is discarded and
// the sound player is shut down.
func Serve(ctx context.Context, settings *config.Config, lis net.Listener, out io.Writer) error {
	storage, err := session.Open(settings.Session)
	if err != nil {
		_ = lis.Close()

		return fmt.Errorf("open session: %w", err)
	}

	cues := newPlayer(ctx, settings.Sounds)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := cues.Close(cleanupCtx); err != nil {
			logger.WarnKV(ctx, "Unable to stop sound player", "error", err)
		}

		if err := storage.Close(cleanupCtx); err != nil {
			logger.WarnKV(ctx, "Unable to end session", "error", err)
		}
	}()

	phrases := settings.Panel.Phrases

	p := panel.New(ctx, storage,
		panel.WithPlayer(cues),
		panel.WithPresenter(console.New(out)),
		panel.WithPhrases(panel.Phrases{
			NoNotif: phrases.NoNotif,
			Mute:    phrases.Mute,
			Unmute:  phrases.Unmute,
			AckAll:  phrases.AckAll,
		}),
		panel.WithAnimation(settings.Panel.Animate),
		panel.WithPinned(settings.Panel.Pinned),
	)

	broker := api.NewBroker(api.DefaultWatchBuffer)
	p.OnAckAll(broker.Publish)

	loop := panel.NewLoop(p, panel.DefaultQueueSize)

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(api.UnaryServerInterceptor()))
	api.RegisterPanelServer(grpcServer, api.NewServer(newService(loop, broker)))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loop.Run(gctx)
	})

	g.Go(func() error {
		logger.InfoKV(ctx, "Notification panel listening",
			"listen_address", lis.Addr().String(),
			"session_backend", settings.Session.Backend)

		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")

		// Watch streams never end on their own.
		broker.Close()
		grpcServer.GracefulStop()

		logger.Info(ctx, "GRPC server stopped")

		return nil
	})

	if settings.MetricsAddress != "" {
		metricsServer := metrics.NewServer(settings.MetricsAddress)

		g.Go(func() error {
			return metricsServer.Start(gctx)
		})

		g.Go(func() error {
			<-gctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// newPlayer starts the configured sound player. Without a player command, or
// when the command cannot be found, cues are only logged.
func newPlayer(ctx context.Context, sounds config.Sounds) player {
	command := strings.Fields(sounds.Player)
	if len(command) == 0 {
		return audio.NopPlayer{}
	}

	files := map[audio.Cue]string{
		audio.Info:     sounds.SoundPath(sounds.Info),
		audio.Warning:  sounds.SoundPath(sounds.Warning),
		audio.Critical: sounds.SoundPath(sounds.Critical),
	}

	p, err := audio.NewCommandPlayer(command[0], files, command[1:]...)
	if err != nil {
		logger.WarnKV(ctx, "Sound disabled", "player", sounds.Player, "error", err)

		return audio.NopPlayer{}
	}

	return p
}

// resolveListenAddress determines the listen address for the gRPC server.
// The override wins over the configured address.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoListenAddress
	}

	return configAddr, nil
}
