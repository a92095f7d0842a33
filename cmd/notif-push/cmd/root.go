package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/notif-panel/internal/config"
	"github.com/oshokin/notif-panel/internal/service/client"
	"github.com/oshokin/notif-panel/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the panel address from config.
	serverAddress string
	// retry keeps retrying while the panel is unavailable.
	retry bool

	// rootCmd represents the base command for pushing to the panel.
	rootCmd = &cobra.Command{
		Use:   "notif-push",
		Short: "Push notifications to a running notification panel.",
		Long: `Talks to the notification panel over its gRPC push API.

Use it from scripts and push sources to add or remove notifications, change the
mute flag, request acknowledgement of everything on the panel or watch for
acknowledge-all events.`,
		SilenceUsage: true,
	}
)

// Execute runs the notif-push CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// options builds the connection options shared by every subcommand.
func options(cmd *cobra.Command) *client.Options {
	return &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		Retry:         retry,
		Output:        cmd.OutOrStdout(),
	}
}

// runWithSignals runs fn with a context canceled on SIGTERM or SIGINT.
func runWithSignals(fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return fn(ctx)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "panel address, overrides config")
	rootCmd.PersistentFlags().BoolVarP(&retry, "retry", "r", false, "retry while the panel is unavailable")
}
