package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/notif-panel/internal/config"
	"github.com/oshokin/notif-panel/internal/service/server"
	"github.com/oshokin/notif-panel/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// metricsAddress overrides the prometheus endpoint address.
	metricsAddress string
	// pinned keeps the panel open when no alarm is active.
	pinned bool

	// rootCmd represents the base command for running the panel.
	rootCmd = &cobra.Command{
		Use:   "notif-panel [listen-address]",
		Short: "Run the SCADA notification panel.",
		Long: `Starts the notification panel and its gRPC push API.

Push sources add and remove notifications through the API. The panel keeps the
alarm state of the most severe notification, plays the matching sound cue and
renders every change on the terminal.

Listen address can be provided as argument to override config (e.g., 127.0.0.1:50151).
The mute flag lives for the session only and is discarded on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:     configPath,
				ListenAddress:  listenAddress,
				MetricsAddress: metricsAddress,
				Pinned:         pinned,
			})
		},
	}
)

// Execute runs the notif-panel CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&metricsAddress, "metrics-addr", "m", "", "prometheus endpoint address")
	rootCmd.Flags().BoolVarP(&pinned, "pinned", "p", false, "keep the panel open when no alarm is active")
}
