package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oshokin/notif-panel/internal/service/client"
)

var (
	muteCmd = &cobra.Command{
		Use:   "mute",
		Short: "Silence the panel sounds for this session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.SetMute(ctx, options(cmd), true)
			})
		},
	}

	unmuteCmd = &cobra.Command{
		Use:   "unmute",
		Short: "Resume the panel sounds.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.SetMute(ctx, options(cmd), false)
			})
		},
	}

	ackAllCmd = &cobra.Command{
		Use:   "ack-all",
		Short: "Ask the push sources to acknowledge every notification.",
		Long: `Fires the acknowledge-all event on behalf of the current user. The panel
does not remove anything itself; push sources watching the event acknowledge
upstream and remove their notifications.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.AckAll(ctx, options(cmd))
			})
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Print acknowledge-all events until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Watch(ctx, options(cmd))
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(muteCmd, unmuteCmd, ackAllCmd, watchCmd)
}
