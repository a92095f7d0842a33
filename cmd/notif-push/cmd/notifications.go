package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/notif-panel/internal/service/client"
)

var (
	// addFlags holds the flags of the add subcommand.
	addFlags struct {
		severity  int
		markup    bool
		timestamp string
	}

	addCmd = &cobra.Command{
		Use:   "add <key> [message]",
		Short: "Add a notification to the top of the panel.",
		Long: `Adds a notification. The severity is a raw SCADA code between 1 and 999:
1 is critical, 250 major, 500 minor and 750 information. Other codes count as
the nearest of these.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := client.Notification{
				Key:      args[0],
				Severity: addFlags.severity,
				Markup:   addFlags.markup,
			}

			if len(args) > 1 {
				n.Message = args[1]
			}

			if addFlags.timestamp != "" {
				ts, err := time.Parse(time.RFC3339, addFlags.timestamp)
				if err != nil {
					return fmt.Errorf("parse timestamp: %w", err)
				}

				n.Timestamp = ts
			}

			return runWithSignals(func(ctx context.Context) error {
				return client.Add(ctx, options(cmd), n)
			})
		},
	}

	removeCmd = &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a notification by key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Remove(ctx, options(cmd), args[0])
			})
		},
	}

	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove every notification.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Clear(ctx, options(cmd))
			})
		},
	}

	samplesCmd = &cobra.Command{
		Use:   "samples",
		Short: "Replace the panel contents with one sample notification per severity.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Samples(ctx, options(cmd))
			})
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the panel status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Status(ctx, options(cmd))
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	addCmd.Flags().IntVarP(&addFlags.severity, "severity", "l", 750, "raw severity code")
	addCmd.Flags().BoolVar(&addFlags.markup, "markup", false, "treat the message as markup")
	addCmd.Flags().StringVarP(&addFlags.timestamp, "timestamp", "t", "", "RFC 3339 timestamp of the notification")

	rootCmd.AddCommand(addCmd, removeCmd, clearCmd, samplesCmd, statusCmd)
}
