package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/interfaces/cli/output"
)

func newBlendsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blends",
		Short: "List and update blends",
	}
	cmd.AddCommand(
		newBlendsListCommand(opts),
		newBlendsStatusCommand(opts),
		newBlendsHistoryCommand(opts),
		newBlendsWatchCommand(opts),
	)
	return cmd
}

func newBlendsListCommand(opts *rootOptions) *cobra.Command {
	var (
		in     dto.ListInput
		format string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blends",
		Example: "  blendtrack blends list --sort status,-lot_code --active\n" +
			"  blendtrack blends list --status BLENDING --status TESTING --format csv",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := output.ValidateFormat(format); err != nil {
				return err
			}
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			blends, err := a.Blends.List(cmd.Context(), in)
			if err != nil {
				return err
			}
			sorts, err := a.Blends.AppliedSorts(in)
			if err != nil {
				return err
			}
			return output.Blends(cmd.OutOrStdout(), blends, output.Config{Format: format, Sorts: sorts})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Sort, "sort", "", "Sort keys in priority order, prefix - for descending")
	flags.StringSliceVar(&in.Status, "status", nil, "Only blends in these statuses")
	flags.BoolVar(&in.Active, "active", false, "Only blends in progress")
	flags.IntVar(&in.Limit, "limit", 0, "Maximum number of blends, 0 for all")
	flags.IntVar(&in.Offset, "offset", 0, "Blends to skip")
	flags.StringVar(&format, "format", output.FormatText, "Output format: text, json, csv")
	return cmd
}

func newBlendsStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move a blend to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid blend id %q: %w", args[0], err)
			}
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			blend, err := a.Blends.UpdateStatus(cmd.Context(), id, dto.UpdateStatusInput{Status: args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", blend.LotCode, blend.Status)
			return nil
		},
	}
}

func newBlendsHistoryCommand(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "history ID",
		Short: "Show the status changes of a blend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid blend id %q: %w", args[0], err)
			}
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			changes, err := a.Blends.History(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output.History(cmd.OutOrStdout(), changes, output.Config{Format: format})
		},
	}
	cmd.Flags().StringVar(&format, "format", output.FormatText, "Output format: text, json, csv")
	return cmd
}

func newBlendsWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print status changes published on the Redis channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			return a.Watch(ctx, func(c entities.BlendStatusChange) {
				fmt.Fprintf(out, "%s  %s  %s -> %s\n", c.At.Format("15:04:05"), c.LotCode, c.From, c.To)
			})
		},
	}
}
