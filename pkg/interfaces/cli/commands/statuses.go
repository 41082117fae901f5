package commands

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	domain "github.com/vsinha/blendtrack/pkg/domain/services"
	"github.com/vsinha/blendtrack/pkg/interfaces/cli/output"
)

func newStatusesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "Show the blend workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lifecycle := domain.NewBlendLifecycle(opts.cfg.Lifecycle.Enforce)
			return output.Statuses(cmd.OutOrStdout(), entities.AllBlendStatuses(), lifecycle.AllowedTransitions)
		},
	}
}
