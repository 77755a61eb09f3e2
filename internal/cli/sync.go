package cli

import (
	"errors"
	"fmt"

	"github.com/Rrens/interaction-drafts/internal/app"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/spf13/cobra"
)

var publishYes bool

var hydrateCmd = &cobra.Command{
	Use:   "hydrate",
	Short: "Replace the draft with the interactions held by the remote service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, nil, func(a *app.App) error {
			if err := a.Editor.Hydrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Draft holds %d interactions\n", len(a.Editor.View().Interactions))
			return nil
		})
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Overwrite the remote interactions with the draft",
	Long: `Overwrite the remote interactions with the draft. This replaces the whole
remote collection, so it requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, nil, func(a *app.App) error {
			if err := a.Editor.Publish(cmd.Context(), publishYes); err != nil {
				if errors.Is(err, domain.ErrPublishNotConfirmed) {
					return fmt.Errorf("%w: rerun with --yes to overwrite the remote interactions", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d interactions\n", len(a.Editor.View().Interactions))
			return nil
		})
	},
}

func init() {
	publishCmd.Flags().BoolVarP(&publishYes, "yes", "y", false, "Confirm overwriting the remote interactions")

	rootCmd.AddCommand(hydrateCmd)
	rootCmd.AddCommand(publishCmd)
}
