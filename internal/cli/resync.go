package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sales_ledger/internal/config"
)

// NewResyncCommand creates the resync command: one publish pass without a mutation.
func NewResyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Publish the current summary to the notification channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.syncer.Enabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "notification channel not configured, nothing published")
				return nil
			}
			if err := a.syncer.Sync(cmd.Context()); err != nil {
				return fmt.Errorf("resync: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "summary published")
			return nil
		},
	}
}
