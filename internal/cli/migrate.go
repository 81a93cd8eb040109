package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}

			database, err := openDatabase(cfg.DB)
			if err != nil {
				return err
			}
			defer database.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Database ready: %s\n", cfg.DB)
			return nil
		},
	}
}
