package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/auth"
)

// NewTokenCommand creates the token command, which mints a development
// identity token for a user id.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		Long: `Mint an HS256 access token for the given user id, signed with the
configured secret (or the one stored in the database).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := uuid.Parse(subject)
			if err != nil {
				return fmt.Errorf("invalid --sub %q: must be a UUID", subject)
			}

			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}

			database, err := openDatabase(cfg.DB)
			if err != nil {
				return err
			}
			defer database.Close()

			secret, err := signingSecret(cmd.Context(), cfg, database, zap.NewNop())
			if err != nil {
				return err
			}

			token, err := auth.NewVerifier(secret, cfg.JWTAudience, cfg.JWTIssuer).IssueToken(sub, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "user id (UUID) to put in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}
