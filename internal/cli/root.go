// Package cli implements the zaloga command line.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/store"
)

// RootOptions holds the persistent flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	DB         string
	LogLevel   string
}

// NewRootCommand creates the root zaloga command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "zaloga",
		Short:         "Zaloga - inventory and purchase tracking",
		Long:          "Zaloga serves the inventory, purchase and dashboard API backed by SQLite.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to SQLite database file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// loadConfig layers explicitly set flags over the file and environment.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.DB != "" {
		cfg.DB = o.DB
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDatabase opens the database and brings its schema up to date.
func openDatabase(path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return database, nil
}

// signingSecret returns the configured secret, falling back to one
// persisted in the database.
func signingSecret(ctx context.Context, cfg *config.Config, database *sql.DB, log *zap.Logger) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	secret, err := store.GetSigningSecret(ctx, database)
	if err != nil {
		return "", err
	}
	log.Warn("no jwt secret configured, using the one stored in the database")
	return secret, nil
}
