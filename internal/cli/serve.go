package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/logger"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			baseLogger, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = baseLogger.Sync() }()
			log := logger.Named(baseLogger, "cli")

			database, err := openDatabase(cfg.DB)
			if err != nil {
				return err
			}
			defer database.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			secret, err := signingSecret(ctx, cfg, database, log)
			if err != nil {
				return err
			}

			engine := api.NewRouter(api.Options{
				DB:          database,
				Verifier:    auth.NewVerifier(secret, cfg.JWTAudience, cfg.JWTIssuer),
				CORSOrigins: cfg.CORSOrigins,
				Logger:      logger.Named(baseLogger, "router"),
			})

			srv := &http.Server{
				Addr:         cfg.Addr,
				Handler:      engine,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				log.Info("server starting", zap.String("addr", cfg.Addr), zap.String("db", cfg.DB))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				if err != nil {
					return err
				}
			case <-ctx.Done():
				log.Info("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("graceful shutdown failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
