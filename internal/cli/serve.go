package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"provision-store/internal/config"
	"provision-store/internal/database"
	"provision-store/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Start(ctx, config.AppEnv)
		},
	}
}

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create collection indexes and seed the bill counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := database.Connect(config.AppEnv.MongoURI)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Disconnect(context.Background())
			}()

			db := client.Database(config.AppEnv.DBName)
			if err := database.EnsureProductIndexes(db); err != nil {
				return fmt.Errorf("product indexes: %w", err)
			}
			if err := database.EnsureBillIndexes(db); err != nil {
				return fmt.Errorf("bill indexes: %w", err)
			}
			if err := database.EnsureBillCounter(db); err != nil {
				return fmt.Errorf("bill counter: %w", err)
			}

			slog.Info("indexes ready", "database", db.Name())
			return nil
		},
	}
}
