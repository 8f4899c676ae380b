package commands

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teamtask/backend/internal/config"
	pgInfra "github.com/teamtask/backend/internal/infrastructure/postgres"
	"github.com/teamtask/backend/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "taskctl",
	Short: "Admin tooling for the teamtask backend",
	Long: `taskctl manages the teamtask backend out of band:
run database migrations, create users, and change roles.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
}

// withPool wraps a command with config loading and a database connection.
func withPool(fn func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		zapLogger, err := logger.New("warn", "console")
		if err != nil {
			log.Fatalf("logger error: %v", err)
		}
		defer zapLogger.Sync()

		ctx := cmd.Context()
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			return err
		}
		defer pool.Close()

		return fn(ctx, cfg, pool)
	}
}

func newCommandLogger() (*zap.Logger, error) {
	return logger.New("info", "console")
}
