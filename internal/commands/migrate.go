package commands

import (
	"github.com/spf13/cobra"

	"github.com/teamtask/backend/internal/config"
	pgInfra "github.com/teamtask/backend/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.Migrations.Enabled = true

		zapLogger, err := newCommandLogger()
		if err != nil {
			return err
		}
		defer zapLogger.Sync()

		return pgInfra.RunMigrations(cfg, zapLogger)
	},
}
