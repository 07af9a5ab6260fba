package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"todoshare/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.DBDriver == "memory" {
			return fmt.Errorf("nothing to migrate for the memory driver")
		}

		db, err := database.Open(cmd.Context(), cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.CreateTables(cmd.Context(), db, cfg.DBDriver); err != nil {
			return err
		}
		logger.Info("database tables created", "driver", cfg.DBDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
