package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"todoshare/config"
	"todoshare/database"
	"todoshare/handlers"
	"todoshare/repository"
	"todoshare/services"
	"todoshare/utils"
)

func loadConfig(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, utils.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}

// openRepositories returns the configured backend. The returned db is nil
// for the memory driver.
func openRepositories(ctx context.Context, cfg *config.Config, logger *log.Logger) (*repository.Repositories, *sql.DB, error) {
	if cfg.DBDriver == "memory" {
		logger.Warn("using in-memory storage, data is lost on restart")
		return repository.NewMemory(), nil, nil
	}

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database connected", "driver", cfg.DBDriver)

	repos, err := repository.NewSQL(db, cfg.DBDriver)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return repos, db, nil
}

func newHandler(cfg *config.Config, repos *repository.Repositories, notifier services.Notifier, logger *log.Logger) *handlers.Handler {
	profiles := services.NewProfileService(repos.Profiles, notifier, logger)
	friends := services.NewFriendshipService(repos, notifier, logger)
	todos := services.NewTodoService(repos.Todos, friends, notifier, logger)
	auth := services.NewAuthService(repos.Users, profiles, cfg.JWTSecret, cfg.TokenTTL, logger)
	return handlers.New(auth, profiles, friends, todos, cfg.UploadDir)
}
