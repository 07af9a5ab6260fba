package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"todoshare/database"
	"todoshare/handlers"
	"todoshare/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().Bool("skip-migrate", false, "Do not create missing tables on startup")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
	shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, db, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if !skipMigrate {
			if err := database.CreateTables(ctx, db, cfg.DBDriver); err != nil {
				return err
			}
			logger.Info("database tables ready")
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	hub := websocket.NewHub(logger.WithPrefix("ws"))
	h := newHandler(cfg, repos, hub, logger)
	router := handlers.NewRouter(h, hub, handlers.RouterOptions{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		SearchRate:  cfg.SearchRate,
		SearchBurst: cfg.SearchBurst,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("server starting", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
