package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/config"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/database"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/server"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.LogLevel))

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)

	ctx := context.Background()
	authService, err := services.NewAuthService(ctx, cfg, userRepo)
	if err != nil {
		slog.Error("creating auth service", "error", err)
		os.Exit(1)
	}

	if cfg.BootstrapEmail != "" {
		if _, err := authService.EnsureUser(ctx, cfg.BootstrapEmail, cfg.BootstrapPassword); err != nil {
			slog.Error("bootstrapping user", "error", err)
			os.Exit(1)
		}
	}

	srv := server.New(db, cfg, authService)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
