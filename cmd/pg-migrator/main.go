package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"thirdcoast.systems/songforge/internal/application"
	"thirdcoast.systems/songforge/internal/config"
	"thirdcoast.systems/songforge/internal/db"
)

// pg-migrator applies the songs schema and exits. The web service does the
// same at startup unless DATABASE_AUTO_MIGRATE=false.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conf, err := config.LoadConfig(startupCtx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: conf.SlogLevel()})))

	if conf.DatabaseURL == "" {
		slog.Error("DATABASE_URL not set; nothing to migrate")
		os.Exit(1)
	}

	slog.Info("Starting songs schema migration")

	pool, err := application.OpenDBPoolWithRetry(startupCtx, *conf)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	dbc, err := db.NewDatabaseConnection(startupCtx, pool)
	if err != nil {
		pool.Close()
		slog.Error("failed to create database connection", "error", err)
		os.Exit(1)
	}
	defer dbc.Close()

	if err := dbc.Migrate(startupCtx); err != nil {
		slog.Error("failed to run PostgreSQL migrations", "error", err)
		dbc.Close()
		os.Exit(1)
	}

	slog.Info("Songs schema is up to date")
}
