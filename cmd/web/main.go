package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"thirdcoast.systems/songforge/cmd/web/internal/web"
	"thirdcoast.systems/songforge/internal/application"
	"thirdcoast.systems/songforge/internal/callback"
	"thirdcoast.systems/songforge/internal/config"
	"thirdcoast.systems/songforge/internal/db"
	"thirdcoast.systems/songforge/internal/mediafetch"
	"thirdcoast.systems/songforge/internal/metrics"
	"thirdcoast.systems/songforge/internal/suno"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: conf.SlogLevel()})))

	slog.Info("Starting web service")

	media, err := mediafetch.NewRoot(conf.MediaRoot, conf.BaseURL)
	if err != nil {
		slog.Error("failed to prepare media root", "error", err)
		os.Exit(1)
	}

	// Without DATABASE_URL the server still starts; database-backed
	// endpoints answer 500 until it is configured.
	var dbc *db.DatabaseConnection
	if conf.DatabaseURL != "" {
		pool, err := application.OpenDBPoolWithRetry(ctx, *conf)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		dbc, err = db.NewDatabaseConnection(ctx, pool)
		if err != nil {
			slog.Error("failed to create database connection", "error", err)
			os.Exit(1)
		}

		if conf.DatabaseAutoMigrate {
			if err := dbc.Migrate(ctx); err != nil {
				slog.Error("failed to run PostgreSQL migrations", "error", err)
				os.Exit(1)
			}
		}
	} else {
		slog.Warn("DATABASE_URL not set; database endpoints will fail")
	}
	if conf.SunoAPIKey == "" {
		slog.Warn("SUNO_API_KEY not set; provider endpoints will fail")
	}

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		slog.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	provider := suno.NewClient(*conf, &http.Client{}, m)
	gateway := db.NewGateway(dbc)
	processor := callback.NewProcessor(gateway, provider,
		mediafetch.NewFetcher(&http.Client{}, mediafetch.DefaultTimeout),
		media, m, callback.Options{
			ReportFailed:   conf.CallbackReportFailed,
			RetryTransient: conf.CallbackRetryTransient,
		})

	e, err := web.NewWebserver(ctx, web.Dependencies{
		Provider:  provider,
		Gateway:   gateway,
		Processor: processor,
		Media:     media,
		Metrics:   m,
	})
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr, "callback_url", conf.CallbackURL())
	if err := e.Start(addr); err != nil {
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if errors.Is(err, http.ErrServerClosed) || ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
