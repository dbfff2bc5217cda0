package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"thirdcoast.systems/songforge/internal/config"
)

var (
	dbOpenBackoffBase  = 1 * time.Second
	dbOpenBackoffScale = 1.618
)

// OpenDBPoolWithRetry opens the PostgreSQL pool named by conf.DatabaseURL and
// waits until it answers a ping, backing off between attempts.
func OpenDBPoolWithRetry(ctx context.Context, conf config.Config) (*pgxpool.Pool, error) {
	if conf.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	retries := conf.DatabaseRetries
	if retries <= 0 {
		retries = 1
	}

	cfg, err := pgxpool.ParseConfig(conf.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	var pool *pgxpool.Pool
	var lastErr error

	slog.Info("connecting to database", "host", cfg.ConnConfig.Host)
	for i := 0; i < retries; i++ {
		if pool, err = pgxpool.NewWithConfig(ctx, cfg); err == nil {
			break
		}
		lastErr = err
		if err := sleepBackoff(ctx, i); err != nil {
			return nil, err
		}
	}
	if pool == nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", retries, lastErr)
	}

	for i := 0; i < retries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			slog.Info("database ping ok", "host", cfg.ConnConfig.Host)
			return pool, nil
		}
		lastErr = err
		if err := sleepBackoff(ctx, i); err != nil {
			pool.Close()
			return nil, err
		}
	}

	pool.Close()
	return nil, fmt.Errorf("failed to ping database after %d attempts: %w", retries, lastErr)
}

func sleepBackoff(ctx context.Context, attempt int) error {
	backoff := time.Duration(float64(dbOpenBackoffBase) * math.Pow(dbOpenBackoffScale, float64(attempt)))
	slog.Warn("database not ready, retrying", "attempt", attempt+1, "backoff", backoff)

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
