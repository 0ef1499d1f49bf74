package main

import (
	"context"
	"log"
	"time"

	"github.com/farxc/painel-ies/internal/census"
	"github.com/farxc/painel-ies/internal/census/files"
	"github.com/farxc/painel-ies/internal/db"
	"github.com/farxc/painel-ies/internal/env"
	"github.com/farxc/painel-ies/internal/logger"
	"github.com/farxc/painel-ies/internal/metrics"
	"github.com/farxc/painel-ies/internal/store"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("failed to read .env: %v", err)
	}

	cfg := config{
		addr:        env.GetString("ADDR", ":8080"),
		corsOrigins: env.GetStrings("CORS_ALLOWED_ORIGINS", []string{"*"}),
		dataset: census.Config{
			Path:         env.GetString("DATASET_PATH", files.DefaultFileName),
			Encoding:     env.GetString("DATASET_ENCODING", "utf-8"),
			CacheEntries: env.GetInt("DATASET_CACHE_ENTRIES", 1),
		},
		db: dbConfig{
			addr:         env.GetString("DB_ADDR", ""),
			maxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 25),
			maxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 25),
			maxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		log: logConfig{
			level:  env.GetString("LOG_LEVEL", "info"),
			format: env.GetString("LOG_FORMAT", "console"),
		},
	}

	appLogger := logger.New(logger.ParseLevel(cfg.log.level), cfg.log.format)
	defer appLogger.Sync()

	m := metrics.New()
	opts := []census.Option{census.WithMetrics(m)}

	var storage *store.Storage
	if cfg.db.addr != "" {
		conn, err := db.New(
			cfg.db.addr,
			cfg.db.maxOpenConns,
			cfg.db.maxIdleConns,
			cfg.db.maxIdleTime)
		if err != nil {
			appLogger.Fatal(component, "%v", err)
		}
		defer conn.Close()
		appLogger.Info(component, "Database connection pool established")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = store.EnsureSchema(ctx, conn)
		cancel()
		if err != nil {
			appLogger.Fatal(component, "%v", err)
		}

		storage = store.NewStorage(conn)
		opts = append(opts, census.WithStorage(storage))
	} else {
		appLogger.Info(component, "DB_ADDR not set; load history is disabled")
	}

	svc, err := census.NewService(cfg.dataset, appLogger, opts...)
	if err != nil {
		appLogger.Fatal(component, "%v", err)
	}

	app := &application{
		config:    cfg,
		census:    svc,
		store:     storage,
		metrics:   m,
		appLogger: appLogger,
	}

	// Warm the cache so a broken file shows up in the logs at start.
	if snap := svc.Snapshot(context.Background()); !snap.OK() {
		appLogger.Warn(component, "Dataset unavailable at start: %v", snap.Err)
	}

	mux := app.mount()

	if err := app.run(mux); err != nil {
		appLogger.Fatal(component, "%v", err)
	}
}
