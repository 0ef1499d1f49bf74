package main

import (
	"context"
	"flag"
	"runtime"
	"sync"
	"time"

	"github.com/farxc/painel-ies/internal/census"
	"github.com/farxc/painel-ies/internal/census/files"
	"github.com/farxc/painel-ies/internal/db"
	"github.com/farxc/painel-ies/internal/env"
	"github.com/farxc/painel-ies/internal/logger"
	"github.com/farxc/painel-ies/internal/store"
)

type config struct {
	dataset census.Config
	dryRun  bool
	db      dbConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type ProfilerStats struct {
	PeakGoroutines int
	PeakMemoryMB   uint64
}

// MemoryMonitor samples goroutine count and heap size until stopped.
type MemoryMonitor struct {
	mu    sync.Mutex
	stats ProfilerStats
	stop  chan struct{}
	done  chan struct{}
}

func NewMonitor() *MemoryMonitor {
	return &MemoryMonitor{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (m *MemoryMonitor) Start(interval time.Duration, appLogger *logger.Logger) {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			m.sample(appLogger)
			select {
			case <-ticker.C:
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *MemoryMonitor) sample(appLogger *logger.Logger) {
	const component = "Monitor"

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	goroutines := runtime.NumGoroutine()
	memoryMB := ms.HeapAlloc / 1024 / 1024

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.PeakGoroutines = max(m.stats.PeakGoroutines, goroutines)
	m.stats.PeakMemoryMB = max(m.stats.PeakMemoryMB, memoryMB)

	appLogger.Debug(component, "goroutines=%d heapMB=%d", goroutines, memoryMB)
}

// Stop ends sampling and returns the peaks seen.
func (m *MemoryMonitor) Stop() ProfilerStats {
	close(m.stop)
	<-m.done
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func main() {
	const component = "Main"

	if err := env.Load(); err != nil {
		logger.New(logger.LevelInfo, "console").Fatal(component, "Failed to read .env: error=%v", err)
	}

	filePtr := flag.String("file", env.GetString("DATASET_PATH", files.DefaultFileName), "Census CSV to publish")
	encodingPtr := flag.String("encoding", env.GetString("DATASET_ENCODING", "utf-8"), "Character encoding of the CSV")
	dryRunPtr := flag.Bool("dry-run", false, "Load and normalize only; do not write to the database")
	logLevelPtr := flag.String("loglevel", env.GetString("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	appLogger := logger.New(logger.ParseLevel(*logLevelPtr), env.GetString("LOG_FORMAT", "console"))
	defer appLogger.Sync()

	cfg := config{
		dataset: census.Config{Path: *filePtr, Encoding: *encodingPtr, CacheEntries: 1},
		dryRun:  *dryRunPtr,
		db: dbConfig{
			addr:         env.GetString("DB_ADDR", ""),
			maxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 25),
			maxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 25),
			maxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
	}

	startingTime := time.Now()
	monitor := NewMonitor()
	monitor.Start(400*time.Millisecond, appLogger)
	appLogger.Info(component, "Application starting: file=%s encoding=%s dryRun=%t", cfg.dataset.Path, cfg.dataset.Encoding, cfg.dryRun)

	ctx := context.Background()
	opts := []census.Option{census.WithTrigger(store.TriggerTypeETL)}

	var storage *store.Storage
	if !cfg.dryRun {
		if cfg.db.addr == "" {
			appLogger.Fatal(component, "DB_ADDR is required unless -dry-run is set")
		}
		database, err := db.New(
			cfg.db.addr,
			cfg.db.maxOpenConns,
			cfg.db.maxIdleConns,
			cfg.db.maxIdleTime)
		if err != nil {
			appLogger.Fatal(component, "Database connection failed: error=%v", err)
		}
		defer database.Close()
		appLogger.Info(component, "Database connection pool established")

		if err := store.EnsureSchema(ctx, database); err != nil {
			appLogger.Fatal(component, "Schema setup failed: error=%v", err)
		}
		storage = store.NewStorage(database)
		opts = append(opts, census.WithStorage(storage))
	}

	svc, err := census.NewService(cfg.dataset, appLogger, opts...)
	if err != nil {
		appLogger.Fatal(component, "Invalid configuration: error=%v", err)
	}

	snap := svc.Snapshot(ctx)
	if !snap.OK() {
		appLogger.Fatal(component, "Dataset load failed: %v", snap.Err)
	}
	ds := snap.Dataset

	if cfg.dryRun {
		for _, b := range batchesByYear(ds) {
			appLogger.Info(component, "Dry run: year=%d rows=%d", b.year, len(b.rows))
		}
	} else {
		if _, err := PublishDataset(ctx, ds, storage.Institutions, appLogger); err != nil {
			appLogger.Fatal(component, "Publishing failed: error=%v", err)
		}
	}

	stats := monitor.Stop()
	appLogger.Info(component, "Application completed successfully: rows=%d warnings=%d duration=%.2f seconds peakGoroutines=%d peakMemoryMB=%d",
		ds.Rows(), len(ds.Report.Warnings), time.Since(startingTime).Seconds(), stats.PeakGoroutines, stats.PeakMemoryMB)
}
