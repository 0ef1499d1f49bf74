// Package census serves the normalized census table to the rest of the
// application. It reads the configured file on each Snapshot and reuses the
// normalized table for as long as the file content is unchanged.
package census

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/farxc/painel-ies/internal/census/cache"
	"github.com/farxc/painel-ies/internal/census/files"
	"github.com/farxc/painel-ies/internal/census/load"
	"github.com/farxc/painel-ies/internal/logger"
	"github.com/farxc/painel-ies/internal/metrics"
	"github.com/farxc/painel-ies/internal/store"
	"github.com/go-playground/validator/v10"
)

const component = "census"

type Config struct {
	Path         string `validate:"required"`
	Encoding     string `validate:"charset"`
	CacheEntries int    `validate:"min=1"`
}

func (c Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("charset", isCharset); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid dataset config: %s failed on %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid dataset config: %w", err)
	}
	return nil
}

func isCharset(fl validator.FieldLevel) bool {
	_, err := files.Decoder(fl.Field().String())
	return err == nil
}

// HistoryRecorder persists one row per load attempt.
type HistoryRecorder interface {
	InsertLoadHistory(ctx context.Context, history *store.LoadHistory) error
}

// Snapshot is the outcome of one dataset request. When Err is set, Dataset is
// an empty table and the caller renders Err instead of the widgets.
type Snapshot struct {
	Dataset *load.Dataset
	Err     error
	Hit     bool
}

func (s Snapshot) OK() bool {
	return s.Err == nil
}

type Service struct {
	cfg       Config
	cache     *cache.Cache[*load.Dataset]
	appLogger *logger.Logger
	metrics   *metrics.Metrics
	history   HistoryRecorder
	trigger   string

	mu          sync.Mutex
	lastFailure string
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithHistory(h HistoryRecorder) Option {
	return func(s *Service) { s.history = h }
}

// WithStorage records load attempts in the load_history table.
func WithStorage(storage *store.Storage) Option {
	return func(s *Service) {
		if storage != nil {
			s.history = storage.LoadHistory
		}
	}
}

func WithTrigger(trigger string) Option {
	return func(s *Service) { s.trigger = trigger }
}

func NewService(cfg Config, appLogger *logger.Logger, opts ...Option) (*Service, error) {
	if cfg.CacheEntries == 0 {
		cfg.CacheEntries = cache.DefaultMaxEntries
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if appLogger == nil {
		appLogger = logger.Nop()
	}

	s := &Service{
		cfg:       cfg,
		cache:     cache.New[*load.Dataset](cfg.CacheEntries),
		appLogger: appLogger,
		trigger:   store.TriggerTypeServer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache.OnEvicted = func(key string) {
		s.appLogger.Info(component, "Evicted dataset %s from cache", shortHash(key))
	}
	return s, nil
}

func (s *Service) Config() Config {
	return s.cfg
}

// Snapshot returns the normalized table for the current file content. It never
// panics; failures come back in Snapshot.Err with an empty dataset.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	start := time.Now()

	src, err := load.Read(s.cfg.Path)
	if err != nil {
		s.observe(ctx, src, nil, err, time.Since(start))
		return Snapshot{Dataset: load.Empty(), Err: err}
	}

	ds, hit, err := s.cache.GetOrCompute(src.Hash, func() (*load.Dataset, error) {
		s.metrics.CacheMiss()
		ds, err := load.Normalize(src,
			load.WithEncoding(s.cfg.Encoding),
			load.WithLogger(s.appLogger),
		)
		s.observe(ctx, src, ds, err, time.Since(start))
		return ds, err
	})
	if err != nil {
		return Snapshot{Dataset: load.Empty(), Err: err}
	}
	if hit {
		s.metrics.CacheHit()
	}
	return Snapshot{Dataset: ds, Hit: hit}
}

// Reload drops the cached table so the next Snapshot normalizes again.
func (s *Service) Reload() {
	s.cache.Purge()
	s.mu.Lock()
	s.lastFailure = ""
	s.mu.Unlock()
	s.appLogger.Info(component, "Dataset cache purged")
}

func (s *Service) observe(ctx context.Context, src files.Source, ds *load.Dataset, err error, took time.Duration) {
	result := "ok"
	if err != nil {
		result = load.KindOf(err).String()
	}
	s.metrics.ObserveLoad(result, took, ds.Rows())

	entry := &store.LoadHistory{
		SourceFile: src.AbsPath,
		SourceHash: src.Hash,
		Trigger:    s.trigger,
		Status:     store.StatusSuccess,
		Rows:       ds.Rows(),
	}

	if err != nil {
		// A broken file is retried on every request; report each distinct
		// failure once.
		key := result + "|" + src.Hash
		s.mu.Lock()
		repeated := key == s.lastFailure
		s.lastFailure = key
		s.mu.Unlock()
		if repeated {
			s.appLogger.Debug(component, "Dataset still failing: %v", err)
			return
		}

		s.appLogger.Error(component, "Failed to load dataset: %v", err)
		entry.Status = store.StatusFailure
		entry.ErrorKind = result
		entry.Message = err.Error()
	} else {
		s.mu.Lock()
		s.lastFailure = ""
		s.mu.Unlock()

		s.appLogger.Info(component, "Dataset %s ready: %d rows in %s", shortHash(src.Hash), ds.Rows(), took)
		entry.DatasetID = ds.ID.String()
		entry.Warnings = ds.Report.Warnings
	}

	if s.history == nil {
		return
	}
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if herr := s.history.InsertLoadHistory(hctx, entry); herr != nil {
		s.appLogger.Warn(component, "Failed to record load history: %v", herr)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
