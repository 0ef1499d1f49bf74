package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/farxc/painel-ies/internal/census"
	"github.com/farxc/painel-ies/internal/logger"
	"github.com/farxc/painel-ies/internal/metrics"
	"github.com/farxc/painel-ies/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const component = "api"

type application struct {
	config    config
	census    *census.Service
	store     *store.Storage
	metrics   *metrics.Metrics
	appLogger *logger.Logger
}

type config struct {
	addr        string
	corsOrigins []string
	dataset     census.Config
	db          dbConfig
	log         logConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type logConfig struct {
	level  string
	format string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(app.observeRequests)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", app.handleDashboardPage)
	r.Handle("/metrics", app.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/dataset", func(r chi.Router) {
			r.Get("/", app.handleGetDataset)
			r.Post("/reload", app.handleReloadDataset)
		})
		r.Get("/filters", app.handleGetFilters)
		r.Get("/metrics", app.handleGetMetrics)
		r.Get("/preview", app.handleGetPreview)
		r.Route("/charts", func(r chi.Router) {
			r.Get("/", app.handleGetCharts)
			r.Get("/{id}", app.handleGetChart)
			r.Get("/{id}/png", app.handleGetChartPNG)
		})
		r.Route("/institutions", func(r chi.Router) {
			r.Get("/", app.handleGetInstitutions)
			r.Get("/export", app.handleExportInstitutions)
		})
		r.Get("/loads/history", app.handleGetLoadHistory)
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.appLogger.Info(component, "Server started on %s", app.config.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.appLogger.Info(component, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// observeRequests counts responses per route pattern and status code.
func (app *application) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		app.metrics.ObserveRequest(route, strconv.Itoa(status))
	})
}
