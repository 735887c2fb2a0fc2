package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/roi-atlas/pkg/handlers/roi"
	roiatlasmiddleware "github.com/de-tools/roi-atlas/pkg/server/middleware"
	"github.com/de-tools/roi-atlas/pkg/services/analysis"
	"github.com/de-tools/roi-atlas/pkg/services/roi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Analysis analysis.Service
	Defaults roi.Options
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// RequestsPerMinute limits API requests per client IP; zero disables it.
	RequestsPerMinute int
	Dependencies      Dependencies
}

// ConfigureRouter builds the HTTP routes of the ROI API.
func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	roiHandler := handlers.NewHandler(deps.Analysis, deps.Defaults)

	router := chi.NewRouter()

	router.Use(roiatlasmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)
	router.Use(roiatlasmiddleware.Metrics())

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(roiatlasmiddleware.RateLimit(roiatlasmiddleware.RateLimitConfig{
			RequestLimit: config.RequestsPerMinute,
			WindowSize:   time.Minute,
		}))

		r.Get("/channels", roiHandler.ListChannels)
		r.Get("/optimization", roiHandler.GetOptimization)
		r.Get("/report", roiHandler.GetReport)
		r.Post("/analyze", roiHandler.Analyze)
		r.Get("/runs", roiHandler.ListRuns)
		r.Get("/runs/{id}", roiHandler.GetRun)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	config.Dependencies.Logger = logger
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
