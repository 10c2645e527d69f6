package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/forecast-ops/job-tracker/internal/auth"
	"github.com/forecast-ops/job-tracker/internal/config"
	handlers "github.com/forecast-ops/job-tracker/internal/handlers/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/service"
	"github.com/forecast-ops/job-tracker/internal/store"
	"github.com/forecast-ops/job-tracker/pkg/metrics"
	"github.com/forecast-ops/job-tracker/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg         *config.Config
	store       store.Store
	listener    net.Listener
	eventWriter service.EventWriter
}

// New returns a new instance of a job tracker server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	eventWriter service.EventWriter,
) *Server {
	return &Server{
		cfg:         cfg,
		store:       store,
		listener:    listener,
		eventWriter: eventWriter,
	}
}

// Router builds the API router with its middleware chain.
func (s *Server) Router() (http.Handler, error) {
	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	metricMiddleware, err := metrics.NewMiddleware("api_server")
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
	}
	if err := metricMiddleware.Register(prometheus.DefaultRegisterer); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("failed to register metrics middleware: %w", err)
		}
	}

	router := chi.NewRouter()
	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.AllowedOrigins,
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	h := handlers.NewServiceHandler(
		service.NewJobService(s.store, s.eventWriter),
		service.NewPipelineService(s.store, s.eventWriter),
	)

	return handlers.HandlerFromMux(h, router, authenticator.Authenticator), nil
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router, err := s.Router()
	if err != nil {
		return err
	}
	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
