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
	"github.com/go-chi/render"
	"github.com/kubev2v/rack-planner/internal/config"
	"github.com/kubev2v/rack-planner/internal/events"
	handlers "github.com/kubev2v/rack-planner/internal/handlers/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/pkg/metrics"
	"github.com/kubev2v/rack-planner/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg        *config.Config
	store      store.Store
	listener   net.Listener
	producer   *events.EventProducer
	registerer prometheus.Registerer
}

type ServerOption func(*Server)

// WithRegisterer sets the registry receiving the request metrics.
// The default registerer is used otherwise.
func WithRegisterer(r prometheus.Registerer) ServerOption {
	return func(s *Server) {
		s.registerer = r
	}
}

// New returns a new instance of a rack-planner server. The producer may be
// nil, in which case no audit event is emitted.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	producer *events.EventProducer,
	opts ...ServerOption,
) *Server {
	s := &Server{
		cfg:        cfg,
		store:      store,
		listener:   listener,
		producer:   producer,
		registerer: prometheus.DefaultRegisterer,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the API router. It can be built more than once against the
// same registerer.
func (s *Server) Router() (chi.Router, error) {
	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	if err := metricMiddleware.Register(s.registerer); err != nil {
		return nil, fmt.Errorf("failed to register api metrics: %w", err)
	}

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
		render.SetContentType(render.ContentTypeJSON),
	)

	opts := []service.InventoryOption{service.WithDefaultRackHeight(s.cfg.Service.DefaultRackHeight)}
	if s.producer != nil && s.cfg.Service.AuditEventsEnabled {
		opts = append(opts, service.WithAuditProducer(s.producer))
	}

	h := handlers.NewServiceHandler(
		service.NewInventory(s.store, opts...),
		handlers.WithMaxBatchSize(s.cfg.Service.MaxBatchSize),
	)
	handlers.HandlerFromMux(h, router)

	return router, nil
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
