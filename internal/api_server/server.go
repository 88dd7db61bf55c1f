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
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ecuworks/tunehub/internal/auth"
	"github.com/ecuworks/tunehub/internal/config"
	"github.com/ecuworks/tunehub/internal/events"
	handlers "github.com/ecuworks/tunehub/internal/handlers/v1"
	"github.com/ecuworks/tunehub/internal/hub"
	"github.com/ecuworks/tunehub/internal/service"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
	"github.com/ecuworks/tunehub/pkg/log"
	"github.com/ecuworks/tunehub/pkg/metrics"
	"github.com/ecuworks/tunehub/pkg/requestid"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
	producer *events.EventProducer
}

// New returns a new instance of a tunehub API server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	producer *events.EventProducer,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
		producer: producer,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth, s.store)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()
	prometheus.MustRegister(metrics.NewJobStatsCollector(s.store))

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		requestid.Middleware,
		log.Logger(zap.L(), "router"),
		chiMiddleware.Recoverer,
	)

	eventHub := hub.New(func(userID uuid.UUID) (model.UserRole, bool) {
		user, err := s.store.User().Get(context.Background(), userID)
		if err != nil {
			return "", false
		}
		return user.Role, true
	})

	jobSrv := service.NewJobService(s.store, eventHub, s.producer)
	messageSrv := service.NewMessageService(s.store, jobSrv, eventHub, s.producer)
	reportSrv := service.NewReportService(s.store, jobSrv, eventHub, s.producer)

	h := handlers.NewServiceHandler(s.store, jobSrv, messageSrv, reportSrv)
	socketHandler := handlers.NewSocketHandler(eventHub, s.store)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticator.Authenticator)
		h.Routes(r)
		r.Get("/ws", socketHandler.Subscribe)
	})

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
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
