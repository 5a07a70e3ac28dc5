package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Tomlord1122/todo-api/internal/auth"
	"github.com/Tomlord1122/todo-api/internal/config"
	"github.com/Tomlord1122/todo-api/internal/database"
	"github.com/Tomlord1122/todo-api/internal/metrics"
	"github.com/Tomlord1122/todo-api/internal/service"
)

// Deps are the collaborators a Server is built from. DB may be nil, in
// which case /health/db reports the database as down.
type Deps struct {
	Config     *config.Config
	Todos      service.TodoService
	Categories service.CategoryService
	DB         database.Service
	Verifier   auth.Verifier
	Registry   *prometheus.Registry
	Logger     *slog.Logger
}

type Server struct {
	cfg        *config.Config
	todos      service.TodoService
	categories service.CategoryService
	db         database.Service
	verifier   auth.Verifier
	registry   *prometheus.Registry
	metrics    *metrics.Collector
	limiter    *rateLimiter
	log        *slog.Logger
}

// New builds a Server and registers its metrics with d.Registry.
func New(d Deps) *Server {
	s := &Server{
		cfg:        d.Config,
		todos:      d.Todos,
		categories: d.Categories,
		db:         d.DB,
		verifier:   d.Verifier,
		registry:   d.Registry,
		metrics:    metrics.NewCollector(d.Registry),
		log:        d.Logger,
	}
	if d.Config.RateLimitRPS > 0 {
		s.limiter = newRateLimiter(d.Config.RateLimitRPS, d.Config.RateLimitBurst, 5*time.Minute)
	}
	return s
}

// HTTPServer wraps the routes in an *http.Server listening on the
// configured port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}
}

// Close releases background resources. It does not stop the HTTP server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
