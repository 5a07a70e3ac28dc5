package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/todo-api/internal/auth"
	"github.com/Tomlord1122/todo-api/internal/metrics"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metrics.Middleware)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	// Only bearer headers are used, never cookies, so credentialed CORS
	// stays off.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", s.HelloWorldHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/health/db", s.dbHealthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(s.registry))

	authenticated := chi.Chain(auth.RequireUser(s.verifier, s.authFailed), s.rateLimit)

	r.Route("/todos", func(r chi.Router) {
		r.With(authenticated...).Post("/", s.createTodoHandler)
		r.With(authenticated...).Get("/", s.listTodosHandler)
		if s.cfg.StrictTodoRead {
			r.With(authenticated...).Get("/{id}", s.getTodoByIDHandler)
		} else {
			r.Get("/{id}", s.getTodoByIDHandler)
		}
		r.With(authenticated...).Put("/{id}", s.updateTodoHandler)
		r.With(authenticated...).Delete("/{id}", s.deleteTodoHandler)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Use(authenticated...)
		r.Post("/", s.createCategoryHandler)
		r.Get("/", s.listCategoriesHandler)
		r.Put("/{id}", s.updateCategoryHandler)
		r.Delete("/{id}", s.deleteCategoryHandler)
	})

	return r
}

func (s *Server) allowedOrigins() []string {
	origins := append([]string(nil), s.cfg.AllowedOrigins...)
	if s.cfg.PreviewOriginPattern != "" {
		origins = append(origins, s.cfg.PreviewOriginPattern)
	}
	return origins
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World! The To-Do API is running."})
}

// healthHandler is a liveness probe and never touches the database.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) dbHealthHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": "database not configured"})
		return
	}
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}
