package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/dgallion1/docwheel/internal/config"
	"github.com/dgallion1/docwheel/internal/store"
	"github.com/dgallion1/docwheel/internal/wheel"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP host for a single wheel view.
type Server struct {
	router chi.Router
	log    *slog.Logger
	cfg    config.Config
	stats  *store.Instrumented

	// mu serialises view events; the view itself is single-threaded.
	mu   sync.Mutex
	view *wheel.View
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(view *wheel.View, stats *store.Instrumented, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		view:  view,
		stats: stats,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/view.svg", s.handleSVG)
		r.Get("/api/stats/store", s.handleStoreStats)

		r.Route("/api/view", func(r chi.Router) {
			r.Get("/", s.handleView)
			r.Post("/toggle", s.handleToggle)
			r.Post("/reload", s.handleReload)
			r.Post("/resize", s.handleResize)
			r.Post("/click", s.handleClick)
			r.Post("/select-first", s.handleSelectFirst)
			r.Post("/navigate/{dir}", s.handleNavigate)
			r.Post("/find", s.handleFind)

			r.Post("/rename", s.handleBegin(s.view.BeginRename))
			r.Post("/insert-child", s.handleBegin(s.view.BeginInsertChild))
			r.Post("/insert-sibling", s.handleBegin(s.view.BeginInsertSibling))
			r.Post("/commit", s.handleCommit)
			r.Post("/cancel", s.handleCancel)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
