// Package mockapi is an in-memory implementation of the marketplace REST
// API, used for local development and end-to-end tests of the client.
package mockapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/shopctl/internal/config"
	"github.com/me/shopctl/pkg/model"
)

// Server is the mock marketplace API.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	now       func() time.Time

	mu       sync.Mutex
	users    map[string]*account // by lower-cased email
	products []model.Product     // insertion order
	carts    map[string][]line   // by user id
}

// Option configures a Server.
type Option func(*Server)

// WithoutBulkClear makes a bodyless DELETE /cart/remove-product fail with
// 400, as some deployments do.
func WithoutBulkClear() Option {
	return func(s *Server) {
		s.config.BulkClear = false
	}
}

// WithUser adds an account.
func WithUser(u SeedUser) Option {
	return func(s *Server) {
		if err := s.addUser(u); err != nil {
			s.logger.Error("seed user", "email", u.Email, "error", err)
		}
	}
}

// WithProducts adds catalogue entries. Products without an ID get one.
func WithProducts(products ...model.Product) Option {
	return func(s *Server) {
		for _, p := range products {
			s.addProduct(p)
		}
	}
}

// New creates a Server with all routes registered. When cfg.Seed is set the
// demo accounts and catalogue are loaded before opts run.
func New(cfg config.ServerConfig, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "mockapi"),
		config:    cfg,
		startTime: time.Now(),
		now:       time.Now,
		users:     make(map[string]*account),
		carts:     make(map[string][]line),
	}
	if cfg.Seed {
		s.seed()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(s.authMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.handleListProducts)
		r.Get("/{id}", s.handleGetProduct)
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", s.handleCreateProduct)
			r.Put("/{id}", s.handleUpdateProduct)
			r.Delete("/{id}", s.handleDeleteProduct)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/", s.handleGetCart)
		r.Post("/add-product", s.handleAddProduct)
		r.Delete("/remove-product", s.handleRemoveProduct)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users, products := len(s.users), len(s.products)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
		"users":     users,
		"products":  products,
		"bulkClear": s.config.BulkClear,
	})
}
