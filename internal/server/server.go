// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: every dependency — database, token service,
// services, handlers — is constructed and wired here, in one place, instead
// of scattered across the codebase. main.go only supplies config and calls
// Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mahir/surveyd/internal/auth"
	"github.com/mahir/surveyd/internal/handler"
	"github.com/mahir/surveyd/internal/middleware"
	sqliteRepo "github.com/mahir/surveyd/internal/repository/sqlite"
	"github.com/mahir/surveyd/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// GitHub OAuth is optional: when ClientID/ClientSecret are empty the
	// /auth/github routes simply aren't registered.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	// AllowedOrigins for CORS. Empty means allow any origin, which suits
	// local development with the frontend on another port.
	AllowedOrigins []string
}

// Server owns the router and the database handle. The database is closed
// during graceful shutdown — skipping that can leave the WAL unflushed.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces (not the concrete DB), handlers get services (not
// repositories).
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes wires middleware, handlers, and routes.
//
// ROUTE STRUCTURE:
//
//	POST /api/auth/register   → create account               (public)
//	POST /api/auth/login      → credential login             (public)
//	GET  /api/questions       → survey catalog               (bearer token)
//	POST /api/responses       → submit/replace an answer     (bearer token)
//	GET  /api/responses       → own answers, newest first    (bearer token)
//	GET  /api/healthz         → liveness                     (public)
//	GET  /auth/github/*       → OAuth sign-in                (public, optional)
//
// MIDDLEWARE ORDER MATTERS — RequestID and RealIP first so the logger sees
// them, Recoverer before anything that could panic, CORS before routing so
// preflights get answered, and RequireAuth only on the protected group.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	// The same *DB satisfies all three repository interfaces.
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	surveyService := service.NewSurveyService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	surveyHandler := handler.NewSurveyHandler(surveyService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/questions", surveyHandler.HandleListQuestions)
			r.Post("/responses", surveyHandler.HandleSubmitResponse)
			r.Get("/responses", surveyHandler.HandleListResponses)
		})
	})

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	} else {
		s.logger.Info("GitHub OAuth not configured — /auth/github routes disabled")
	}

	return nil
}

func (s *Server) corsOrigins() []string {
	if len(s.config.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.config.AllowedOrigins
}

// Handler exposes the assembled router, mainly so tests can drive the full
// stack through httptest without opening a socket.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Useful for tests;
// Start handles this itself.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to drain, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
