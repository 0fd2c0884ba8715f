// Package server is the composition root: it wires storage, services, and
// handlers together, defines every route, and owns startup and graceful
// shutdown.
//
// Keeping the wiring out of main.go makes it testable — a test can build a
// full Server without running a process — and keeps main down to "read
// config, start server".
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

	"github.com/sakif/seedhaven/internal/auth"
	"github.com/sakif/seedhaven/internal/handler"
	"github.com/sakif/seedhaven/internal/middleware"
	sqliteRepo "github.com/sakif/seedhaven/internal/repository/sqlite"
	"github.com/sakif/seedhaven/internal/service"
	"github.com/sakif/seedhaven/internal/summary"
)

// Config holds everything the server needs from the environment.
// GoogleClientID/Secret/CallbackURL may be empty — the redirect sign-in
// endpoints then answer 503 and everything else works. GeminiAPIKey may be
// empty — checkout falls back to the fixed confirmation text.
type Config struct {
	Port               int
	DBPath             string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	GeminiAPIKey       string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router  *chi.Mux
	config  Config
	logger  *slog.Logger
	storage *sqliteRepo.Storage
}

// New assembles the full dependency chain:
//
//	sqlite.Storage → repository views → services → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services, and nothing below the handler layer
// ever sees HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	storage, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		storage: storage,
	}

	if err := s.setupRoutes(); err != nil {
		storage.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// setupRoutes wires services and mounts every route.
//
// MIDDLEWARE ORDER MATTERS: RequestID runs first so the logger can pick the
// ID out of the context; Recoverer runs before our logger so a panicking
// handler still produces a 500 log line.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	var google *auth.GoogleProvider
	if s.config.GoogleClientID != "" && s.config.GoogleClientSecret != "" {
		google = auth.NewGoogleProvider(
			s.config.GoogleClientID,
			s.config.GoogleClientSecret,
			s.config.GoogleCallbackURL,
		)
	} else {
		s.logger.Warn("Google OAuth not configured; redirect sign-in disabled")
	}

	// Services over the sqlite-backed stores.
	identity := service.NewIdentityService(
		s.storage.Users(),
		auth.NewPasswordService(),
		auth.UnverifiedDecoder{},
		s.logger,
	)
	cart := service.NewCartService(s.storage.Carts(), s.logger)
	summarizer := summary.NewClient(s.config.GeminiAPIKey, s.logger)
	checkout := service.NewCheckoutService(identity, cart, summarizer, s.logger)

	authHandler := handler.NewAuthHandler(identity, tokens, google, s.logger)
	catalogHandler := handler.NewCatalogHandler(s.logger)
	cartHandler := handler.NewCartHandler(identity, cart, s.logger)
	checkoutHandler := handler.NewCheckoutHandler(identity, checkout, s.logger)
	profileHandler := handler.NewProfileHandler(identity, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Accounts and sessions.
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/google", authHandler.HandleCredential)
		r.Get("/auth/google/login", authHandler.HandleGoogleLogin)
		r.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
		r.With(auth.RequireAuth(tokens)).Get("/auth/me", authHandler.HandleMe)

		// Catalog: public and read-only.
		r.Get("/products", catalogHandler.HandleList)
		r.Get("/products/{id}", catalogHandler.HandleGet)
		r.Post("/products/compose", catalogHandler.HandleCompose)

		// Cart: anonymous visitors allowed, sessions resolve to an account.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/cart", cartHandler.HandleGet)
			r.Delete("/cart", cartHandler.HandleClear)
			r.Post("/cart/items", cartHandler.HandleAdd)
			r.Put("/cart/items/{id}", cartHandler.HandleUpdateQuantity)
			r.Delete("/cart/items/{id}", cartHandler.HandleRemove)
		})

		// Checkout and profile: session required.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/checkout/totals", checkoutHandler.HandleTotals)
			r.Post("/checkout/order", checkoutHandler.HandlePlaceOrder)
			r.Post("/profile/addresses", profileHandler.HandleAddAddress)
			r.Post("/profile/payment-methods", profileHandler.HandleAddPaymentMethod)
			r.Get("/profile/orders", profileHandler.HandleListOrders)
		})
	})

	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database. Closing the
// database last flushes the WAL and releases the file lock.
func (s *Server) Start() error {
	defer s.storage.Close()

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
