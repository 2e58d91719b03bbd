package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/janus/pkg/auth"
	"mercator-hq/janus/pkg/config"
	"mercator-hq/janus/pkg/gateway"
	"mercator-hq/janus/pkg/gateway/handlers"
	"mercator-hq/janus/pkg/gateway/middleware"
	"mercator-hq/janus/pkg/llm"
	"mercator-hq/janus/pkg/quota"
	"mercator-hq/janus/pkg/store"
	"mercator-hq/janus/pkg/telemetry/metrics"
)

// Deps carries the collaborators the server wires into its routes.
type Deps struct {
	// Accounts persists users and API keys.
	Accounts store.Store

	// Resolver maps bearer credentials to identities.
	Resolver *auth.Resolver

	// Tokens issues session tokens for the login endpoint.
	Tokens *auth.TokenService

	// Controller runs the two-scope admission check.
	Controller *quota.Controller

	// QuotaMetrics records admission outcomes. May be nil.
	QuotaMetrics *quota.Metrics

	// Collector serves the metrics endpoint. May be nil when metrics
	// are disabled.
	Collector *metrics.Collector

	// Completer produces chat completions.
	Completer llm.Completer

	// Version is reported by the service banner.
	Version string
}

// Server is the gateway HTTP server.
type Server struct {
	config       *config.Config
	deps         Deps
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// New creates a Server.
func New(cfg *config.Config, deps Deps) *Server {
	return &Server{
		config:       cfg,
		deps:         deps,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown, whether from
// context cancellation, an interrupt signal, or a Shutdown call.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.Routes(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", s.config.Server.ListenAddress,
			"quota_backend", s.config.Quota.Backend,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		running := s.isRunning
		s.mu.Unlock()
		if !running {
			return
		}

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway server stopped")
	})

	return shutdownErr
}

// Stop requests shutdown from another goroutine. Safe to call once.
func (s *Server) Stop() {
	close(s.shutdownChan)
}

// Routes builds the full handler: routes plus the middleware chain. It is
// exported so tests can exercise the wired surface without a listener.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	rootHandler := handlers.NewRootHandler(s.deps.Version)
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(s.deps.Accounts, s.deps.Tokens, s.config.Auth.TokenTTL)
	chatHandler := handlers.NewChatHandler(s.deps.Completer)

	requireAuth := auth.RequireAuth(s.deps.Resolver)
	throttle := middleware.NewLoginThrottle(s.config.Auth.LoginRatePerSecond, s.config.Auth.LoginBurst)

	mux.Handle("/", rootHandler)
	mux.Handle("GET /health", healthHandler)

	mux.Handle("POST /v1/auth/signup", throttle.Wrap(http.HandlerFunc(authHandler.Signup)))
	mux.Handle("POST /v1/auth/login", throttle.Wrap(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /v1/auth/api-keys", requireAuth(http.HandlerFunc(authHandler.CreateAPIKey)))
	mux.Handle("GET /v1/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))

	mux.Handle("POST /v1/chat/completions", requireAuth(http.HandlerFunc(chatHandler.Completions)))

	if s.config.Metrics.Enabled && s.deps.Collector != nil {
		mux.Handle("GET "+s.config.Metrics.Path, s.deps.Collector.Handler())
	}

	gate := gateway.NewGate(s.deps.Resolver, s.deps.Controller, s.deps.QuotaMetrics, nil)

	var handler http.Handler = gate.Wrap(mux)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	return handler
}
