// Package server wires config, storage, handlers and middleware into the
// HTTP application and runs it with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rizquez/usersvc/internal/config"
	"github.com/rizquez/usersvc/internal/server/handlers"
	"github.com/rizquez/usersvc/internal/server/middleware"
	"github.com/rizquez/usersvc/internal/server/storage"
	"github.com/rizquez/usersvc/internal/server/storage/boltdb"
	"github.com/rizquez/usersvc/internal/server/storage/sqlite"
	"github.com/rizquez/usersvc/internal/server/token"
)

const shutdownTimeout = 10 * time.Second

// App is the assembled HTTP application.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	store  storage.UserStore
	tokens *token.Service
	closer func() error
}

// New opens the configured storage backend and builds the application.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		store  storage.UserStore
		closer func() error
	)

	switch cfg.Storage {
	case config.StorageSQLite:
		s, err := sqlite.New(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		store, closer = s, s.Close
	case config.StorageBolt:
		s, err := boltdb.New(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt storage: %w", err)
		}
		store, closer = s, s.Close
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
		tokens: token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL),
		closer: closer,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// Handler builds the route table. Everything under /users sits behind the
// auth gate; /auth and /ping are open.
func (a *App) Handler() http.Handler {
	healthHandler := handlers.NewHealthHandler(a.logger)
	authHandler := handlers.NewAuthHandler(a.logger, a.store, a.tokens, a.cfg.BcryptCost)
	userHandler := handlers.NewUserHandler(a.logger, a.store, a.cfg.BcryptCost)

	authGate := middleware.Auth(a.logger, a.tokens)
	protected := func(h http.HandlerFunc) http.Handler {
		return authGate(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", healthHandler.Ping)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /users", protected(userHandler.List))
	mux.Handle("POST /users", protected(userHandler.Create))
	mux.Handle("GET /users/{id}", protected(userHandler.Get))
	mux.Handle("PUT /users/{id}", protected(userHandler.Update))
	mux.Handle("DELETE /users/{id}", protected(userHandler.Delete))

	var handler http.Handler = mux
	handler = middleware.Logging(a.logger)(handler)
	handler = middleware.Recovery(a.logger)(handler)

	return handler
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", a.cfg.Addr, "storage", a.cfg.Storage)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}
