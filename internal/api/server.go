// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the YaMDb router: the shared middleware chain, the
probes at the root and every domain handler under /api/v1.

Titles and their reviews are two mounts. The reviews mount is the longer
pattern (/titles/{title_id}/reviews), which chi matches before the title
subrouter's catch-all.
*/
package api

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yamdb/internal/core/review"
	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// Server owns the listening [http.Server].
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 only when all dependencies answer.
	Readiness http.HandlerFunc

	// Auth handles signup and the code-for-token exchange.
	Auth *auth.Handler

	// Account handles /users/me and the admin user directory.
	Account *account.Handler

	Categories *taxonomy.Handler
	Genres     *taxonomy.Handler
	Titles     *title.Handler

	// Reviews serves reviews and their comments, nested under a title.
	Reviews *review.Handler
}

// Identity groups what Authenticate needs: the token check and the account lookup.
type Identity struct {
	Verifier middleware.TokenVerifier
	Resolver middleware.CallerResolver
}

// # Router

// NewRouter builds the middleware chain and mounts every handler.
//
// context bounds background work started by middleware (rate limiter sweeps).
func NewRouter(context stdctx.Context, cfg *config.Config, log *slog.Logger, identity Identity, h Handlers) *chi.Mux {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		middleware.PanicRecovery(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(context),
		middleware.CORS(cfg),
		middleware.Authenticate(identity.Verifier, identity.Resolver),
		chimw.CleanPath,
	)

	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/auth", h.Auth.Routes())
		v1.Mount("/users", h.Account.Routes())
		v1.Mount("/categories", h.Categories.Routes())
		v1.Mount("/genres", h.Genres.Routes())
		v1.Mount("/titles", h.Titles.Routes())
		v1.Mount("/titles/{"+title.ParamTitleID+"}/reviews", h.Reviews.Routes())
	})

	return router
}

// # Lifecycle

// NewServer serves [NewRouter] on cfg.ServerPort with the platform timeouts.
func NewServer(context stdctx.Context, cfg *config.Config, log *slog.Logger, identity Identity, h Handlers) *Server {
	return &Server{
		log: log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           NewRouter(context, cfg, log, identity, h),
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

/*
Run serves until context is cancelled, then drains in-flight requests for at
most grace.

Returns:
  - error: a listen failure, or a drain that exceeded grace; nil on a clean stop
*/
func (s *Server) Run(context stdctx.Context, grace time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		s.log.Info("server_listening", slog.String("addr", s.httpServer.Addr))
		listenErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server_listen_failed: %w", err)
	case <-context.Done():
	}

	s.log.Info("server_draining", slog.Duration("grace", grace))
	drainCtx, cancel := stdctx.WithTimeout(stdctx.Background(), grace)
	defer cancel()

	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("server_shutdown_failed: %w", err)
	}
	return nil
}
