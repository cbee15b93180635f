// Package web exposes the gateway over HTTP: JSON handlers for the auth
// endpoints, the bearer-token middleware, and the protected ask endpoint.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dmartins/askgate/internal/logging"
	"github.com/dmartins/askgate/internal/server/accounts"
	"github.com/dmartins/askgate/internal/server/ask"
	"github.com/dmartins/askgate/internal/server/auth"
)

const shutdownTimeout = 5 * time.Second

// Authenticator is the slice of the auth service the transport layer needs.
type Authenticator interface {
	Login(ctx context.Context, login, password string) (*auth.LoginResult, error)
	Authorize(ctx context.Context, authorization string) (*auth.Identity, error)
	ProvisionDefaultAdmin(ctx context.Context) (*accounts.Account, error)
}

type Server struct {
	address        string
	logger         logging.Logger
	auth           Authenticator
	ask            *ask.Service
	allowedOrigins []string
}

func NewServer(address string, l logging.Logger, authSvc Authenticator, askSvc *ask.Service, allowedOrigins []string) *Server {
	return &Server{
		address:        address,
		logger:         l.With("module", "web"),
		auth:           authSvc,
		ask:            askSvc,
		allowedOrigins: allowedOrigins,
	}
}

// Handler builds the route tree. Split from Run so tests can drive it with
// httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/create-admin", s.handleCreateAdmin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/auth/me", s.handleMe)
			r.Post("/ask", s.handleAsk)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
