// Package rest is the HTTP API: session endpoints that set and clear the
// session cookies, and user endpoints behind cookie authentication.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address string
	router  *gin.Engine
	logger  logging.Logger
}

func NewServer(address string, logger logging.Logger, sessions SessionManager, users UserManager,
	authn Authenticator, cookies *CookieManager) (*Server, error) {
	logger = logger.With("module", "http_server")

	if err := registerValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	router.Use(gin.Recovery(), requestID(), accessLog(logger))

	h := &handlers{sessions: sessions, users: users, cookies: cookies}

	router.GET("/healthz", healthz)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/sign-in", h.signIn)
	v1.POST("/auth/sign-up", h.signUp)

	protected := v1.Group("", authenticate(authn, cookies))
	protected.POST("/auth/sign-out", h.signOut)
	protected.GET("/users/me", h.me)
	protected.GET("/users/:id", h.getUser)
	protected.GET("/users", h.listUsers)
	protected.POST("/users", h.createUser)

	return &Server{address: address, router: router, logger: logger}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
