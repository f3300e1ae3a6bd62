// Package httpapi exposes the auth service over HTTP/JSON using gin.
//
// Routes:
//
//	POST /api/auth/register  {username, password} -> 201 {}
//	POST /api/auth/login     {username, password} -> 200 {token}
//	GET  /api/auth/me        Authorization: Bearer <token> -> 200 {username, issuedAt}
//	GET  /health             -> 200 {status: "ok"}
//
// Every failure is answered with {msg}.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// AuthService is what the handlers need from the business layer.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(ctx context.Context, token string) (*auth.Identity, error)
}

// Server owns the gin engine and the net/http server around it.
type Server struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

// NewServer builds the router. corsOrigins may contain "*" to allow any
// origin.
func NewServer(address string, svc AuthService, l logging.Logger, corsOrigins []string) *Server {
	logger := l.With("module", "http_server")

	engine := gin.New()
	engine.Use(
		recovery(logger),
		requestID(),
		corsMiddleware(corsOrigins),
		bodyLimit(maxBodyBytes),
		requestLogger(logger),
	)

	h := &handler{svc: svc, logger: logger}
	engine.GET("/health", h.health)

	api := engine.Group("/api/auth")
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.GET("/me", h.me)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, msgBody("Not found"))
	})

	return &Server{address: address, engine: engine, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		select {
		case <-done:
			// Serve already returned, nothing to shut down.
			return
		default:
		}
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
