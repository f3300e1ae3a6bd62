// Package server wires the credential store, auth service and transports
// together and runs the HTTP and gRPC servers until a shutdown signal.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repo        accounts.Repository
	authService *services.AuthService
}

// NewApp opens the store named by c.StorageDSN and builds the auth service.
// Log output goes to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.New(w, c.LogFormat, c.LogLevel)

	hasher, err := cryptox.NewHasher(c.PasswordHashAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	repo, err := repomanager.Open(ctx, repomanager.Options{
		DSN:            c.StorageDSN,
		S3Region:       c.S3Region,
		S3AccessKey:    c.S3AccessKey,
		S3SecretKey:    c.S3SecretKey,
		S3BaseEndpoint: c.S3BaseEndpoint,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), c.TokenValidityDuration)

	svc, err := services.NewAuthService(repo, hasher, tokens, logger)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	return &App{config: c, logger: logger, repo: repo, authService: svc}, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives, or
// either server fails. The store is closed afterwards.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)

	if app.config.HTTPAddr != "" {
		g.Go(func() error {
			s := httpapi.NewServer(app.config.HTTPAddr, app.authService, app.logger, app.config.CORSAllowedOrigins)
			if err := s.Run(gctx); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
	}

	if app.config.GRPCAddr != "" {
		g.Go(func() error {
			s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.authService)
			if err := s.Run(gctx); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}

	if cerr := app.repo.Close(); cerr != nil {
		app.logger.Error(ctx, "closing storage", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
