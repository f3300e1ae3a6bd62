package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

// Identity is what the server reports for a valid token.
type Identity struct {
	Username string
	IssuedAt time.Time
}

type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Whoami(ctx context.Context, token string) (*Identity, error)
	Close() error
}

// New returns the Client for cfg.Transport.
func New(cfg *config.Config) (Client, error) {
	switch cfg.Transport {
	case config.TransportHTTP, "":
		return NewHTTPClient(cfg.ServerEndpointAddr, cfg.RequestTimeout), nil
	case config.TransportGRPC:
		return NewGRPCClient(cfg.GRPCEndpointAddr)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
