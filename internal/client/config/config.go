package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the CLI. Transport selects which of the
// two endpoints is used.
type Config struct {
	ServerEndpointAddr string
	GRPCEndpointAddr   string
	Transport          string
	SessionDBPath      string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:5000"
	c.GRPCEndpointAddr = "127.0.0.1:50051"
	c.Transport = TransportHTTP
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 10 * time.Second
}

func (c *Config) Validate() error {
	if c.Transport != TransportHTTP && c.Transport != TransportGRPC {
		return fmt.Errorf("unknown transport %q, want %s or %s", c.Transport, TransportHTTP, TransportGRPC)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SessionDBPath == "" {
		return fmt.Errorf("session db path must not be empty")
	}
	return nil
}

// LoadConfig builds a Config from defaults, environment, the optional JSON
// file and finally args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	lookup, err := loadEnv(".env")
	if err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if err := parseJson(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
