// Package config handles configuration for the server component.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: an optional .env file, then GOPHAUTH_* variables
//     (and PORT for the HTTP listener).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// Config holds runtime settings for the GophAuth server.
//
// StorageDSN picks the credential store by scheme: empty or memory://,
// postgres://, mongodb://, redis:// or s3://bucket/prefix. The S3* fields
// are only read for s3:// DSNs.
type Config struct {
	HTTPAddr              string
	GRPCAddr              string
	StorageDSN            string
	SecretKey             string
	TokenValidityDuration time.Duration
	PasswordHashAlgorithm string
	CORSAllowedOrigins    []string
	LogFormat             string
	LogLevel              string
	S3Region              string
	S3AccessKey           string
	S3SecretKey           string
	S3BaseEndpoint        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside of local development.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.GRPCAddr = ":50051"
	c.StorageDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 0
	c.PasswordHashAlgorithm = cryptox.AlgorithmArgon2id
	c.CORSAllowedOrigins = []string{"*"}
	c.LogFormat = "json"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.S3BaseEndpoint = ""
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("secret key must not be empty")
	}
	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		return errors.New("at least one of the HTTP or gRPC addresses must be set")
	}
	if c.TokenValidityDuration < 0 {
		return fmt.Errorf("token validity must not be negative, got %s", c.TokenValidityDuration)
	}
	if _, err := cryptox.NewHasher(c.PasswordHashAlgorithm); err != nil {
		return err
	}
	return nil
}

// LoadConfig builds a Config from defaults, environment, the optional JSON
// file and finally args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	env, err := loadEnv(".env")
	if err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, env); err != nil {
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
