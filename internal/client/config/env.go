package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "GOPHAUTH_"

type lookupFunc func(key string) (string, bool)

// loadEnv layers the process environment over the optional dotenv file.
func loadEnv(path string) (lookupFunc, error) {
	file, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

func parseEnv(cfg *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	str("SERVER_ENDPOINT_ADDR", &cfg.ServerEndpointAddr)
	str("GRPC_ENDPOINT_ADDR", &cfg.GRPCEndpointAddr)
	str("TRANSPORT", &cfg.Transport)
	str("SESSION_DB_PATH", &cfg.SessionDBPath)

	if v, ok := lookup(envPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
