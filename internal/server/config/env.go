package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "GOPHAUTH_"

// lookupFunc mirrors os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// loadEnv returns a lookup over the process environment with values from
// the optional dotenv file underneath it. A missing file is not an error.
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

// parseEnv overlays cfg with GOPHAUTH_* variables. PORT is honoured for the
// HTTP listener when GOPHAUTH_HTTP_ADDR is not set.
func parseEnv(cfg *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.HTTPAddr = ":" + v
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("GRPC_ADDR", &cfg.GRPCAddr)
	str("STORAGE_DSN", &cfg.StorageDSN)
	str("SECRET_KEY", &cfg.SecretKey)
	str("PASSWORD_HASH_ALGORITHM", &cfg.PasswordHashAlgorithm)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("S3_REGION", &cfg.S3Region)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)
	str("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)

	if v, ok := lookup(envPrefix + "CORS_ALLOWED_ORIGINS"); ok && v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	if v, ok := lookup(envPrefix + "TOKEN_VALIDITY_DURATION"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTOKEN_VALIDITY_DURATION: %w", envPrefix, err)
		}
		cfg.TokenValidityDuration = d
	}

	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
