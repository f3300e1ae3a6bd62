package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent keys leave the
// corresponding Config field untouched.
type JsonConfig struct {
	HTTPAddr              string          `json:"http_addr"`
	GRPCAddr              string          `json:"grpc_addr"`
	StorageDSN            string          `json:"storage_dsn"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	PasswordHashAlgorithm string          `json:"password_hash_algorithm"`
	CORSAllowedOrigins    []string        `json:"cors_allowed_origins"`
	LogFormat             string          `json:"log_format"`
	LogLevel              string          `json:"log_level"`
	S3Region              string          `json:"s3_region"`
	S3AccessKey           string          `json:"s3_access_key"`
	S3SecretKey           string          `json:"s3_secret_key"`
	S3BaseEndpoint        string          `json:"s3_base_endpoint"`
}

// parseJson overlays config with the file at path. An empty path is a no-op.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var c JsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.GRPCAddr, c.GRPCAddr)
	set(&config.StorageDSN, c.StorageDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.PasswordHashAlgorithm, c.PasswordHashAlgorithm)
	set(&config.LogFormat, c.LogFormat)
	set(&config.LogLevel, c.LogLevel)
	set(&config.S3Region, c.S3Region)
	set(&config.S3AccessKey, c.S3AccessKey)
	set(&config.S3SecretKey, c.S3SecretKey)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}

	return nil
}
