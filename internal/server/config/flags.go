package config

import (
	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags overlays config with command-line flags.
//
//	-a string     HTTP bind address (e.g. ":5000")
//	-g string     gRPC bind address (e.g. ":50051")
//	-d string     storage DSN
//	-s string     JWT HMAC secret key
//	-t duration   token validity, 0 disables expiry
//	-hash string  password hash algorithm: argon2id or bcrypt
//	-cors string  comma-separated allowed CORS origins
//	-log-format   json, text or console
//	-log-level    debug, info, warn or error
//	-r -u -p -e   S3 region, access key, secret key and base endpoint
func parseFlags(config *Config, args []string) error {
	fs, filtered := flagx.NewFlagSet("server", args, []string{
		"-a", "-g", "-d", "-s", "-t", "-hash", "-cors",
		"-log-format", "-log-level", "-r", "-u", "-p", "-e",
	})

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port to run server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port to run server")
	fs.StringVar(&config.StorageDSN, "d", config.StorageDSN, "storage DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity duration, 0 for no expiry")
	fs.StringVar(&config.PasswordHashAlgorithm, "hash", config.PasswordHashAlgorithm, "password hash algorithm")
	cors := fs.String("cors", "", "comma-separated allowed CORS origins")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	if *cors != "" {
		config.CORSAllowedOrigins = splitList(*cors)
	}
	return nil
}
