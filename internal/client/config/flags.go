package config

import (
	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

func parseFlags(cfg *Config, args []string) error {
	fs, filtered := flagx.NewFlagSet("client", args, []string{"-a", "-g", "-transport", "-db", "-timeout"})

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the HTTP API")
	fs.StringVar(&cfg.GRPCEndpointAddr, "g", cfg.GRPCEndpointAddr, "address and port of the gRPC endpoint")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport: http or grpc")
	fs.StringVar(&cfg.SessionDBPath, "db", cfg.SessionDBPath, "path of the local session database")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")

	return fs.Parse(filtered)
}
