package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/timex"
)

type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	GRPCEndpointAddr   string          `json:"grpc_endpoint_addr"`
	Transport          string          `json:"transport"`
	SessionDBPath      string          `json:"session_db_path"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

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

	if c.ServerEndpointAddr != "" {
		config.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.GRPCEndpointAddr != "" {
		config.GRPCEndpointAddr = c.GRPCEndpointAddr
	}
	if c.Transport != "" {
		config.Transport = c.Transport
	}
	if c.SessionDBPath != "" {
		config.SessionDBPath = c.SessionDBPath
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}

	return nil
}
