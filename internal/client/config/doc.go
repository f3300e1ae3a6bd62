// Package config loads runtime configuration for the GophAuth CLI.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: an optional .env file, then GOPHAUTH_* variables.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags.
//
// Supported flags
//
//	-a string     base URL of the HTTP API (http://127.0.0.1:5000)
//	-g string     host:port of the gRPC endpoint
//	-transport    http or grpc
//	-db string    path of the local session database
//	-timeout      per-request timeout (e.g. 10s)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:5000",
//	  "grpc_endpoint_addr": "127.0.0.1:50051",
//	  "transport": "http",
//	  "session_db_path": "session.db",
//	  "request_timeout": "10s"
//	}
package config
