package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func mapLookup(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	want := &Config{
		ServerEndpointAddr: "http://127.0.0.1:5000",
		GRPCEndpointAddr:   "127.0.0.1:50051",
		Transport:          TransportHTTP,
		SessionDBPath:      "session.db",
		RequestTimeout:     10 * time.Second,
	}
	assert.Empty(t, cmp.Diff(want, defaults()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"grpc", func(c *Config) { c.Transport = TransportGRPC }, false},
		{"bad transport", func(c *Config) { c.Transport = "carrier-pigeon" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"no db", func(c *Config) { c.SessionDBPath = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseEnv(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseEnv(cfg, mapLookup(map[string]string{
		"GOPHAUTH_TRANSPORT":       "grpc",
		"GOPHAUTH_SESSION_DB_PATH": "/tmp/s.db",
		"GOPHAUTH_REQUEST_TIMEOUT": "3s",
	})))

	assert.Equal(t, TransportGRPC, cfg.Transport)
	assert.Equal(t, "/tmp/s.db", cfg.SessionDBPath)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.ServerEndpointAddr)

	assert.Error(t, parseEnv(defaults(), mapLookup(map[string]string{"GOPHAUTH_REQUEST_TIMEOUT": "soon"})))
}

func TestParseJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_endpoint_addr": "https://auth.example.com",
		"request_timeout": "30s"
	}`), 0o600))

	cfg := defaults()
	require.NoError(t, parseJson(cfg, path))
	assert.Equal(t, "https://auth.example.com", cfg.ServerEndpointAddr)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, TransportHTTP, cfg.Transport)

	assert.NoError(t, parseJson(cfg, ""))
	assert.Error(t, parseJson(cfg, filepath.Join(t.TempDir(), "missing.json")))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://10.0.0.1:5000", "-g", "10.0.0.1:6000", "-transport", "grpc", "-db", "x.db", "-timeout", "2s"},
			expected: &Config{
				ServerEndpointAddr: "http://10.0.0.1:5000",
				GRPCEndpointAddr:   "10.0.0.1:6000",
				Transport:          TransportGRPC,
				SessionDBPath:      "x.db",
				RequestTimeout:     2 * time.Second,
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-c", "conf.json", "-verbose"},
			expected: defaults(),
		},
		{
			name:    "bad duration",
			args:    []string{"-timeout", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"transport":"grpc","session_db_path":"json.db"}`), 0o600))
	t.Setenv("GOPHAUTH_SESSION_DB_PATH", "env.db")
	t.Setenv("GOPHAUTH_GRPC_ENDPOINT_ADDR", "env:1")

	cfg, err := LoadConfig([]string{"-c", path, "-db", "flag.db"})
	require.NoError(t, err)

	assert.Equal(t, TransportGRPC, cfg.Transport)
	assert.Equal(t, "flag.db", cfg.SessionDBPath)
	assert.Equal(t, "env:1", cfg.GRPCEndpointAddr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig([]string{"-transport", "smoke"})
	assert.Error(t, err)
}
