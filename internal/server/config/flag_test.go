package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:8080", "-g", "127.0.0.1:9090", "-d", "memory://",
				"-s", "secret", "-t", "2h", "-hash", "bcrypt", "-cors", "http://a,http://b",
				"-log-format=text", "-log-level", "debug",
				"-r", "us-west-1", "-u", "user", "-p", "password", "-e", "http://endpoint",
			},
			want: &Config{
				HTTPAddr:              "127.0.0.1:8080",
				GRPCAddr:              "127.0.0.1:9090",
				StorageDSN:            "memory://",
				SecretKey:             "secret",
				TokenValidityDuration: 2 * time.Hour,
				PasswordHashAlgorithm: "bcrypt",
				CORSAllowedOrigins:    []string{"http://a", "http://b"},
				LogFormat:             "text",
				LogLevel:              "debug",
				S3Region:              "us-west-1",
				S3AccessKey:           "user",
				S3SecretKey:           "password",
				S3BaseEndpoint:        "http://endpoint",
			},
		},
		{
			name: "unknown flags ignored",
			args: []string{"-x", "1", "-c", "cfg.json", "-a", ":1234"},
			want: func() *Config { c := defaults(); c.HTTPAddr = ":1234"; return c }(),
		},
		{
			name:    "bad duration",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, cfg))
		})
	}
}
