package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "creditdensity/internal/errors"
)

// writeConfigFile writes a YAML config into a temp dir and returns its path
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadFile tests configuration loading with various scenarios
func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
				assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.AllowCredentials)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, 0, cfg.Density.Workers)
				assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.Density.MaxBodyBytes)
				assert.Equal(t, 65536, cfg.Density.MaxNumU)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
  request_timeout: 2m
density:
  workers: 4
logging:
  level: debug
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 2*time.Minute, cfg.Server.RequestTimeout)
				assert.Equal(t, 4, cfg.Density.Workers)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched values keep their defaults
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "env overrides file",
			file: `
server:
  port: 9090
density:
  workers: 4
`,
			env: map[string]string{
				"CREDIT_SERVER_PORT":              "7070",
				"CREDIT_SECURITY_ALLOWED_ORIGINS": "https://a.example.com,https://b.example.com",
				"CREDIT_TELEMETRY_ENABLE_TRACING": "true",
				"CREDIT_TELEMETRY_TRACE_EXPORTER": "stdout",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 4, cfg.Density.Workers)
				assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Telemetry.EnableTracing)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "numU cap from env",
			env:  map[string]string{"CREDIT_DENSITY_MAX_NUM_U": "4096"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 4096, cfg.Density.MaxNumU)
			},
		},
		{
			name:    "zero numU cap",
			file:    "density:\n  max_num_u: 0\n",
			wantErr: true,
		},
		{
			name: "unknown log output falls back to console",
			env:  map[string]string{"CREDIT_LOGGING_OUTPUT": "syslog"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"CREDIT_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"CREDIT_DENSITY_WORKERS": "many"},
			wantErr: true,
		},
		{
			name:    "negative workers",
			file:    "density:\n  workers: -2\n",
			wantErr: true,
		},
		{
			name:    "sample ratio out of range",
			env:     map[string]string{"CREDIT_TELEMETRY_SAMPLE_RATIO": "1.5"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [port",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr {
				var appErr *apierrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

// TestLoadUsesExplicitConfigFile tests that CREDIT_CONFIG_FILE is honoured
func TestLoadUsesExplicitConfigFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 6060\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

// TestLoadMissingExplicitFile tests that a missing explicit file is an error
func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Context["file"], "missing.yaml")
}

// TestDefaultIsValid tests that the defaults pass validation unchanged
func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, Default(), cfg)
}
