package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/pokehouse/internal/scheduler"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load([]string{"--env-file", ""})
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "pokehouse.db", c.DBPath)
	assert.Empty(t, c.CatalogPath)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, scheduler.DefaultResetSchedule, c.ResetSchedule)
	assert.Equal(t, 5.0, c.RateLimit)
	assert.Equal(t, 10, c.RateBurst)
	assert.True(t, c.MetricsEnabled)
	assert.NotNil(t, c.Location)
}

func TestLoadPrecedence(t *testing.T) {
	configPath := writeFile(t, "pokehouse.yaml", `
addr: ":7000"
db-path: /var/lib/poke/file.db
log-level: debug
timezone: Europe/Berlin
rate-burst: 3
`)
	t.Setenv("POKE_DB_PATH", "/tmp/env.db")
	t.Setenv("POKE_LOG_LEVEL", "warn")

	c, err := Load([]string{"--env-file", "", "--config", configPath, "--log-level", "error"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.Addr, "file beats default")
	assert.Equal(t, "/tmp/env.db", c.DBPath, "env beats file")
	assert.Equal(t, slog.LevelError, c.LogLevel, "flag beats env")
	assert.Equal(t, "Europe/Berlin", c.Location.String())
	assert.Equal(t, 3, c.RateBurst)
}

func TestLoadDotEnv(t *testing.T) {
	envPath := writeFile(t, ".env", "POKE_ADDR=:9999\nPOKE_METRICS=false\n")
	t.Cleanup(func() {
		os.Unsetenv("POKE_ADDR")
		os.Unsetenv("POKE_METRICS")
	})

	c, err := Load([]string{"--env-file", envPath})
	require.NoError(t, err)
	assert.Equal(t, ":9999", c.Addr)
	assert.False(t, c.MetricsEnabled)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env")})
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad log level", []string{"--log-level", "loud"}},
		{"bad log format", []string{"--log-format", "xml"}},
		{"bad timezone", []string{"--timezone", "Mars/Olympus"}},
		{"bad schedule", []string{"--reset-schedule", "at midnight"}},
		{"negative rate", []string{"--rate-limit", "-1"}},
		{"zero burst", []string{"--rate-burst", "0"}},
		{"missing config file", []string{"--config", "/nonexistent/pokehouse.yaml"}},
		{"unknown flag", []string{"--colour", "blue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(append([]string{"--env-file", ""}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestLoadHelp(t *testing.T) {
	_, err := Load([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
