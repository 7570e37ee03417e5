// Package config loads the server configuration from flags, environment,
// an optional config file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // business day timezones on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mmynk/pokehouse/internal/scheduler"
)

// EnvPrefix prefixes every environment override, e.g. POKE_DB_PATH.
const EnvPrefix = "POKE"

// Config is the resolved server configuration.
type Config struct {
	Addr        string
	DBPath      string
	CatalogPath string // empty means the built-in menu

	LogLevel  slog.Level
	LogFormat string // "text" or "json"

	Location      *time.Location
	ResetSchedule string

	RateLimit float64 // requests per second per customer, 0 disables
	RateBurst int

	MetricsEnabled bool
}

// Load resolves the configuration for the given command-line arguments
// (without the program name). It returns pflag.ErrHelp when -h is passed.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("pokehouse", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.String("env-file", ".env", "dotenv file loaded into the environment when present")
	fs.String("addr", ":8080", "listen address")
	fs.String("db-path", "pokehouse.db", "SQLite database path")
	fs.String("catalog", "", "menu YAML file (built-in menu when empty)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "text", "log format: text or json")
	fs.String("timezone", "Local", "timezone of the business day")
	fs.String("reset-schedule", scheduler.DefaultResetSchedule, "cron schedule of the daily quota reset")
	fs.Float64("rate-limit", 5, "order requests per second per customer (0 disables)")
	fs.Int("rate-burst", 10, "order request burst per customer")
	fs.Bool("metrics", true, "expose Prometheus metrics on /metrics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	envFile, _ := fs.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		Addr:           v.GetString("addr"),
		DBPath:         v.GetString("db-path"),
		CatalogPath:    v.GetString("catalog"),
		LogFormat:      strings.ToLower(v.GetString("log-format")),
		ResetSchedule:  v.GetString("reset-schedule"),
		RateLimit:      v.GetFloat64("rate-limit"),
		RateBurst:      v.GetInt("rate-burst"),
		MetricsEnabled: v.GetBool("metrics"),
	}

	if err := c.LogLevel.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q, want text or json", c.LogFormat)
	}

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	c.Location = loc

	if err := scheduler.ValidateSchedule(c.ResetSchedule); err != nil {
		return nil, err
	}
	if c.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if c.DBPath == "" {
		return nil, errors.New("db-path must not be empty")
	}
	if c.RateLimit < 0 {
		return nil, fmt.Errorf("rate-limit must not be negative, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return nil, fmt.Errorf("rate-burst must be at least 1, got %d", c.RateBurst)
	}
	return c, nil
}
