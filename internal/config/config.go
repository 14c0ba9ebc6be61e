// Package config resolves runtime settings from flags, PROGRAMHUB_* environment
// variables, an optional config file and a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PROGRAMHUB"

// Keys understood by Load. Flags bound through Load use the same names.
const (
	KeyDB             = "db"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyLogUseCases    = "log.use_cases"
	KeyMetricsAddr    = "metrics.addr"
	KeyMetricsRefresh = "metrics.refresh"
	KeyTimezone       = "timezone"
)

// Log controls the process logger.
type Log struct {
	Level    string
	Format   string // text | json
	UseCases bool
}

// Metrics controls the metrics listener started by `serve`. Refresh is how
// often it recomputes program status for the point gauges.
type Metrics struct {
	Addr    string
	Refresh time.Duration
}

// Config is the resolved configuration.
type Config struct {
	DB       string
	Log      Log
	Metrics  Metrics
	Timezone string

	// File is the config file that was read, empty when none was found.
	File string
}

// Load resolves the configuration. Precedence, highest first: changed flags in
// flags, PROGRAMHUB_* environment (a .env file in the working directory is
// loaded first), the config file, built-in defaults.
//
// An explicit cfgFile must exist. Without one, programhub.yaml is looked up in
// the working directory and ~/.programhub and silently skipped when absent.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("programhub")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".programhub"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDB, defaultDBPath())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogUseCases, false)
	v.SetDefault(KeyMetricsAddr, ":9464")
	v.SetDefault(KeyMetricsRefresh, time.Minute)
	v.SetDefault(KeyTimezone, "")

	if flags != nil {
		for _, key := range []string{KeyDB, KeyLogLevel, KeyLogFormat, KeyLogUseCases, KeyMetricsAddr, KeyMetricsRefresh, KeyTimezone} {
			if f := flags.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", f.Name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DB: v.GetString(KeyDB),
		Log: Log{
			Level:    strings.ToLower(v.GetString(KeyLogLevel)),
			Format:   strings.ToLower(v.GetString(KeyLogFormat)),
			UseCases: v.GetBool(KeyLogUseCases),
		},
		Metrics: Metrics{
			Addr:    v.GetString(KeyMetricsAddr),
			Refresh: v.GetDuration(KeyMetricsRefresh),
		},
		Timezone: v.GetString(KeyTimezone),
		File:     v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagName maps a config key to its command-line flag: "log.use_cases" is
// --log-use-cases.
func flagName(key string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(key)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "programhub.db"
	}
	return filepath.Join(home, ".programhub", "programhub.db")
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB) == "" {
		return fmt.Errorf("db path is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q must be text or json", c.Log.Format)
	}
	if c.Metrics.Refresh <= 0 {
		return fmt.Errorf("metrics refresh %s must be positive", c.Metrics.Refresh)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Log.Level (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// Location resolves Timezone. An empty value is the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RegisterFlags adds the configuration flags to fs. Values only take effect
// when the flag is set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(flagName(KeyDB), "", "SQLite database path")
	fs.String(flagName(KeyLogLevel), "info", "log level (debug|info|warn|error)")
	fs.String(flagName(KeyLogFormat), "text", "log format (text|json)")
	fs.Bool(flagName(KeyLogUseCases), false, "log every use case")
	fs.String(flagName(KeyMetricsAddr), ":9464", "metrics listen address")
	fs.Duration(flagName(KeyMetricsRefresh), time.Minute, "how often serve recomputes program metrics")
	fs.String(flagName(KeyTimezone), "", "IANA timezone used for the current month")
}
