// Package config loads server and CLI settings.
//
// Settings are layered: built-in defaults, then an optional TOML file, then a
// .env file, then the process environment. A variable set in the environment
// wins over the same variable in .env.
//
//	[server]
//	addr = ":8080"
//
//	[storage]
//	backend = "sqlite"          # sqlite | file | memory
//	path = "./data/academy.db"  # sqlite database
//	dir = "./data/ledger"       # file backend directory
//	key = "paymentHistory"
//	quota = "5MB"               # empty = unlimited
//	roster_file = ""            # roster export for the file and memory backends
//
//	[log]
//	level = "info"
//	format = "text"             # text | json
//
//	[metrics]
//	enabled = true
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

type StorageConfig struct {
	Backend    string `toml:"backend" validate:"oneof=sqlite file memory"`
	Path       string `toml:"path" validate:"required_if=Backend sqlite"`
	Dir        string `toml:"dir" validate:"required_if=Backend file"`
	Key        string `toml:"key" validate:"required"`
	Quota      string `toml:"quota"`
	RosterFile string `toml:"roster_file"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    "./data/academy.db",
			Dir:     "./data/ledger",
			Key:     "paymentHistory",
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load builds the configuration. path names an optional TOML file; envFiles
// default to ".env". Missing .env files are skipped.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			slog.Warn("Unknown config key", "file", path, "key", key.String())
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	dotenv := map[string]string{}
	for _, f := range envFiles {
		values, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No .env file found, using environment variables", "file", f)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		for k, v := range values {
			dotenv[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("ACADEMYPAY_ADDR", &c.Server.Addr)
	str("ACADEMYPAY_STORAGE", &c.Storage.Backend)
	str("ACADEMYPAY_DB_PATH", &c.Storage.Path)
	str("ACADEMYPAY_DATA_DIR", &c.Storage.Dir)
	str("ACADEMYPAY_LEDGER_KEY", &c.Storage.Key)
	str("ACADEMYPAY_QUOTA", &c.Storage.Quota)
	str("ACADEMYPAY_ROSTER_FILE", &c.Storage.RosterFile)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("ACADEMYPAY_METRICS"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ACADEMYPAY_METRICS %q: %w", v, err)
		}
		c.Metrics.Enabled = enabled
	}
	return nil
}

var validate = validator.New()

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	c.Log.Format = strings.ToLower(c.Log.Format)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", describe(err))
	}
	if _, err := c.Storage.QuotaBytes(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// describe turns validator output into "storage.backend ..." messages.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s %q must be one of: %s", field, fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// QuotaBytes parses Quota ("5MB", "512KiB", "1048576"). Empty means no limit.
func (s StorageConfig) QuotaBytes() (int64, error) {
	if strings.TrimSpace(s.Quota) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s.Quota)
	if err != nil {
		return 0, fmt.Errorf("invalid storage.quota %q: %w", s.Quota, err)
	}
	return int64(n), nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
