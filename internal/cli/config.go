package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/roach88/filterql/internal/filterir"
	"github.com/roach88/filterql/internal/querysql"
	"github.com/roach88/filterql/internal/store"
)

// Config holds settings read from .filterql.yaml, FILTERQL_* environment
// variables and .env files.
type Config struct {
	MaxDepth     int
	DefaultLimit int
	MaxLimit     int
	Database     string
	Driver       string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:     filterir.DefaultMaxDepth,
		DefaultLimit: querysql.DefaultLimit,
		Driver:       store.DriverSQLite,
	}
}

// LoadConfig loads configuration. With an explicit path that file must
// exist; otherwise .filterql.yaml is searched in the working directory and
// $HOME and skipped when absent. Environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	if err := loadDotenv(".env", ".env.local"); err != nil {
		return nil, err
	}

	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("default_limit", def.DefaultLimit)
	v.SetDefault("max_limit", def.MaxLimit)
	v.SetDefault("database", def.Database)
	v.SetDefault("driver", def.Driver)

	v.SetEnvPrefix("FILTERQL")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".filterql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		MaxDepth:     v.GetInt("max_depth"),
		DefaultLimit: v.GetInt("default_limit"),
		MaxLimit:     v.GetInt("max_limit"),
		Database:     v.GetString("database"),
		Driver:       v.GetString("driver"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotenv loads the first file into the environment without overriding
// existing variables; later files override earlier ones. Missing files are
// skipped.
func loadDotenv(base string, overrides ...string) error {
	if _, err := os.Stat(base); err == nil {
		if err := godotenv.Load(base); err != nil {
			return fmt.Errorf("load %s: %w", base, err)
		}
	}
	for _, path := range overrides {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < 0 {
		return fmt.Errorf("max_limit must not be negative, got %d", c.MaxLimit)
	}
	switch c.Driver {
	case store.DriverSQLite, "sqlite", store.DriverMySQL:
	default:
		return fmt.Errorf("driver must be %s or %s, got %q", store.DriverSQLite, store.DriverMySQL, c.Driver)
	}
	return nil
}

// CompilerOptions converts the config into compiler options.
func (c *Config) CompilerOptions(logger *slog.Logger) []querysql.Option {
	return []querysql.Option{
		querysql.WithMaxDepth(c.MaxDepth),
		querysql.WithDefaultLimit(c.DefaultLimit),
		querysql.WithMaxLimit(c.MaxLimit),
		querysql.WithLogger(logger),
	}
}
