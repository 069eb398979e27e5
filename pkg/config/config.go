// Package config loads the optional bindtree.yaml file and turns it into
// registry, evaluator and logger settings.
//
//	locale: de-DE
//	timezone: Europe/Berlin
//	dates:
//	  input: "yyyy-MM-dd HH:mm:ss"
//	  output: "d. MMMM yyyy"
//	  lenient: true
//	cache:
//	  enabled: true
//	  size: 512
//	extensions: [string, numeric]
//	log:
//	  level: debug
//	  format: json
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/ext"
	"github.com/sandrolain/bindtree/pkg/functions"
)

// FileName is the conventional name of the configuration file.
const FileName = "bindtree.yaml"

// Config is the content of the configuration file. Every field is optional.
type Config struct {
	Locale     string      `yaml:"locale,omitempty"`
	Timezone   string      `yaml:"timezone,omitempty"`
	Dates      DateConfig  `yaml:"dates,omitempty"`
	Cache      CacheConfig `yaml:"cache,omitempty"`
	Extensions []string    `yaml:"extensions,omitempty"`
	Log        LogConfig   `yaml:"log,omitempty"`
}

// DateConfig holds the defaults of the date function.
type DateConfig struct {
	Input   string `yaml:"input,omitempty"`
	Output  string `yaml:"output,omitempty"`
	Lenient bool   `yaml:"lenient,omitempty"`
}

// CacheConfig controls the compiled binding cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	Size    int  `yaml:"size,omitempty"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOptional is Load, except that a missing file yields an empty Config.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Parse decodes configuration YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Location returns the configured time zone, UTC when unset.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// Level returns the configured log level, info when unset.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	name := strings.TrimSpace(c.Log.Level)
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Logger builds a logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", c.Log.Format)
	}
}

// RegistryOptions maps the configuration onto registry options.
func (c *Config) RegistryOptions() ([]functions.Option, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	opts := []functions.Option{
		functions.WithDatePatterns(c.Dates.Output, c.Dates.Input),
		functions.WithLenientDates(c.Dates.Lenient),
		functions.WithLocation(loc),
	}
	if locale := strings.TrimSpace(c.Locale); locale != "" {
		opts = append(opts, functions.WithLocale(locale))
	}
	if len(c.Extensions) > 0 {
		fns, err := ext.Packs(c.Extensions...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, functions.WithFunctions(fns...))
	}
	return opts, nil
}

// EvalOptions maps the configuration onto evaluator options: a registry
// built from RegistryOptions, the cache settings and logger.
func (c *Config) EvalOptions(logger *slog.Logger) ([]evaluator.EvalOption, error) {
	regOpts, err := c.RegistryOptions()
	if err != nil {
		return nil, err
	}

	opts := []evaluator.EvalOption{
		evaluator.WithRegistry(functions.NewRegistry(regOpts...)),
		evaluator.WithCaching(c.Cache.Enabled),
	}
	if c.Cache.Size > 0 {
		opts = append(opts, evaluator.WithCacheSize(c.Cache.Size))
	}
	if logger != nil {
		opts = append(opts,
			evaluator.WithLogger(logger),
			evaluator.WithDebug(logger.Enabled(context.Background(), slog.LevelDebug)))
	}
	return opts, nil
}

// Evaluator builds an evaluator from the configuration.
func (c *Config) Evaluator(logger *slog.Logger) (*evaluator.Evaluator, error) {
	opts, err := c.EvalOptions(logger)
	if err != nil {
		return nil, err
	}
	return evaluator.New(opts...), nil
}
