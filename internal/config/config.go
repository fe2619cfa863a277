package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

type Config struct {
	CacheCapacity int
	LogLevel      string
	WindowWidth   int
	WindowHeight  int
	InitialPath   string
}

// Load builds the configuration from environment defaults overridden by
// command-line flags. An optional positional argument names the image to
// open on startup.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("ferrite", pflag.ContinueOnError)

	capacity := flags.Int("cache-capacity", getEnvInt("FERRITE_CACHE_CAPACITY", 5), "number of decoded images kept resident")
	logLevel := flags.String("log-level", getEnv("FERRITE_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	width := flags.Int("width", getEnvInt("FERRITE_WINDOW_WIDTH", 1280), "initial window width")
	height := flags.Int("height", getEnvInt("FERRITE_WINDOW_HEIGHT", 720), "initial window height")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		CacheCapacity: *capacity,
		LogLevel:      *logLevel,
		WindowWidth:   *width,
		WindowHeight:  *height,
	}
	if flags.NArg() > 0 {
		cfg.InitialPath = flags.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the viewer cannot run with. A
// non-positive cache capacity must stop startup rather than silently
// degrade to an unbounded or one-slot cache.
func (c *Config) Validate() error {
	if c.CacheCapacity < 1 {
		return fmt.Errorf("cache capacity must be positive, got %d", c.CacheCapacity)
	}
	if c.WindowWidth < 1 || c.WindowHeight < 1 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.WindowWidth, c.WindowHeight)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
