// Package config holds run settings for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for the reference workload.
const (
	DefaultRow   int64 = 2_000_000
	DefaultBound int64 = 4_000_000
)

// Environment variables read by ApplyEnv.
const (
	EnvInput   = "BEACONSCAN_INPUT"
	EnvRow     = "BEACONSCAN_ROW"
	EnvBound   = "BEACONSCAN_BOUND"
	EnvWorkers = "BEACONSCAN_WORKERS"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the scalar settings of a run.
type Config struct {
	// Input is the sensor report file.
	Input string `yaml:"input"`

	// Row is the designated row for the exclusion count.
	Row int64 `yaml:"row"`

	// Bound is the inclusive upper limit of the square search domain.
	Bound int64 `yaml:"bound"`

	// Workers bounds search parallelism. Zero means one per CPU.
	Workers int `yaml:"workers"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Row:   DefaultRow,
		Bound: DefaultBound,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. Values in envFile, if
// given, are used for variables the process environment does not set.
func (c *Config) ApplyEnv(envFile string) error {
	fileVals := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		if err != nil {
			return fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
		fileVals = vals
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}

	if v, ok := lookup(EnvInput); ok {
		c.Input = v
	}
	if v, ok := lookup(EnvRow); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRow, err)
		}
		c.Row = n
	}
	if v, ok := lookup(EnvBound); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBound, err)
		}
		c.Bound = n
	}
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.Bound < 0 {
		return fmt.Errorf("%w: bound must be >= 0, got %d", ErrInvalidConfig, c.Bound)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
