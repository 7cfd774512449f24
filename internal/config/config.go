// Package config loads impspec settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toejough/impspec/internal/logging"
)

// DefaultFile is the settings file looked for in the working directory.
const DefaultFile = "impspec.yml"

// Exported errors.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid config")
)

// Config is the content of an impspec.yml file.
type Config struct {
	Log LogConfig `yaml:"log"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	defaults := logging.DefaultConfig()

	return &Config{Log: LogConfig{Level: defaults.Level, Format: defaults.Format}}
}

// Logging converts the log section into a logging configuration writing to output.
func (c *Config) Logging(output io.Writer) logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: output,
	}
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}

	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}

// LogConfig selects how method calls are logged.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Loader reads Config from files or readers.
type Loader struct {
	// ExpandEnv enables ${VAR} expansion before parsing.
	ExpandEnv bool
}

// NewLoader creates a loader. Environment expansion is on by default.
func NewLoader(opts ...LoaderOption) *Loader {
	loader := &Loader{ExpandEnv: true}
	for _, opt := range opts {
		opt(loader)
	}

	return loader
}

// Load parses settings from r. Missing keys keep their defaults.
func (l *Loader) Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	content := string(data)
	if l.ExpandEnv {
		content = os.ExpandEnv(content)
	}

	config := Default()

	err = yaml.Unmarshal([]byte(content), config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFile parses settings from the file at path.
func (l *Loader) LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config, err := l.Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment variable expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.ExpandEnv = enabled
	}
}
