// Package logging provides structured logging using bolt.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

// Config configures the logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json or console).
	Format string

	// Output is the output destination. Nil means os.Stderr.
	Output io.Writer
}

// DefaultConfig logs info and above to stderr for people reading test output.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

// Get returns the default logger, initializing it if necessary.
func Get() *bolt.Logger {
	mu.Lock()
	defer mu.Unlock()

	if defaultLogger == nil {
		defaultLogger = New(DefaultConfig())
	}

	return defaultLogger
}

// Init replaces the default logger.
func Init(config Config) {
	logger := New(config)

	mu.Lock()
	defaultLogger = logger
	mu.Unlock()
}

// New creates a logger from config.
func New(config Config) *bolt.Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var handler bolt.Handler
	if config.Format == "json" {
		handler = bolt.NewJSONHandler(output)
	} else {
		handler = bolt.NewConsoleHandler(output)
	}

	return bolt.New(handler).SetLevel(parseLevel(config.Level))
}

// ValidFormat reports whether format names an output format.
func ValidFormat(format string) bool {
	return format == "" || format == "json" || format == "console"
}

// ValidLevel reports whether level names a log level.
func ValidLevel(level string) bool {
	switch level {
	case "", "trace", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // process-wide default logger
	defaultLogger *bolt.Logger
	//nolint:gochecknoglobals // guards defaultLogger
	mu sync.Mutex
)

// parseLevel converts a string level to bolt.Level.
func parseLevel(s string) bolt.Level {
	switch s {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}
