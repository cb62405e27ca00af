package boundary

import (
	"io"
	"os"
	"strings"
)

// Environment variables read once when the shared library loads.
const (
	EnvSignScheme = "PQCBRIDGE_SIGN_SCHEME"
	EnvKEMScheme  = "PQCBRIDGE_KEM_SCHEME"
	EnvLogLevel   = "PQCBRIDGE_LOG_LEVEL"
	EnvLogFormat  = "PQCBRIDGE_LOG_FORMAT"
)

// DefaultLogLevel keeps a host process's stderr quiet unless asked otherwise.
const DefaultLogLevel = "warn"

// Config selects the schemes and logging of a Bridge.
type Config struct {
	SignatureScheme string
	KEMScheme       string
	LogLevel        string
	LogJSON         bool
	Output          io.Writer
}

// ConfigFromEnv builds a Config from lookup, normally os.Getenv.
func ConfigFromEnv(lookup func(string) string) Config {
	cfg := Config{
		SignatureScheme: lookup(EnvSignScheme),
		KEMScheme:       lookup(EnvKEMScheme),
		LogLevel:        lookup(EnvLogLevel),
		LogJSON:         strings.EqualFold(lookup(EnvLogFormat), "json"),
		Output:          os.Stderr,
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return cfg
}
