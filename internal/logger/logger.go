// Package logger builds the zerolog loggers used by the pqcbridge commands and
// the shared library.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	// DefaultLevel is used when no level, or an unparsable one, is configured.
	DefaultLevel = "info"

	consoleTimeFormat = time.RFC3339
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFunc = utcNow
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// Config describes where and how to log.
type Config struct {
	// MinLevel is one of trace, debug, info, warn, error, fatal, panic, disabled.
	MinLevel string
	// JSON writes one JSON object per line instead of the console format.
	JSON bool
	// NoColor disables ANSI colours in console output.
	NoColor bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Create returns a logger for cfg. A nil cfg logs at info level to stderr.
// An unparsable level falls back to info and is reported once on the logger.
func Create(cfg *Config) *zerolog.Logger {
	if cfg == nil {
		cfg = &Config{MinLevel: DefaultLevel}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if !cfg.JSON {
		w = consoleWriter(out, cfg.NoColor)
	}

	level, levelErr := parseLevel(cfg.MinLevel)
	log := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if levelErr != nil {
		log.Error().Msgf("Failed to parse log level %q, using %q instead", cfg.MinLevel, level)
	}
	return &log
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		s = DefaultLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, err
	}
	if level == zerolog.NoLevel {
		return zerolog.InfoLevel, nil
	}
	return level, nil
}

func consoleWriter(out io.Writer, noColor bool) io.Writer {
	if f, ok := out.(*os.File); ok {
		return zerolog.ConsoleWriter{
			Out:        colorable.NewColorable(f),
			NoColor:    noColor || !term.IsTerminal(int(f.Fd())),
			TimeFormat: consoleTimeFormat,
		}
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: consoleTimeFormat,
	}
}
