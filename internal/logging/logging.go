// Package logging builds the zerolog logger used by the command line tool.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures New.
type Options struct {
	Level  string
	Format string
	// File adds a rotated log file next to Out when set.
	File string
	// Out defaults to os.Stderr.
	Out io.Writer
}

// ParseLevel accepts DEBUG, INFO, WARN and ERROR, in any case.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "", "INFO":
		return zerolog.InfoLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger and a closer for its file sink. An invalid level falls
// back to INFO and is reported through the returned logger.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var console io.Writer
	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	case FormatJSON:
		console = out
	default:
		return zerolog.Nop(), nil, fmt.Errorf("unknown log format %q (expected %s or %s)", opts.Format, FormatConsole, FormatJSON)
	}

	var closer io.Closer = nopCloser{}
	w := console
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		closer = file
		w = zerolog.MultiLevelWriter(console, file)
	}

	level, levelErr := ParseLevel(opts.Level)
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if levelErr != nil {
		logger.Warn().Str("level", opts.Level).Err(levelErr).Msg("invalid log level, defaulting to INFO")
	}
	return logger, closer, nil
}
