// Package log provides the process-wide structured logger.
package log

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Format selects how log lines are rendered.
type Format string

const (
	Pretty Format = "pretty"
	JSON   Format = "json"
)

var ErrUnsupportedFormat = fmt.Errorf("unsupported log format. supported 'json', 'pretty'")

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)

// SetLevelString sets the global log level from its string name.
func SetLevelString(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	logger = logger.Level(l)
	return nil
}

// SetFormat switches between machine-readable JSON and a human console writer.
func SetFormat(format string) error {
	switch Format(format) {
	case JSON, "":
	case Pretty:
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "3:04PM"})
	default:
		return ErrUnsupportedFormat
	}
	return nil
}

func Trace() *zerolog.Event { return logger.Trace() }
func Debug() *zerolog.Event { return logger.Debug() }
func Info() *zerolog.Event  { return logger.Info() }
func Warn() *zerolog.Event  { return logger.Warn() }
func Error() *zerolog.Event { return logger.Error() }
func Fatal() *zerolog.Event { return logger.Fatal() }
