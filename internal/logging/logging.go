// Package logging configures the process-wide slog logger for the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dusted-go/logging/prettylog"
)

// Log output formats.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatPretty  = "pretty"
	FormatDiscard = "discard"
)

var logLevel *slog.LevelVar

// Init installs the default slog logger with the given level
// (debug|info|warn|error) and format.
func Init(level, format string) error {
	logLevel = new(slog.LevelVar)

	var logger *slog.Logger
	switch format {
	case FormatText:
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	case FormatJSON:
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	case FormatPretty:
		logger = slog.New(prettylog.NewHandler(&slog.HandlerOptions{Level: logLevel}))
	case FormatDiscard:
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: logLevel}))
	default:
		return fmt.Errorf("log format %q not known", format)
	}
	slog.SetDefault(logger)
	return SetLevel(level)
}

// SetLevel changes the level of the installed logger.
func SetLevel(level string) error {
	switch level {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		return fmt.Errorf("log level %q not known", level)
	}
	return nil
}
