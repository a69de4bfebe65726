package common

import (
	"errors"
	"log/slog"
	"os"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// Exit codes shared by every command.
const (
	ExitFailure     = 1
	ExitConfig      = 2
	ExitDiscrepancy = 3
)

// NewLogger returns the JSON stderr logger used by every command. Quiet
// mode only lets errors through.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// WithComponent tags every record of logger with a component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, apperrors.ErrConfig):
		return ExitConfig
	case errors.Is(err, apperrors.ErrDiscrepancy):
		return ExitDiscrepancy
	default:
		return ExitFailure
	}
}
