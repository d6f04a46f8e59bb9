// Package logging builds the zap logger used by the meter command.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Levels accepted by New.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// New builds a production logger writing to stderr at the given level.
// stdout is left to the text reporter.
func New(level string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}

	switch strings.ToLower(level) {
	case LevelDebug:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case LevelInfo, "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case LevelWarn:
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LevelError:
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}
