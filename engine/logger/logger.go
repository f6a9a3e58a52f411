// Package logger builds the zap loggers handed to every engine component.
package logger

import (
	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config selects the logger encoding and minimum level.
type Config struct {
	// Level is a zap level name: debug, info, warn, error, dpanic, panic or fatal.
	// Empty means info.
	Level string `yaml:"level"`

	// Development switches to the human readable console encoder with caller and stack traces.
	Development bool `yaml:"development"`
}

// New builds a logger from cfg.
//
// Parameters:
//   - cfg: the logger configuration
//
// Returns:
//   - *zap.Logger: the configured logger
//   - error: error if the level name is unknown or the sinks cannot be opened
func New(cfg Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(common.Coalesce(cfg.Level, "info"))
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", cfg.Level)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level

	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return l, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
