// Package logging wires a single *zap.SugaredLogger into interpreter,
// registry, and CLI components. Library embedders get a no-op logger by
// default; only the CLI opts into human-readable development output.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Nop returns a logger that discards everything, the default for
// pkg/nuwascript so embedding a host application costs nothing.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// New returns a development-style, human-readable logger at the given
// level ("debug", "info", "warn", "error"). An unrecognised level falls
// back to "info".
func New(level string) *zap.SugaredLogger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return Nop()
	}
	return logger.Sugar()
}
