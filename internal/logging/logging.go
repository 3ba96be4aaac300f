// Package logging builds the zap logger shared by the commands and the TUI.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diogo/docwrangler/internal/config"
)

// ParseLevel maps a config level name to a zap level. Unknown names fall back to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a production JSON logger writing to the log file in the config dir.
// The terminal belongs to the TUI, so nothing is written to stderr.
func New(cfg config.Config) (*zap.Logger, error) {
	if _, err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}
	path, err := config.GetLogPath()
	if err != nil {
		return nil, err
	}
	return NewWithPath(cfg, path)
}

// NewWithPath builds the logger writing to path.
func NewWithPath(cfg config.Config, path string) (*zap.Logger, error) {
	level := ParseLevel(cfg.LogLevel)
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.Sampling = nil

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.Named("docwrangler"), nil
}

// NewOrNop returns New(cfg), or a no-op logger when the log file cannot be opened.
func NewOrNop(cfg config.Config) *zap.Logger {
	logger, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
