// Package zap logs cascade attempt events with go.uber.org/zap.
package zap

import (
	"fmt"
	"strings"

	"github.com/fwojciec/cascade"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventHandler returns a handler for [cascade.WithEventHandler] that writes
// one entry per event. Starts log at debug, successes at info, recoverable
// failures at warn and authentication failures at error.
func EventHandler(logger *zap.Logger) func(cascade.Event) {
	return func(e cascade.Event) {
		switch ev := e.(type) {
		case cascade.EventAttemptStart:
			logger.Debug("attempt started",
				zap.Int("attempt", ev.Attempt),
				zap.Int("total", ev.Total),
				zap.String("backend", ev.Backend.ID),
				zap.String("display_name", ev.Backend.DisplayName),
			)
		case cascade.EventAttemptSuccess:
			logger.Info("attempt succeeded",
				zap.Int("attempt", ev.Attempt),
				zap.Int("total", ev.Total),
				zap.String("backend", ev.Backend.ID),
				zap.Duration("duration", ev.Duration),
			)
		case cascade.EventAttemptFailure:
			fields := []zap.Field{
				zap.Int("attempt", ev.Record.Index),
				zap.Int("total", ev.Total),
				zap.String("backend", ev.Record.BackendID),
				zap.Stringer("class", ev.Record.Class),
				zap.String("message", ev.Record.Message),
				zap.Duration("duration", ev.Record.Duration),
			}
			if ev.Record.StatusCode != 0 {
				fields = append(fields, zap.Int("status", ev.Record.StatusCode))
			}
			if ev.Record.Class.Recoverable() {
				logger.Warn("attempt failed", fields...)
			} else {
				logger.Error("attempt failed, aborting cascade", fields...)
			}
		}
	}
}

// NewLogger builds a logger for the given level name. "debug" selects the
// development config; every other level uses the production (JSON) config.
func NewLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	case "info", "":
		lvl = zapcore.InfoLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q (expected debug, info, warn, or error)", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
