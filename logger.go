package main

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the application logger. It starts as a no-op so tests and library
// calls never need to initialize it.
var Log = zap.NewNop()

// parseLevel maps a config level name to a zap level, defaulting to info
func parseLevel(name string) zapcore.Level {
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

// InitLogger builds the global logger from the logging config. JSON output is
// meant for server deployments, console output for local use.
func InitLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	level := parseLevel(cfg.Level)

	if cfg.JSON {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.MessageKey = "message"
		zapConfig.InitialFields = map[string]interface{}{
			"service": appName,
		}
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		zapConfig.DisableStacktrace = level > zapcore.DebugLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	Log = logger
	return logger, nil
}
