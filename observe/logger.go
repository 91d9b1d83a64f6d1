package observe

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a production JSON logger at the given level
// (debug, info, warn, error). An empty level means info.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	return cfg.Build()
}

// NewDevelopmentLogger builds a console logger for local runs.
func NewDevelopmentLogger(level string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// ParseLevel parses a level string. Empty defaults to info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("observe: unknown log level %q", level)
	}
}

// Sensitive field keys whose values never reach the log stream.
var redactedKeys = map[string]bool{
	"input":      true,
	"inputs":     true,
	"prompt":     true,
	"password":   true,
	"secret":     true,
	"token":      true,
	"api_key":    true,
	"credential": true,
}

// Field returns a zap field for key/value, replacing the value with a
// placeholder when the key names a credential or payload.
func Field(key string, value any) zap.Field {
	if redactedKeys[key] {
		return zap.String(key, "[REDACTED]")
	}
	return zap.Any(key, value)
}
