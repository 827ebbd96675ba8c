package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NOOPLogger discards everything. Handy as a default and in tests.
var NOOPLogger = zap.NewNop().Sugar()

// New builds a logger for appEnv. "local" gets a colored console encoder,
// everything else JSON. An unknown level falls back to info.
func New(appEnv, level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if appEnv == "local" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().With("app_env", appEnv), nil
}
