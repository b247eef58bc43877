package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. InitLogger must run before anything uses it;
// the zap.NewNop default keeps tests that never call InitLogger from panicking.
var Log = zap.NewNop()

// InitLogger builds the zap logger from GO_ENV and LOG_LEVEL
func InitLogger() {
	env := GetEnv("GO_ENV", "development")
	level := GetEnv("LOG_LEVEL", "info")

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	Log = logger
}
