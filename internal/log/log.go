package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger = zap.NewNop()
	mu     sync.RWMutex
)

// Init replaces the package logger. dev switches to the human readable console encoder.
// An unknown level falls back to info and is reported as a warning.
func Init(level string, dev bool, opts ...zap.Option) error {
	lvl, parseErr := zapcore.ParseLevel(level)
	if parseErr != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build(opts...)
	if err != nil {
		return err
	}
	Set(l)
	if parseErr != nil {
		l.Warn("unknown log level, using info", zap.String("level", level), zap.Error(parseErr))
	}
	return nil
}

// Set installs l as the package logger, tests use it with zaptest/observer.
func Set(l *zap.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

func Sync() {
	_ = L().Sync()
}
