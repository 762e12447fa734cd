package logging

import (
	"strings"

	"go.uber.org/zap"
)

// Logger is a thin sugared-zap wrapper so callers log key-value pairs
// without importing zap directly.
type Logger struct {
	sugar *zap.SugaredLogger
}

func New(mode string) (*Logger, error) {
	var config zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		config = zap.NewProductionConfig()
	default:
		config = zap.NewDevelopmentConfig()
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: zapLogger.Sugar()}, nil
}

// NewNop returns a logger that discards everything; used in tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (logger *Logger) Sync() {
	_ = logger.sugar.Sync()
}

func (logger *Logger) Debug(msg string, keysAndValues ...any) {
	logger.sugar.Debugw(msg, keysAndValues...)
}

func (logger *Logger) Info(msg string, keysAndValues ...any) {
	logger.sugar.Infow(msg, keysAndValues...)
}

func (logger *Logger) Warn(msg string, keysAndValues ...any) {
	logger.sugar.Warnw(msg, keysAndValues...)
}

func (logger *Logger) Error(msg string, keysAndValues ...any) {
	logger.sugar.Errorw(msg, keysAndValues...)
}

func (logger *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{sugar: logger.sugar.With(keysAndValues...)}
}
