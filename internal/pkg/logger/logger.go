package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New creates a Logger backed by a production zap core writing to stdout.
func New() Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Config above is static; Build only fails on bad output paths.
		z = zap.NewNop()
	}
	return &zapLogger{sugar: z.Sugar()}
}

// NewWithZap wraps an existing zap logger. Used by tests to inject
// zap.NewDevelopment or a nop core.
func NewWithZap(z *zap.Logger) Logger {
	return &zapLogger{sugar: z.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *zapLogger) Error(msg string, err error) {
	l.sugar.Errorw(msg, "error", err)
}

func (l *zapLogger) Warn(msg string) {
	l.sugar.Warn(msg)
}

func (l *zapLogger) Info(msg string) {
	l.sugar.Info(msg)
}

func (l *zapLogger) Debug(msg string) {
	l.sugar.Debug(msg)
}
