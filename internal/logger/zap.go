package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger emits one structured record per message, for machine readable
// output with --log-format json.
type ZapLogger struct {
	log *zap.Logger
}

// NewZapLogger builds a JSON logger writing to stderr.
func NewZapLogger(verbose bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &ZapLogger{log: l}, nil
}

// NewZapLoggerFrom wraps an existing zap logger.
func NewZapLoggerFrom(l *zap.Logger) *ZapLogger {
	return &ZapLogger{log: l}
}

func (z *ZapLogger) Logf(format string, args ...interface{}) {
	z.Log(fmt.Sprintf(format, args...))
}

func (z *ZapLogger) Log(msg string) {
	msg = strings.TrimRight(msg, "\n")
	if msg == "" {
		return
	}
	z.log.Info(msg)
}

// With returns a logger that adds fields to every record.
func (z *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{log: z.log.With(fields...)}
}

// Sync flushes buffered records.
func (z *ZapLogger) Sync() error {
	return z.log.Sync()
}
