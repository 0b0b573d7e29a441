// Package observability wires structured logging and tracing around the HTTP
// surface and exposes adapters the service layer logs through.
package observability

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/madkurv/api/internal/platform/requestctx"
)

// NewLogger builds the process-wide zap logger. Development environments get
// a human-readable console encoder, everything else emits JSON with keys the
// log pipeline expects.
func NewLogger(environment, level string) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
			lvl.SetLevel(zapcore.InfoLevel)
		}
	}

	cfg := zap.Config{
		Level:    lvl,
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:    "message",
			TimeKey:       "timestamp",
			LevelKey:      "severity",
			CallerKey:     "caller",
			StacktraceKey: "stacktrace",
			EncodeTime:    zapcore.RFC3339NanoTimeEncoder,
			EncodeCaller:  zapcore.ShortCallerEncoder,
			EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
				enc.AppendString(strings.ToUpper(l.String()))
			},
		},
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	if environment == "development" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return cfg.Build()
}

// EventLogger adapts a zap logger to the event-style logging callback the
// service layer takes. Fields are emitted in sorted order so log lines stay
// stable across runs, and the trace id is attached when the request was
// traced.
func EventLogger(base *zap.Logger) func(ctx context.Context, event string, fields map[string]any) {
	if base == nil {
		base = zap.NewNop()
	}
	return func(ctx context.Context, event string, fields map[string]any) {
		logger := requestctx.Logger(ctx)
		if logger == requestctx.Logger(nil) {
			logger = base
		}

		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		zf := make([]zap.Field, 0, len(keys)+1)
		for _, k := range keys {
			zf = append(zf, zap.Any(k, fields[k]))
		}
		if traceID := requestctx.TraceID(ctx); traceID != "" {
			zf = append(zf, zap.String("trace_id", traceID))
		}
		logger.Info(event, zf...)
	}
}

// WithFields returns the logger extended with the given fields, tolerating a
// nil base so callers do not have to guard.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.With(fields...)
}
