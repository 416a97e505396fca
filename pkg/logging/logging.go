// Package logging builds the application logger.
package logging

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"

	"github.com/Ramsey-B/willow/pkg/tracing"
)

// NewLogger returns a zap backed logger at the given level.
// Pretty selects the human readable development encoder.
func NewLogger(level string, pretty bool) (ectologger.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapConfig := zap.NewProductionConfig()
	if pretty {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = atomicLevel
	zapConfig.OutputPaths = []string{"stderr"}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}

// Discard returns a logger that drops every message.
func Discard() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// WithTrace scopes logger to ctx and tags it with the active trace_id, if any.
func WithTrace(ctx context.Context, logger ectologger.Logger) ectologger.Logger {
	log := logger.WithContext(ctx)
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		log = log.WithField("trace_id", traceID)
	}
	return log
}
