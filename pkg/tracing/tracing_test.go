package tracing

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSpan_NoTracer(t *testing.T) {
	SetTracer(nil)
	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()

	assert.Nil(t, GetActiveSpan(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup("willow-test", &buf)
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "matching.Engine.Rank")
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "matching.Engine.Rank")
	assert.Nil(t, GetActiveSpan(context.Background()))
}

func TestNewOTLPExporter(t *testing.T) {
	tests := []struct {
		name     string
		protocol string
		wantErr  bool
	}{
		{name: "grpc", protocol: "grpc"},
		{name: "http", protocol: "http"},
		{name: "unsupported", protocol: "carrier-pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultOTLPConfig()
			config.Protocol = tt.protocol

			exporter, err := NewOTLPExporter(context.Background(), config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported OTLP protocol")
				return
			}
			require.NoError(t, err)
			require.NotNil(t, exporter)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = exporter.Shutdown(ctx)
		})
	}
}

func TestSetupOTLP_UnsupportedProtocol(t *testing.T) {
	config := DefaultOTLPConfig()
	config.Protocol = "smoke-signal"

	shutdown, err := SetupOTLP(context.Background(), "willow-test", config)
	require.Error(t, err)
	assert.Nil(t, shutdown)
}
