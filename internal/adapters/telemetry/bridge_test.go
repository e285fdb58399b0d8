package telemetry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/keep/internal/adapters/telemetry"
	"go.trai.ch/keep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	var logged string
	mockLogger.EXPECT().Info(gomock.Any()).Do(func(msg string) { logged = msg }).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(mockLogger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := telemetry.NewOTelTracerFrom(tp, "test").Start(context.Background(), "batch.blob")
	span.SetAttribute("keys", 2)
	span.End()

	assert.True(t, strings.HasPrefix(logged, "span batch.blob took"), logged)
	assert.Contains(t, logged, "(keys=2)")
}

func TestLogBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(mockLogger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "mutation")
	span.SetStatus(codes.Error, "")
	span.End()
}

func TestLogBridge_OnEndWithNilLogger(_ *testing.T) {
	bridge := telemetry.NewLogBridge(nil)

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "test-span")
	span.End()

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok {
		bridge.OnEnd(roSpan)
	}
}

func TestLogBridge_FlushAndShutdown(t *testing.T) {
	bridge := telemetry.NewLogBridge(nil)

	assert.NoError(t, bridge.ForceFlush(context.Background()))
	assert.NoError(t, bridge.Shutdown(context.Background()))
}
