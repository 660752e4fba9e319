package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewTraceID(t *testing.T) {
	id1 := NewTraceID()
	id2 := NewTraceID()

	if id1 == "" {
		t.Error("NewTraceID returned empty string")
	}

	if id1 == id2 {
		t.Error("NewTraceID returned duplicate IDs")
	}
}

func TestWithTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "test-trace-id")

	if got := GetTraceID(ctx); got != "test-trace-id" {
		t.Errorf("Expected trace ID test-trace-id, got %s", got)
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "42")

	if got := GetRequestID(ctx); got != "42" {
		t.Errorf("Expected request ID 42, got %s", got)
	}
}

func TestWithTransport(t *testing.T) {
	ctx := WithTransport(context.Background(), "stdio")

	if got := GetTransport(ctx); got != "stdio" {
		t.Errorf("Expected transport stdio, got %s", got)
	}
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()

	if GetTraceID(ctx) != "" || GetRequestID(ctx) != "" || GetTransport(ctx) != "" {
		t.Error("Expected empty values from empty context")
	}
}

func TestFromContext(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "trace")
	ctx = WithRequestID(ctx, "req")
	ctx = WithTransport(ctx, "http")

	tc := FromContext(ctx)
	if tc.TraceID != "trace" || tc.RequestID != "req" || tc.Transport != "http" {
		t.Errorf("Unexpected trace context: %+v", tc)
	}
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background())

	if GetTraceID(ctx) == "" {
		t.Error("NewRequestContext did not set a trace ID")
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithTraceID(context.Background(), "trace-123")
	ctx = WithTransport(ctx, "ws")

	logger := LoggerFromContext(ctx, base)
	logger.Info().Msg("hello")

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte(`"trace_id":"trace-123"`)) {
		t.Errorf("Expected trace_id in log output, got %s", out)
	}
	if !bytes.Contains([]byte(out), []byte(`"transport":"ws"`)) {
		t.Errorf("Expected transport in log output, got %s", out)
	}
	if bytes.Contains([]byte(out), []byte(`request_id`)) {
		t.Errorf("Did not expect request_id in log output, got %s", out)
	}
}
