package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"comment-service/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level slog.Level) *bytes.Buffer {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	logger.SetLogger(slog.New(handler))
	return &buf
}

func TestLogger_Info(t *testing.T) {
	buf := newTestLogger(slog.LevelInfo)

	logger.Info("test message",
		slog.String("key", "value"),
		slog.Int("count", 42),
	)

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key")
	assert.Contains(t, output, "value")
	assert.Contains(t, output, "42")
}

func TestLogger_Error(t *testing.T) {
	buf := newTestLogger(slog.LevelError)

	logger.Error("error occurred",
		slog.String("error", "test error"),
	)

	output := buf.String()
	assert.Contains(t, output, "error occurred")
	assert.Contains(t, output, "test error")
}

func TestLogger_InfoContext(t *testing.T) {
	buf := newTestLogger(slog.LevelInfo)

	logger.InfoContext(context.Background(), "context message",
		slog.String("key", "value"),
	)

	output := buf.String()
	assert.Contains(t, output, "context message")
	assert.Contains(t, output, "value")
}

func TestLogger_WithRequestID(t *testing.T) {
	buf := newTestLogger(slog.LevelInfo)

	reqLogger := logger.WithRequestID("req-123")
	reqLogger.Info("processing request")

	output := buf.String()
	assert.Contains(t, output, "processing request")
	assert.Contains(t, output, "request_id")
	assert.Contains(t, output, "req-123")
}

func TestLogger_WithComponent(t *testing.T) {
	buf := newTestLogger(slog.LevelInfo)

	sweeperLogger := logger.WithComponent("sweeper")
	sweeperLogger.Info("sweep complete")

	output := buf.String()
	assert.Contains(t, output, "sweep complete")
	assert.Contains(t, output, "component")
	assert.Contains(t, output, "sweeper")
}

func TestLogger_Default(t *testing.T) {
	require.NotNil(t, logger.Default())
}
