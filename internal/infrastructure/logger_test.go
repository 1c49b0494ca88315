package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdensity/internal/config"
)

// lastEntry decodes the final JSON line of a log stream
func lastEntry(t *testing.T, content []byte) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLoggerWritesJSONFile(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("density computed", "num_u", 128)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := lastEntry(t, content)
	assert.Equal(t, "density computed", entry["msg"])
	assert.Equal(t, float64(128), entry["num_u"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestInitializeLoggerOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())
}

func TestInitializeLoggerBadPath(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := InitializeLogger(config.LoggingConfig{
		Output:   "file",
		FilePath: filepath.Join(blocker, "app.log"),
	})
	assert.Error(t, err)
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "debug")

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.InfoContext(ctx, "with trace")

	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "trace-123", entry["trace_id"])

	buf.Reset()
	logger.InfoContext(context.Background(), "without trace")
	assert.NotContains(t, lastEntry(t, buf.Bytes()), "trace_id")
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
		infoShown  bool
		warnShown  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"warning", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(&buf, tt.level)

			logger.Debug("d")
			assert.Equal(t, tt.debugShown, buf.Len() > 0, "debug")
			buf.Reset()

			logger.Info("i")
			assert.Equal(t, tt.infoShown, buf.Len() > 0, "info")
			buf.Reset()

			logger.Warn("w")
			assert.Equal(t, tt.warnShown, buf.Len() > 0, "warn")
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.NotEmpty(t, traceID)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)))
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "info")

	WithComponent(logger, "density_service").Info("component test")
	assert.Equal(t, "density_service", lastEntry(t, buf.Bytes())["component"])

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("error test")
	assert.Contains(t, lastEntry(t, buf.Bytes())["error"], "file does not exist")

	assert.Same(t, logger, WithError(logger, nil))
}

func TestLoggerWithContext(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var buf bytes.Buffer
	globalLogger = NewLoggerWithWriter(&buf, "info")

	ctx := WithTraceID(context.Background(), "req-42")
	LoggerWithContext(ctx).InfoContext(ctx, "scoped")

	assert.Equal(t, "req-42", lastEntry(t, buf.Bytes())["trace_id"])
	assert.Equal(t, 1, strings.Count(buf.String(), `"trace_id"`))
}

func TestLoggerWithContextPrefersRequestLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var global, scoped bytes.Buffer
	globalLogger = NewLoggerWithWriter(&global, "info")

	ctx := WithTraceID(context.Background(), "req-7")
	ctx = ContextWithLogger(ctx, slog.New(slog.NewJSONHandler(&scoped, nil)))
	LoggerWithContext(ctx).Info("handled")

	assert.Zero(t, global.Len())
	entry := lastEntry(t, scoped.Bytes())
	assert.Equal(t, "handled", entry["msg"])
	assert.Equal(t, "req-7", entry["trace_id"])
}

func TestContextLogger(t *testing.T) {
	_, ok := ContextLogger(context.Background())
	assert.False(t, ok)

	_, ok = ContextLogger(ContextWithLogger(context.Background(), nil))
	assert.False(t, ok)

	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	got, ok := ContextLogger(ContextWithLogger(context.Background(), logger))
	require.True(t, ok)
	assert.Same(t, logger, got)
}
