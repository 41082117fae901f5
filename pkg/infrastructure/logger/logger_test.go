package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(level LogLevel, json bool) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&Config{Level: level, Output: &buf, JSON: json, TimeFormat: "15:04:05"}), &buf
}

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expected := NewLogger(TestConfig())
		ctx := ContextWithLogger(context.Background(), expected)
		assert.Equal(t, expected, FromContext(ctx))
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerCtxKey, "not a logger")
		require.NotNil(t, FromContext(ctx))
	})
}

func TestParseLevel(t *testing.T) {
	t.Run("Should accept known levels case-insensitively", func(t *testing.T) {
		level, err := ParseLevel(" WARN ")
		require.NoError(t, err)
		assert.Equal(t, WarnLevel, level)
	})

	t.Run("Should reject unknown levels", func(t *testing.T) {
		_, err := ParseLevel("verbose")
		assert.Error(t, err)
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected int
	}{
		{DebugLevel, -4},
		{InfoLevel, 0},
		{WarnLevel, 4},
		{ErrorLevel, 8},
		{DisabledLevel, 1000},
		{LogLevel("unknown"), 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, int(tc.level.ToCharmlogLevel()), "level %s", tc.level)
	}
}

func TestLogger(t *testing.T) {
	t.Run("Should respect log level filtering", func(t *testing.T) {
		l, buf := bufferLogger(WarnLevel, false)
		l.Debug("debug message")
		l.Info("info message")
		l.Warn("warn message")
		l.Error("error message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})

	t.Run("Should carry fields added with With", func(t *testing.T) {
		l, buf := bufferLogger(InfoLevel, true)
		l.With("lot_code", "BL000001").Info("status changed", "to", "QUEUED")

		out := buf.String()
		assert.Contains(t, out, `"lot_code":"BL000001"`)
		assert.Contains(t, out, `"to":"QUEUED"`)
		assert.Contains(t, out, "status changed")
	})

	t.Run("Should write nothing when disabled", func(t *testing.T) {
		l, buf := bufferLogger(DisabledLevel, false)
		l.Error("error message")
		assert.Empty(t, buf.String())
	})
}
