package xlog

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/infra"
)

type testMemOutWriter struct {
	mu   sync.Mutex
	data bytes.Buffer
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.Write(p)
}

func (w *testMemOutWriter) lines(t *testing.T) []map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	res := make([]map[string]any, 0, 8)
	for _, line := range bytes.Split(bytes.TrimSpace(w.data.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, jsoniter.Unmarshal(line, &m))
		res = append(res, m)
	}
	return res
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestGetLogLevelOrDefault(t *testing.T) {
	testcases := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.want, getLogLevelOrDefault(tc.in))
	}
}

func TestXLogger_JSONOutput(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(
		WithXLoggerWriter(w),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
		WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
	)
	require.Equal(t, "debug", logger.Level())

	logger.Debug("insert", zap.Int64("key", 5))
	logger.Info("release", zap.Int64("size", 7))
	logger.Warn("malformed line", zap.Int("line", 3))
	logger.Error(errors.New("boom"), "failed")
	logger.Logf(zapcore.InfoLevel, "tree %s", "avl")

	logger.IncreaseLogLevel(zapcore.WarnLevel)
	logger.Debug("filtered")
	logger.Info("filtered")
	require.Equal(t, "warn", logger.Level())
	_ = logger.Sync()

	lines := w.lines(t)
	require.Len(t, lines, 5)
	require.Equal(t, "DEBUG", lines[0]["lvl"])
	require.Equal(t, "insert", lines[0]["msg"])
	require.Equal(t, float64(5), lines[0]["key"])
	require.Contains(t, lines[0]["callAt"], "xlog_test.go")
	require.Equal(t, "boom", lines[3]["error"])
	require.Equal(t, "tree avl", lines[4]["msg"])
}

func TestXLogger_ErrorStack(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(WithXLoggerWriter(w), WithXLoggerLevel(LogLevelDebug))

	logger.ErrorStack(infra.NewErrorStack("corrupted"), "validate")
	logger.ErrorStack(errors.New("plain"), "validate")
	logger.ErrorStack(nil, "nothing")
	_ = logger.Sync()

	lines := w.lines(t)
	require.Len(t, lines, 3)
	require.Equal(t, "corrupted", lines[0]["error"])
	frames, ok := lines[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
	require.Equal(t, "plain", lines[1]["error"])
	require.NotContains(t, lines[2], "error")
}

func TestXLogger_ContextFields(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(
		WithXLoggerWriter(w),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerContextFieldExtract("traceId"),
		WithXLoggerContextFieldExtract("strategy", "treeStrategy"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
		WithXLoggerContextFieldExtract(""),
	)

	ctx := context.WithValue(context.Background(), "strategy", "splay")
	ctx = context.WithValue(ctx, "secret", "xxx")
	logger.InfoContext(ctx, "ctx")
	logger.ErrorContext(ctx, errors.New("e"), "ctx err")
	_ = logger.Sync()

	lines := w.lines(t)
	require.Len(t, lines, 2)
	require.Equal(t, "splay", lines[0]["treeStrategy"])
	require.Equal(t, "nil", lines[0]["traceId"])
	require.NotContains(t, lines[0], "secret")
	require.Equal(t, "e", lines[1]["error"])
}

func TestXLogger_Named(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(WithXLoggerWriter(w), WithXLoggerLevel(LogLevelInfo))
	child := logger.Named("avl")
	child.Info("rebalanced")
	child.Debug("filtered")
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	child.Debug("visible")
	_ = logger.Sync()

	lines := w.lines(t)
	require.Len(t, lines, 2)
	require.Equal(t, "avl", lines[0]["component"])
	require.Equal(t, "visible", lines[1]["msg"])
}

func TestXLogger_BadOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(nil))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.NotPanics(t, func() {
		NewXLogger(nil, WithXLoggerEncoder(PlainText), WithXLoggerStdErrWriter())
	})
}
