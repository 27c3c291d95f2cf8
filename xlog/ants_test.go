package xlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAntsXLogger_ParentLogLevelChanged(t *testing.T) {
	var logger *AntsXLogger = nil
	logger.Printf("test %d", 123)

	w := &testMemOutWriter{}
	parentLogger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(JSON),
		WithXLoggerWriter(w),
	)
	logger = NewAntsXLogger(parentLogger)
	logger.Printf("worker panic %d", 123)
	_ = parentLogger.Sync()

	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "Ants", lines[0]["component"])
	require.Equal(t, "ERROR", lines[0]["lvl"])
	require.Equal(t, "worker panic 123", lines[0]["msg"])
	require.NotContains(t, lines[0], "callAt")
}
