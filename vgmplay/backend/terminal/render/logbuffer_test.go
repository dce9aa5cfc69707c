package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBuffer_Ring(t *testing.T) {
	lb := NewLogBuffer(3)
	assert.Empty(t, lb.GetRecent(0, slog.LevelDebug))

	for _, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Level: slog.LevelInfo, Message: msg})
	}
	assert.Equal(t, 3, lb.Len())

	got := lb.GetRecent(0, slog.LevelDebug)
	require.Len(t, got, 3)
	assert.Equal(t, "d", got[0].Message, "newest first")
	assert.Equal(t, "b", got[2].Message, "oldest overwritten")

	assert.Len(t, lb.GetRecent(2, slog.LevelDebug), 2)

	lb.Clear()
	assert.Equal(t, 0, lb.Len())
}

func TestLogBuffer_LevelFilter(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Add(LogEntry{Level: slog.LevelDebug, Message: "dbg"})
	lb.Add(LogEntry{Level: slog.LevelWarn, Message: "warn"})
	lb.Add(LogEntry{Level: slog.LevelInfo, Message: "info"})

	got := lb.GetRecent(0, slog.LevelInfo)
	require.Len(t, got, 2)
	assert.Equal(t, "info", got[0].Message)
	assert.Equal(t, "warn", got[1].Message)
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	var level slog.LevelVar
	level.Set(slog.LevelInfo)
	logger := slog.New(NewLogBufferHandler(lb, &level))

	logger.Debug("hidden")
	logger.With("chip", "megadrive").WithGroup("stream").Info("Loaded", "loops", 2)

	got := lb.GetRecent(0, slog.LevelDebug)
	require.Len(t, got, 1)
	assert.Equal(t, "Loaded chip=megadrive stream.loops=2", got[0].Message)

	level.Set(slog.LevelDebug)
	logger.Debug("shown")
	assert.Equal(t, 2, lb.Len())
}

func TestFormatLogEntry(t *testing.T) {
	entry := LogEntry{
		Time:    time.Date(2024, 1, 1, 13, 4, 5, 0, time.UTC),
		Level:   slog.LevelWarn,
		Message: "underrun",
	}
	assert.Equal(t, "13:04:05 [WRN] underrun", FormatLogEntry(entry))
}

func TestMeterAndClock(t *testing.T) {
	assert.Equal(t, "····", Meter(0, 4))
	assert.Equal(t, "████", Meter(1, 4))
	assert.Equal(t, "██··", Meter(0.05, 4), "about -26 dB")
	assert.Empty(t, Meter(1, 0))

	assert.Equal(t, "0:00.00", Clock(0))
	assert.Equal(t, "1:05.50", Clock(65*time.Second+500*time.Millisecond))
}
