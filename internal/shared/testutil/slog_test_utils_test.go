package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records and attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("file read", slog.String("format", "csv"))
		logger.Error("analysis failed", slog.Int("files", 2))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("file read"))
		assert.True(t, handler.ContainsAttr("format", "csv"))
		assert.True(t, handler.ContainsAttr("files", int64(2)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug")
		logger.Info("info")
		logger.Warn("warn")
		logger.Error("error")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "analyzer")).Info("analysis complete")
		logger.WithGroup("request").Info("served", slog.Int("status", 200))

		AssertLogAttr(t, handler, "component", "analyzer")
		AssertLogAttr(t, handler, "request.status", int64(200))
		assert.Equal(t, 2, handler.Count())
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("one")
		logger.Info("two")
		handler.Clear()

		assert.Zero(t, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("derived columns", slog.String("mode", "flat"))

		AssertLogContains(t, handler, slog.LevelInfo, "derived")
		AssertLogAttr(t, handler, "mode", "flat")
		AssertNoErrors(t, handler)
	})
}
