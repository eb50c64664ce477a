package app

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNewLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String(), "info is below the warn threshold")

	logger.Warn("kept")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestNewLoggerDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	newLogger("info", "text", &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
