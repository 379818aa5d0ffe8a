package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anoobzg/livekeys/logging"
)

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", logging.LogLevelDebug.String())
	assert.Equal(t, "INFO", logging.LogLevelInfo.String())
	assert.Equal(t, "WARN", logging.LogLevelWarn.String())
	assert.Equal(t, "ERROR", logging.LogLevelError.String())
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewLogger(logging.LogLevelWarn, "text", &buf)

	log.Debug("hidden", "k", "v")
	log.Info("hidden too")
	log.Warn("shown", "k", "v")
	log.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "also shown")
}

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewLogger(logging.LogLevelInfo, "json", &buf)
	log.Info("message", "key", "value")

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "{"), "expected JSON output, got %q", line)
	assert.Contains(t, line, `"key":"value"`)
}

func TestNoOpLoggerIsSilent(t *testing.T) {
	log := logging.NoOpLogger{}
	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")
}
