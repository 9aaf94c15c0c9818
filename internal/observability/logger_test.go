// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/veilcroft/pagelens/internal/config"
)

func initBuffered(t *testing.T, cfg config.LoggerConfig) *bytes.Buffer {
	t.Helper()
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))
	return &buf
}

func TestInitializeConsoleColors(t *testing.T) {
	buf := initBuffered(t, config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "lens-test",
		Colors:      config.ColorConfig{Info: "green"},
	})

	GetLogger().Info("console message")

	output := buf.String()
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, "console message")
	assert.Contains(t, output, colorGreen)
	assert.Contains(t, output, colorReset)
	assert.Contains(t, output, "lens-test.")
}

func TestInitializeJSONFormat(t *testing.T) {
	buf := initBuffered(t, config.LoggerConfig{
		Level:       "info",
		Format:      "json",
		ServiceName: "lens-json",
	})

	GetLogger().Warn("structured message", zap.String("page", "cart"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output should be valid JSON")
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "lens-json", entry["logger"])
	assert.Equal(t, "structured message", entry["msg"])
	assert.Equal(t, "cart", entry["page"])
}

func TestInitializeFileSink(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "pagelens.log")
	initBuffered(t, config.LoggerConfig{
		Level:   "debug",
		Format:  "console",
		LogFile: logFile,
		MaxSize: 1,
	})

	GetLogger().Error("this should hit the file")
	_ = GetLogger().Sync()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "this should hit the file")
}

func TestInitializeOnlyOnce(t *testing.T) {
	buf := initBuffered(t, config.LoggerConfig{
		Level:       "info",
		Format:      "console",
		ServiceName: "first",
	})
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "second",
	}, zapcore.AddSync(&bytes.Buffer{}))

	GetLogger().Info("after reinit attempt")

	// The console encoder suffixes the logger name, so the winning config's
	// service name shows up as a "first." prefix.
	assert.Contains(t, buf.String(), "first.")
	assert.NotContains(t, buf.String(), "second")
}

func TestInitializeBadLevelFallsBackToInfo(t *testing.T) {
	buf := initBuffered(t, config.LoggerConfig{
		Level:  "shouting",
		Format: "console",
	})

	GetLogger().Debug("should be filtered")
	GetLogger().Info("should appear")

	assert.NotContains(t, buf.String(), "should be filtered")
	assert.Contains(t, buf.String(), "should appear")
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	// The nop fallback must swallow writes without panicking.
	logger.Info("into the void")
}
