package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 全局 log 输出，不能并行

func TestInit_WritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	defer Close()

	LogInfo("room %s created", "ABCD")
	LogError("boom %d", 42)

	assert.Equal(t, filepath.Join(dir, logFileName), GetLogPath())
	data, err := os.ReadFile(GetLogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] room ABCD created")
	assert.Contains(t, string(data), "[ERROR] boom 42")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	LogWarn("slow client %s", "x")
	LogPanic("kaboom")

	out := buf.String()
	assert.Contains(t, out, "[WARN] slow client x")
	assert.Contains(t, out, "[PANIC] kaboom")
	assert.Contains(t, out, "logger_test.go", "caller file recorded")
}
