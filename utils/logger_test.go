package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_DebugFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(CloseLogger)

	require.NoError(t, InitLogger(dir, true))
	LogDebug("reconcile %s", "ok")
	LogInfo("started")
	CloseLogger()

	debugLog, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)
	assert.Contains(t, string(debugLog), "reconcile ok")
	assert.Contains(t, string(debugLog), "logger_test.go")

	infoLog, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(infoLog), "started")
}

func TestInitLogger_DebugDisabled(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(CloseLogger)

	require.NoError(t, InitLogger(dir, false))
	LogDebug("hidden")
	CloseLogger()

	_, err := os.Stat(filepath.Join(dir, "debug.log"))
	assert.True(t, os.IsNotExist(err))
}
