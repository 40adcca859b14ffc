package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestPrepareLogFileCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	path, err := prepareLogFile(dir, "cms.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cms.log"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPrepareLogFileRejectsPathInFilename(t *testing.T) {
	_, err := prepareLogFile(t.TempDir(), "../escape.log")
	assert.Error(t, err)
}

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{MaxBackups: 3}.withDefaults()
	assert.Equal(t, "logs", got.Dir)
	assert.Equal(t, "app.log", got.Filename)
	assert.Equal(t, 100, got.MaxSizeMB)
	assert.Equal(t, 3, got.MaxBackups)
	assert.Equal(t, 30, got.MaxAgeDays)
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("", true)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	level, err = parseLevel(" WARN ", false)
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	level, err = parseLevel("loud", false)
	assert.Error(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)
}

func TestNewReleaseWritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "release.log"})
	log.Sugar().Infow("revision_recorded", "post_id", "p-1", "version", 2)
	log.Sugar().Debugw("hidden_below_info")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "release.log"))
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, `"message":"revision_recorded"`)
	assert.Contains(t, text, `"post_id":"p-1"`)
	assert.Contains(t, text, `"app":"inkpress"`)
	assert.NotContains(t, text, "hidden_below_info")
}

func TestNewReleaseHonoursLevel(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "warn.log", Level: "warn"})
	log.Info("preview_issued")
	log.Warn("preview_rejected")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "warn.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "preview_issued")
	assert.Contains(t, string(content), "preview_rejected")
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	dir := t.TempDir()
	log := New("DEBUG", Options{Dir: dir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	_, err := os.Stat(filepath.Join(dir, "debug.log"))
	assert.True(t, os.IsNotExist(err))
}
