package providers

import (
	"os"
	"path/filepath"
	"testing"

	"rpd/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggerConfig(dir string, level string) *structures.Config {
	return &structures.Config{
		Logger: structures.LoggerConfig{
			Level: level,
			Mode:  0644,
			Dir:   dir,
		},
	}
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir, "info"))
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof(TypeApp, "app message")
	logger.Infof(TypeHTTP, "http message")
	logger.Infof(TypeReddit, "reddit message")

	for _, name := range []string{"app.log", "http.log", "reddit.log"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestNewLogProvider_RoutesByChannel(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir, "debug"))
	require.NoError(t, err)

	logger.Infof(TypeReddit, "fetched listing page")
	logger.Close()

	content, err := os.ReadFile(filepath.Join(dir, "reddit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "fetched listing page")

	appContent, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(appContent), "fetched listing page")
}

func TestNewLogProvider_LevelFilters(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir, "warn"))
	require.NoError(t, err)

	logger.Debugf(TypeApp, "should be dropped")
	logger.Warnf(TypeApp, "should be written")
	logger.Close()

	content, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "should be dropped")
	assert.Contains(t, string(content), "should be written")
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	_, err := NewLogProvider(loggerConfig("/nonexistent/directory/path", "info"))
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	_, err := NewLogProvider(loggerConfig(t.TempDir(), "verbose"))
	assert.Error(t, err)
}
