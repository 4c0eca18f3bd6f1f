package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotator_UsesConfig(t *testing.T) {
	cfg := AppConfig{
		Name:          "bioskop",
		LogPath:       "/var/log/bioskop",
		LogMaxSizeMB:  50,
		LogMaxBackups: 3,
		LogMaxAgeDays: 14,
		LogCompress:   false,
	}

	r := newRotator(cfg)

	assert.Equal(t, "/var/log/bioskop/bioskop.log", r.Filename)
	assert.Equal(t, 50, r.MaxSize)
	assert.Equal(t, 3, r.MaxBackups)
	assert.Equal(t, 14, r.MaxAge)
	assert.False(t, r.Compress)
}

func TestNewRotator_DefaultName(t *testing.T) {
	r := newRotator(AppConfig{LogPath: "logs"})

	assert.Equal(t, filepath.Join("logs", "cinema-ticketing.log"), r.Filename)
}

func TestInitLogger_WritesToLogPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	logger, err := InitLogger(AppConfig{Name: "bioskop", LogPath: dir, LogMaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "bioskop.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"app":"bioskop"`)
}
