package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.deepseek.com", cfg.DeepSeek.BaseURL)
	assert.Equal(t, "deepseek-chat", cfg.DeepSeek.Model)
	assert.InDelta(t, 1.0, cfg.DeepSeek.RateRPS, 0.001)
	assert.Equal(t, 2, cfg.DeepSeek.RateBurst)
	assert.Equal(t, "https://api.nexar.com/graphql", cfg.Nexar.APIURL)
	assert.Equal(t, "https://identity.nexar.com/connect/token", cfg.Nexar.TokenURL)
	assert.False(t, cfg.Recommend.DemoData)
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
deepseek:
  key: sk-test
  model: deepseek-reasoner
nexar:
  client_id: abc
  client_secret: def
batch:
  workers: 4
server:
  port: 9090
log:
  level: debug
  format: console
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.DeepSeek.Key)
	assert.Equal(t, "deepseek-reasoner", cfg.DeepSeek.Model)
	assert.Equal(t, "abc", cfg.Nexar.ClientID)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// defaults still apply for untouched keys
	assert.Equal(t, "https://api.deepseek.com", cfg.DeepSeek.BaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	chtemp(t)
	t.Setenv("SUB_DEEPSEEK_KEY", "sk-env")
	t.Setenv("SUB_BATCH_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.DeepSeek.Key)
	assert.Equal(t, 8, cfg.Batch.Workers)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
