package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWebhooks_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webhooks.yaml")
	content := "webhooks:\n  wh_sinistros_criar: /sinistros/criar/\n  WH_TERCEIROS: terceiros\n  WH_SINISTRO_CLOSE: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("WH_TERCEIROS", "terceiros-v2")

	paths, err := loadWebhooks(path)
	require.NoError(t, err)

	assert.Equal(t, "sinistros/criar", paths["WH_SINISTROS_CRIAR"])
	assert.Equal(t, "terceiros-v2", paths["WH_TERCEIROS"])
	_, ok := paths["WH_SINISTRO_CLOSE"]
	assert.False(t, ok)
}

func TestLoadWebhooks_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("webhooks: [oops"), 0o600))

	_, err := loadWebhooks(path)
	assert.Error(t, err)
}

func TestLoadWebhooks_NoFile(t *testing.T) {
	paths, err := loadWebhooks("")
	require.NoError(t, err)
	assert.NotContains(t, paths, "WH_RELATORIO_GERAR_MENSAL")
}
