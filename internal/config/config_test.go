package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, 384, cfg.EmbedDimension)
	assert.Equal(t, 5, cfg.MaxAgentTurns)
	assert.Equal(t, 20*time.Second, cfg.ChatTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SMARTNOTES_STORE", "surreal")
	t.Setenv("SMARTNOTES_MAX_AGENT_TURNS", "3")
	t.Setenv("SMARTNOTES_CHAT_TIMEOUT", "5s")
	t.Setenv("SMARTNOTES_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, StoreSurreal, cfg.StoreBackend)
	assert.Equal(t, 3, cfg.MaxAgentTurns)
	assert.Equal(t, 5*time.Second, cfg.ChatTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SMARTNOTES_MAX_AGENT_TURNS", "lots")
	t.Setenv("SMARTNOTES_CHAT_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 5, cfg.MaxAgentTurns)
	assert.Equal(t, 20*time.Second, cfg.ChatTimeout)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.StoreBackend = "postgres"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Provider = ProviderOpenAI
	bad.OpenAIAPIKey = ""
	assert.Error(t, bad.Validate())

	bad.OpenAIAPIKey = "sk-test"
	assert.NoError(t, bad.Validate())
}
