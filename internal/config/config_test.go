package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, "*", cfg.AllowOrigins)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 25, cfg.PromptPhaseSeconds)
	assert.Equal(t, 35, cfg.AnswerPhaseSeconds)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("CORS_ORIGINS", "https://example.com")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("PROMPT_PHASE_SECONDS", "10")
	t.Setenv("ANSWER_PHASE_SECONDS", "20")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "https://example.com", cfg.AllowOrigins)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 10, cfg.PromptPhaseSeconds)
	assert.Equal(t, 20, cfg.AnswerPhaseSeconds)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("PROMPT_PHASE_SECONDS", "soon")

	_, err := Load()
	require.Error(t, err)
}
