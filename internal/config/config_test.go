package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLMModel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "45")
	t.Setenv("PLACE_CACHE_TTL", "2m")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	assert.Equal(t, 45*time.Second, cfg.AITimeout)
	assert.Equal(t, 2*time.Minute, cfg.PlaceCacheTTL)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "g-key", cfg.LLMAPIKey)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}
