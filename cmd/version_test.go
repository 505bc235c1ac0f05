package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagechat/sage/internal/config"
)

func TestProviderKeyVar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		provider string
		want     string
	}{
		{config.ProviderOpenAI, "OPENAI_API_KEY"},
		{config.ProviderGemini, "GEMINI_API_KEY"},
		{config.ProviderGoogleAI, "GEMINI_API_KEY"},
		{config.ProviderOllama, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, providerKeyVar(tt.provider), tt.provider)
	}
}

func TestKeyStatusLine(t *testing.T) {
	t.Run("reports the active provider's key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "sk-test")
		assert.Equal(t, "GEMINI_API_KEY: configured", keyStatusLine(config.ProviderGemini))
	})

	t.Run("missing key is reported as not set", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		assert.Equal(t, "OPENAI_API_KEY: not set", keyStatusLine(config.ProviderOpenAI))
	})

	t.Run("keyless provider produces no line", func(t *testing.T) {
		assert.Empty(t, keyStatusLine(config.ProviderOllama))
	})
}
