package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moltbot/internal/core/domain"
)

func validConfig() Config {
	return Config{
		MoltbookAPIKey: "mb-key",
		TelegramToken:  "tg-token",
		TelegramChatID: "12345",
		Provider:       ProviderGroq,
		GroqAPIKey:     "gq-key",
		Interval:       time.Hour,
	}
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateMissingGroqKey(t *testing.T) {
	cfg := validConfig()
	cfg.GroqAPIKey = ""

	err := cfg.Validate()
	require.Error(t, err)

	var cerr *domain.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"GROQ_API_KEY"}, cerr.Missing)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestValidateListsEveryMissingVar(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)

	var cerr *domain.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"MOLTBOOK_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "GROQ_API_KEY"}, cerr.Missing)
}

func TestValidateGeminiProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Provider = ProviderGemini
	cfg.GroqAPIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg.GeminiAPIKey = "gm-key"
	require.NoError(t, cfg.Validate())
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Provider = "ouija"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ouija")
}
