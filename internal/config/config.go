package config

import (
	"fmt"
	"time"

	"moltbot/internal/core/domain"
)

// Brain provider identifiers.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config is the process configuration, read once at startup and handed
// by value into the constructors. There are no ambient globals; anything
// a component needs arrives through here.
type Config struct {
	MoltbookAPIKey  string
	MoltbookBaseURL string

	TelegramToken  string
	TelegramChatID string

	Provider     string
	GroqAPIKey   string
	GroqAPIURL   string
	GroqModel    string
	GeminiAPIKey string

	Interval       time.Duration
	FetchLimit     int
	ThreadLimit    int
	RequestTimeout time.Duration
	MaxRetries     int

	MetricsListen string
}

// Validate checks every required variable and reports all of the missing
// ones at once, so a misconfigured deployment fails a single time with
// the complete list.
func (c Config) Validate() error {
	var missing []string

	if c.MoltbookAPIKey == "" {
		missing = append(missing, "MOLTBOOK_API_KEY")
	}
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.TelegramChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}

	switch c.Provider {
	case ProviderGroq, "":
		if c.GroqAPIKey == "" {
			missing = append(missing, "GROQ_API_KEY")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown brain provider %q (want %s or %s)", c.Provider, ProviderGroq, ProviderGemini)
	}

	if len(missing) > 0 {
		return &domain.ConfigError{Missing: missing}
	}
	return nil
}
