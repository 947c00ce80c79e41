package brain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"moltbot/internal/core/domain"
	"moltbot/internal/core/ports"
)

type modelConfig struct {
	Name string
	RPM  int
	RPD  int
}

// GeminiBrain is the alternate decision backend. It walks a list of
// models in preference order, skipping any that has exhausted its
// client-side per-minute or per-day request budget.
type GeminiBrain struct {
	Client *genai.Client
	Models []modelConfig

	dailyCount   map[string]int
	minuteCount  map[string]int
	lastResetDay time.Time
	lastResetMin time.Time
	mu           sync.Mutex

	log *zap.SugaredLogger
}

func NewGeminiBrain(ctx context.Context, apiKey string, logger *zap.SugaredLogger) (*GeminiBrain, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if logger == nil {
		logger = zap.S()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiBrain{
		Client: client,
		Models: []modelConfig{
			{Name: "gemini-2.5-flash", RPM: 10, RPD: 250},
			{Name: "gemini-2.5-flash-lite", RPM: 15, RPD: 1000},
		},
		dailyCount:   make(map[string]int),
		minuteCount:  make(map[string]int),
		lastResetDay: time.Now(),
		lastResetMin: time.Now(),
		log:          logger.With("brain", "gemini"),
	}, nil
}

// Ensure implementation
var _ ports.Brain = (*GeminiBrain)(nil)

// Decide implements ports.Brain
func (b *GeminiBrain) Decide(ctx context.Context, dc domain.DecisionContext) ([]domain.Action, error) {
	prompt := SystemPrompt + "\n\n" + decisionPrompt(dc)
	raw, err := b.tryGenerateWithFallback(ctx, prompt)
	if err != nil {
		return nil, &domain.DecisionError{Provider: "gemini", Err: err}
	}

	actions, err := ParseActions(raw)
	if err != nil {
		b.log.Warnw("discarding unparseable decision", "error", err, "raw", truncate(raw, 300))
		return []domain.Action{}, nil
	}
	return actions, nil
}

// Report implements ports.Brain
func (b *GeminiBrain) Report(ctx context.Context, posts []domain.Post, results []domain.ActionResult) (string, error) {
	prompt := reportSystemPrompt + "\n\n" + reportPrompt(posts, results)
	text, err := b.tryGenerateWithFallback(ctx, prompt)
	if err != nil {
		return "", &domain.DecisionError{Provider: "gemini", Err: err}
	}
	return text, nil
}

func (b *GeminiBrain) tryGenerateWithFallback(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, cfg := range b.Models {
		if !b.canUseModel(cfg) {
			continue
		}

		result, err := b.Client.Models.GenerateContent(ctx, cfg.Name, genai.Text(prompt), nil)
		if err != nil {
			errStr := strings.ToLower(err.Error())
			if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") ||
				strings.Contains(errStr, "exhausted") || strings.Contains(errStr, "not found") {
				lastErr = err
				continue
			}
			return "", err
		}

		if result != nil && len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
			b.recordUsage(cfg)
			return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
		}
	}

	return "", fmt.Errorf("all models unavailable: %v", lastErr)
}

func (b *GeminiBrain) canUseModel(cfg modelConfig) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	if now.YearDay() != b.lastResetDay.YearDay() {
		b.dailyCount = make(map[string]int)
		b.lastResetDay = now
	}
	if now.Sub(b.lastResetMin) >= time.Minute {
		b.minuteCount = make(map[string]int)
		b.lastResetMin = now
	}
	if b.dailyCount[cfg.Name] >= cfg.RPD {
		return false
	}
	if b.minuteCount[cfg.Name] >= cfg.RPM {
		return false
	}
	return true
}

func (b *GeminiBrain) recordUsage(cfg modelConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dailyCount[cfg.Name]++
	b.minuteCount[cfg.Name]++
}
