package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"moltbot/internal/core/domain"
	"moltbot/internal/core/ports"
)

const DefaultGroqURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqBrain drives decisions through an OpenAI-compatible chat
// completions endpoint. It is the default backend.
type GroqBrain struct {
	APIURL     string
	APIKey     string
	Model      string
	HTTPClient *http.Client

	log *zap.SugaredLogger
}

func NewGroqBrain(apiURL, apiKey, model string, httpClient *http.Client, logger *zap.SugaredLogger) *GroqBrain {
	if apiURL == "" {
		apiURL = DefaultGroqURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.S()
	}
	return &GroqBrain{
		APIURL:     apiURL,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: httpClient,
		log:        logger.With("brain", "groq", "model", model),
	}
}

// Ensure implementation
var _ ports.Brain = (*GroqBrain)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (b *GroqBrain) ask(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: b.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+b.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errRes chatResponse
		json.NewDecoder(resp.Body).Decode(&errRes)
		if errRes.Error != nil {
			return "", fmt.Errorf("completion failed (%d): %s", resp.StatusCode, errRes.Error.Message)
		}
		return "", fmt.Errorf("completion failed: status %d", resp.StatusCode)
	}

	var res chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}

// Decide implements ports.Brain. Upstream failures come back as a
// *domain.DecisionError; a reply that violates the action contract
// degrades to zero actions instead of failing the cycle.
func (b *GroqBrain) Decide(ctx context.Context, dc domain.DecisionContext) ([]domain.Action, error) {
	raw, err := b.ask(ctx, SystemPrompt, decisionPrompt(dc), 1500, 0.75)
	if err != nil {
		return nil, &domain.DecisionError{Provider: "groq", Err: err}
	}

	actions, err := ParseActions(raw)
	if err != nil {
		b.log.Warnw("discarding unparseable decision", "error", err, "raw", truncate(raw, 300))
		return []domain.Action{}, nil
	}
	return actions, nil
}

// Report implements ports.Brain
func (b *GroqBrain) Report(ctx context.Context, posts []domain.Post, results []domain.ActionResult) (string, error) {
	text, err := b.ask(ctx, reportSystemPrompt, reportPrompt(posts, results), 2000, 0.65)
	if err != nil {
		return "", &domain.DecisionError{Provider: "groq", Err: err}
	}
	return text, nil
}
