package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"solace/internal/config"

	"github.com/sirupsen/logrus"
)

// Offline reply templates, selected by tone-guidance substring in the
// prompt. The neutral sentence is the documented fixed fallback.
const (
	offlineEmpatheticReply = "I'm really sorry you're feeling this way. I'm here for you, and I'm listening. 💙"
	offlinePlayfulReply    = "Haha, I love the energy! Want to hear a fun thought to keep the vibe going? 😄"
	offlineNeutralReply    = "Thanks for telling me! I'll remember that, and I'm always happy to chat."
)

// GenerationService produces the assistant reply for a prompt. With a
// configured provider credential it calls the OpenAI-compatible
// chat/completions endpoint; without one it serves canned offline replies.
type GenerationService struct {
	apiKey  string
	baseURL string
	model   string

	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(cfg *config.Config) *GenerationService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &GenerationService{
		apiKey:  cfg.OpenAIAPIKey,
		baseURL: strings.TrimSuffix(cfg.OpenAIBaseURL, "/"),
		model:   cfg.OpenAIModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// LiveMode reports whether a provider credential is configured.
func (s *GenerationService) LiveMode() bool {
	return s.apiKey != ""
}

// Generate returns the reply text for a prompt and whether it was
// simulated. Provider failures never propagate: they are embedded in the
// reply text and flagged simulated. The returned error is reserved for
// failures before the provider boundary (request construction).
func (s *GenerationService) Generate(ctx context.Context, prompt string) (string, bool, error) {
	if !s.LiveMode() {
		return s.offlineReply(prompt), true, nil
	}

	reply, err := s.complete(ctx, prompt)
	if err != nil {
		s.logger.WithField("error", err.Error()).Warn("Provider request failed, returning simulated reply")
		if m := GetMetrics(); m != nil {
			m.RecordChatError("provider")
		}
		return fmt.Sprintf("I couldn't reach my language model provider (%v). Please try again later.", err), true, nil
	}

	return reply, false, nil
}

// complete performs a non-streaming chat completion with the prompt as a
// single user message.
func (s *GenerationService) complete(ctx context.Context, prompt string) (string, error) {
	chatReq := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
	}

	reqBody, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// offlineReply picks a canned reply by checking the prompt's tone-guidance
// sentence. Equivalent to checking the classified tone, since the guidance
// text is fully determined by it.
func (s *GenerationService) offlineReply(prompt string) string {
	switch {
	case strings.Contains(prompt, "empathetic"):
		return offlineEmpatheticReply
	case strings.Contains(prompt, "playful"):
		return offlinePlayfulReply
	default:
		return offlineNeutralReply
	}
}
