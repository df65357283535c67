package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/config"
)

// tutorPrompt frames every completion request. Calls are single-turn; no
// conversation state is kept between questions.
const tutorPrompt = "You are a friendly programming and computer science tutor for university students. " +
	"Explain concepts clearly, prefer short examples over long theory, and encourage the student to try things themselves."

// AIServiceProvider defines the interface for the AI tutor proxy.
type AIServiceProvider interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AIService forwards student questions to an OpenAI-compatible completion API.
type AIService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewAIService creates a new AIService from configuration.
func NewAIService(cfg *config.Config) *AIService {
	return &AIService{
		apiKey:  cfg.AIAPIKey,
		baseURL: strings.TrimRight(cfg.AIBaseURL, "/"),
		model:   cfg.AIModel,
		client:  &http.Client{Timeout: cfg.AITimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Ask sends a single question, prefixed with the fixed tutor system prompt,
// and returns the text reply.
func (s *AIService) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", ErrValidation)
	}

	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: tutorPrompt},
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response", ErrUpstream)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			log.Error().Int("status", resp.StatusCode).Str("message", parsed.Error.Message).Msg("Completion API error")
		}
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion returned", ErrUpstream)
	}

	return parsed.Choices[0].Message.Content, nil
}
