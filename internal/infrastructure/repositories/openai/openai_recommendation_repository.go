package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

const (
	providerName    = entities.ProviderOpenAI
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4-turbo-preview"
	maxTokens       = 4096
	temperature     = 0.7
)

// RecommendationRepository sends prompts to the OpenAI Chat Completions API.
type RecommendationRepository struct {
	httpClient *http.Client
	endpoint   string
	model      string
	token      string
}

// NewRecommendationRepository creates an OpenAI provider from the
// recommendation settings.
func NewRecommendationRepository(settings entities.RecommendationSettings) repositories.RecommendationRepository {
	endpoint := settings.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := settings.Model
	if model == "" {
		model = defaultModel
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = entities.DefaultRecommendationTimeout
	}

	return &RecommendationRepository{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		model:      model,
		token:      settings.Token,
	}
}

func (r *RecommendationRepository) Name() string { return providerName }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Recommend posts the prompt after the system message and returns the
// content of the first choice.
func (r *RecommendationRepository) Recommend(ctx context.Context, prompt string) (string, error) {
	if r.token == "" {
		return "", fmt.Errorf("no API key provided: set %s", entities.TokenEnvVar(providerName))
	}

	logger.Infof("[openai] Requesting recommendations from model %s", r.model)

	body, err := json.Marshal(chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: entities.RecommendationSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if unmarshalErr := json.Unmarshal(respBody, &result); unmarshalErr != nil {
		return "", fmt.Errorf("failed to parse response: %w", unmarshalErr)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}
	return result.Choices[0].Message.Content, nil
}
