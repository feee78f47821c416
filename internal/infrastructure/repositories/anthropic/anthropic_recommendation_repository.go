package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

const (
	providerName    = entities.ProviderAnthropic
	defaultEndpoint = "https://api.anthropic.com/v1/messages"
	defaultModel    = "claude-3-5-sonnet-20241022"
	apiVersion      = "2023-06-01"
	maxTokens       = 4096
)

// RecommendationRepository sends prompts to the Anthropic Messages API.
type RecommendationRepository struct {
	httpClient *http.Client
	endpoint   string
	model      string
	token      string
}

// NewRecommendationRepository creates an Anthropic provider from the
// recommendation settings. Empty endpoint and model fall back to defaults.
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

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Recommend posts the prompt as a single user message and returns the text
// blocks of the reply concatenated in order.
func (r *RecommendationRepository) Recommend(ctx context.Context, prompt string) (string, error) {
	if r.token == "" {
		return "", fmt.Errorf("no API key provided: set %s", entities.TokenEnvVar(providerName))
	}

	logger.Infof("[anthropic] Requesting recommendations from model %s", r.model)

	body, err := json.Marshal(messagesRequest{
		Model:     r.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", r.token)
	req.Header.Set("anthropic-version", apiVersion)
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

	var result messagesResponse
	if unmarshalErr := json.Unmarshal(respBody, &result); unmarshalErr != nil {
		return "", fmt.Errorf("failed to parse response: %w", unmarshalErr)
	}

	var sb strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("response contained no text content")
	}
	return sb.String(), nil
}
