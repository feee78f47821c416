package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/JexSrs/go-ollama"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

const (
	providerName = entities.ProviderOllama
	defaultHost  = "http://127.0.0.1:11434"
	defaultModel = "gemma3:latest"
	hostEnvVar   = "OLLAMA_HOST"
)

// RecommendationRepository sends prompts to a local or self-hosted Ollama server.
type RecommendationRepository struct {
	client  *ollama.Ollama
	host    string
	model   string
	initErr error
}

// NewRecommendationRepository creates an Ollama provider. The host comes from
// the endpoint setting, then OLLAMA_HOST, then the local default.
func NewRecommendationRepository(settings entities.RecommendationSettings) repositories.RecommendationRepository {
	host := settings.Endpoint
	if host == "" {
		host = os.Getenv(hostEnvVar)
	}
	if host == "" {
		host = defaultHost
	}
	model := settings.Model
	if model == "" {
		model = defaultModel
	}

	repo := &RecommendationRepository{host: host, model: model}

	ollamaURL, err := url.Parse(host)
	if err != nil {
		repo.initErr = fmt.Errorf("invalid Ollama host %q: %w", host, err)
		return repo
	}
	repo.client = ollama.New(*ollamaURL)
	return repo
}

func (r *RecommendationRepository) Name() string { return providerName }

type generateResult struct {
	reply string
	err   error
}

// Recommend runs a single non-interactive generation. The client library has
// no context support, so the call runs in its own goroutine and is abandoned
// when ctx expires.
func (r *RecommendationRepository) Recommend(ctx context.Context, prompt string) (string, error) {
	if r.initErr != nil {
		return "", r.initErr
	}

	logger.Infof("[ollama] Requesting recommendations from %s (model %s)", r.host, r.model)

	done := make(chan generateResult, 1)
	go func() {
		res, err := r.client.Generate(
			r.client.Generate.WithModel(r.model),
			r.client.Generate.WithSystem(entities.RecommendationSystemPrompt),
			r.client.Generate.WithPrompt(prompt),
		)
		if err != nil {
			done <- generateResult{err: fmt.Errorf("generate request failed: %w", err)}
			return
		}
		if !res.Done {
			done <- generateResult{err: errors.New("generation did not complete")}
			return
		}
		if res.Response == "" {
			done <- generateResult{err: errors.New("empty response")}
			return
		}
		done <- generateResult{reply: res.Response}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-done:
		return result.reply, result.err
	}
}
