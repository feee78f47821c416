//go:build unit

package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/infrastructure/repositories/anthropic"
)

func TestRecommendationRepository(t *testing.T) {
	t.Parallel()

	t.Run("should post the prompt and join the text blocks", func(t *testing.T) {
		t.Parallel()

		// given
		requests := make(chan map[string]any, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			requests <- body

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"content":[` +
				`{"type":"text","text":"Base environment: "},` +
				`{"type":"tool_use","text":"ignored"},` +
				`{"type":"text","text":"requests, numpy"}]}`))
		}))
		t.Cleanup(server.Close)

		repo := anthropic.NewRecommendationRepository(entities.RecommendationSettings{
			Token:    "test-key",
			Endpoint: server.URL,
		})

		// when
		reply, err := repo.Recommend(context.Background(), "analyze this")

		// then
		require.NoError(t, err)
		received := <-requests
		assert.Equal(t, "Base environment: requests, numpy", reply)
		assert.Equal(t, "anthropic", repo.Name())
		assert.Equal(t, "claude-3-5-sonnet-20241022", received["model"])
		assert.InDelta(t, 4096, received["max_tokens"], 0)
		assert.NotContains(t, received, "system")
		messages, ok := received["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 1)
		assert.Equal(t, map[string]any{"role": "user", "content": "analyze this"}, messages[0])
	})

	t.Run("should use the configured model", func(t *testing.T) {
		t.Parallel()

		// given
		models := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Model string `json:"model"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			models <- body.Model
			_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
		}))
		t.Cleanup(server.Close)

		repo := anthropic.NewRecommendationRepository(entities.RecommendationSettings{
			Token:    "k",
			Model:    "claude-sonnet-4-5",
			Endpoint: server.URL,
		})

		// when
		_, err := repo.Recommend(context.Background(), "p")

		// then
		require.NoError(t, err)
		assert.Equal(t, "claude-sonnet-4-5", <-models)
	})

	t.Run("should fail without a token and without calling the API", func(t *testing.T) {
		t.Parallel()

		// given
		calls := make(chan struct{}, 1)
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			calls <- struct{}{}
		}))
		t.Cleanup(server.Close)

		repo := anthropic.NewRecommendationRepository(entities.RecommendationSettings{Endpoint: server.URL})

		// when
		_, err := repo.Recommend(context.Background(), "p")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
		assert.Empty(t, calls)
	})

	t.Run("should return the status and body of an API error", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"type":"authentication_error"}}`))
		}))
		t.Cleanup(server.Close)

		repo := anthropic.NewRecommendationRepository(entities.RecommendationSettings{
			Token:    "bad-key",
			Endpoint: server.URL,
		})

		// when
		_, err := repo.Recommend(context.Background(), "p")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
		assert.Contains(t, err.Error(), "authentication_error")
	})

	t.Run("should fail on a reply without text", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		t.Cleanup(server.Close)

		repo := anthropic.NewRecommendationRepository(entities.RecommendationSettings{
			Token:    "k",
			Endpoint: server.URL,
		})

		// when
		_, err := repo.Recommend(context.Background(), "p")

		// then
		require.Error(t, err)
	})

	t.Run("should give up when the context expires", func(t *testing.T) {
		t.Parallel()

		// given
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			server.Close()
		})

		repo := anthropic.NewRecommendationRepository(entities.RecommendationSettings{
			Token:    "k",
			Endpoint: server.URL,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		// when
		_, err := repo.Recommend(ctx, "p")

		// then
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
