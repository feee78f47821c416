//go:build unit

package ollama_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/infrastructure/repositories/ollama"
)

func TestRecommendationRepository(t *testing.T) {
	t.Parallel()

	t.Run("should report its provider name", func(t *testing.T) {
		t.Parallel()

		// given
		repo := ollama.NewRecommendationRepository(entities.RecommendationSettings{})

		// when
		name := repo.Name()

		// then
		assert.Equal(t, "ollama", name)
	})

	t.Run("should return the host parse error on use", func(t *testing.T) {
		t.Parallel()

		// given
		repo := ollama.NewRecommendationRepository(entities.RecommendationSettings{Endpoint: "http://[::1"})

		// when
		_, err := repo.Recommend(context.Background(), "p")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid Ollama host")
	})

	t.Run("should fail when the server is unreachable", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.NotFoundHandler())
		endpoint := server.URL
		server.Close()
		repo := ollama.NewRecommendationRepository(entities.RecommendationSettings{Endpoint: endpoint})

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

		repo := ollama.NewRecommendationRepository(entities.RecommendationSettings{Endpoint: server.URL})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		// when
		_, err := repo.Recommend(ctx, "p")

		// then
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
