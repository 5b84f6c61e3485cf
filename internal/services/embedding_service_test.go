package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autorag/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbeddingService(url string) *EmbeddingService {
	return NewEmbeddingService(config.EmbedConfig{
		BaseURL: url,
		APIKey:  "test-key",
		Model:   "test-embedding-model",
		Timeout: 5 * time.Second,
	})
}

func TestEmbedTexts_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-embedding-model", req.Model)
		assert.Equal(t, []string{"first", "second"}, req.Input)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{0.1, 0.2}},
				{"index": 1, "embedding": []float32{0.3, 0.4}},
			},
		})
	}))
	defer ts.Close()

	s := newTestEmbeddingService(ts.URL)
	embeddings, err := s.EmbedTexts(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])
}

func TestEmbedTexts_ReordersByIndex(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{1}},
				{"index": 0, "embedding": []float32{0}},
			},
		})
	}))
	defer ts.Close()

	s := newTestEmbeddingService(ts.URL)
	embeddings, err := s.EmbedTexts(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, []float32{0}, embeddings[0])
	assert.Equal(t, []float32{1}, embeddings[1])
}

func TestEmbedTexts_CountMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{0.1}},
			},
		})
	}))
	defer ts.Close()

	s := newTestEmbeddingService(ts.URL)
	_, err := s.EmbedTexts(context.Background(), []string{"a", "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestEmbedTexts_Non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	s := newTestEmbeddingService(ts.URL)
	_, err := s.EmbedTexts(context.Background(), []string{"a"})

	require.Error(t, err)
	var remoteErr *RemoteServiceError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "embedding", remoteErr.Service)
	assert.Contains(t, remoteErr.Error(), "429")
}

func TestEmbedTexts_EmptyInput(t *testing.T) {
	s := newTestEmbeddingService("http://localhost:1")
	embeddings, err := s.EmbedTexts(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestEmbedText_Single(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{0.5, 0.6}},
			},
		})
	}))
	defer ts.Close()

	s := newTestEmbeddingService(ts.URL)
	embedding, err := s.EmbedText(context.Background(), "question")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.6}, embedding)
}
