package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"autorag/internal/config"
)

// EmbeddingService talks to the remote embedding API (OpenAI-compatible
// /embeddings endpoint).
type EmbeddingService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewEmbeddingService creates a new embedding service instance
func NewEmbeddingService(cfg config.EmbedConfig) *EmbeddingService {
	return &EmbeddingService{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedTexts embeds a batch of texts. The result is ordered to match the
// input even if the API returns data out of order.
func (s *EmbeddingService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embeddingRequest{
		Model: s.model,
		Input: texts,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, NewRemoteServiceError("embedding", "embed_texts", err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/embeddings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, NewRemoteServiceError("embedding", "embed_texts", err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, NewRemoteServiceError("embedding", "embed_texts", err, "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewRemoteServiceError("embedding", "embed_texts", err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewRemoteServiceError("embedding", "embed_texts", nil,
			fmt.Sprintf("embedding API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, NewRemoteServiceError("embedding", "embed_texts", err, "failed to parse response")
	}

	if len(embResp.Data) != len(texts) {
		return nil, NewRemoteServiceError("embedding", "embed_texts", nil,
			fmt.Sprintf("embedding count mismatch: got %d, expected %d", len(embResp.Data), len(texts)))
	}

	sort.Slice(embResp.Data, func(i, j int) bool {
		return embResp.Data[i].Index < embResp.Data[j].Index
	})

	embeddings := make([][]float32, len(embResp.Data))
	for i, item := range embResp.Data {
		embeddings[i] = item.Embedding
	}

	return embeddings, nil
}

// EmbedText embeds a single text
func (s *EmbeddingService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, NewRemoteServiceError("embedding", "embed_text", nil, "no embedding returned")
	}
	return embeddings[0], nil
}

// SetBaseURL overrides the API base URL. Used by tests.
func (s *EmbeddingService) SetBaseURL(url string) {
	s.baseURL = url
}
