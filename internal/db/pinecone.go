package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PineconeClient wraps HTTP calls to a Pinecone-style vector index data plane.
// All requests go to the index host with an Api-Key header.
type PineconeClient struct {
	indexHost  string
	apiKey     string
	namespace  string
	httpClient *http.Client
}

// PineconeConfig holds configuration for the vector index connection
type PineconeConfig struct {
	IndexHost string // e.g. https://my-index-abc123.svc.us-east-1.pinecone.io
	APIKey    string
	Namespace string
	Timeout   time.Duration
}

// Vector is one (id, values, metadata) triple in the index
type Vector struct {
	ID       string                 `json:"id"`
	Values   []float32              `json:"values"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// QueryMatch is a single similarity match returned by Query
type QueryMatch struct {
	ID       string                 `json:"id"`
	Score    float32                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// QueryResponse represents the response from a query request
type QueryResponse struct {
	Matches   []QueryMatch `json:"matches"`
	Namespace string       `json:"namespace"`
}

// IndexStats represents index statistics
type IndexStats struct {
	Dimension        int   `json:"dimension"`
	TotalVectorCount int64 `json:"totalVectorCount"`
}

// NewPineconeClient creates a new vector index client
func NewPineconeClient(cfg PineconeConfig) *PineconeClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &PineconeClient{
		indexHost: cfg.IndexHost,
		apiKey:    cfg.APIKey,
		namespace: cfg.Namespace,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Upsert writes or overwrites vectors, per-item (no cross-item transaction)
func (c *PineconeClient) Upsert(ctx context.Context, vectors []Vector) (int, error) {
	payload := map[string]interface{}{
		"vectors": vectors,
	}
	if c.namespace != "" {
		payload["namespace"] = c.namespace
	}

	var result struct {
		UpsertedCount int `json:"upsertedCount"`
	}
	if err := c.post(ctx, "/vectors/upsert", payload, &result); err != nil {
		return 0, fmt.Errorf("upsert failed: %w", err)
	}

	return result.UpsertedCount, nil
}

// Query returns the topK nearest neighbors of vector, filtered by the given
// metadata filter, ordered by descending score.
func (c *PineconeClient) Query(ctx context.Context, vector []float32, topK int, filter map[string]interface{}) (*QueryResponse, error) {
	payload := map[string]interface{}{
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}
	if filter != nil {
		payload["filter"] = filter
	}
	if c.namespace != "" {
		payload["namespace"] = c.namespace
	}

	var result QueryResponse
	if err := c.post(ctx, "/query", payload, &result); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return &result, nil
}

// DeleteByFilter deletes all vectors whose metadata matches the filter
func (c *PineconeClient) DeleteByFilter(ctx context.Context, filter map[string]interface{}) error {
	payload := map[string]interface{}{
		"filter": filter,
	}
	if c.namespace != "" {
		payload["namespace"] = c.namespace
	}

	if err := c.post(ctx, "/vectors/delete", payload, nil); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// DeleteByIDs deletes vectors by their ids
func (c *PineconeClient) DeleteByIDs(ctx context.Context, ids []string) error {
	payload := map[string]interface{}{
		"ids": ids,
	}
	if c.namespace != "" {
		payload["namespace"] = c.namespace
	}

	if err := c.post(ctx, "/vectors/delete", payload, nil); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// DescribeIndexStats returns vector counts for the index
func (c *PineconeClient) DescribeIndexStats(ctx context.Context) (*IndexStats, error) {
	var result IndexStats
	if err := c.post(ctx, "/describe_index_stats", map[string]interface{}{}, &result); err != nil {
		return nil, fmt.Errorf("describe index stats failed: %w", err)
	}
	return &result, nil
}

// Heartbeat checks if the index is reachable
func (c *PineconeClient) Heartbeat(ctx context.Context) error {
	_, err := c.DescribeIndexStats(ctx)
	return err
}

// post executes one JSON request against the index host
func (c *PineconeClient) post(ctx context.Context, endpoint string, payload interface{}, result interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.indexHost + endpoint

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed (status %d): %s", endpoint, resp.StatusCode, string(body))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Close closes the HTTP client connections
func (c *PineconeClient) Close() {
	c.httpClient.CloseIdleConnections()
}
