package db

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPineconeClient(url string) *PineconeClient {
	return NewPineconeClient(PineconeConfig{
		IndexHost: url,
		APIKey:    "pc-key",
		Namespace: "ns1",
	})
}

func TestPineconeUpsert(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/upsert", r.URL.Path)
		assert.Equal(t, "pc-key", r.Header.Get("Api-Key"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ns1", payload["namespace"])
		vectors := payload["vectors"].([]interface{})
		assert.Len(t, vectors, 2)

		json.NewEncoder(w).Encode(map[string]int{"upsertedCount": 2})
	}))
	defer ts.Close()

	c := newTestPineconeClient(ts.URL)
	count, err := c.Upsert(context.Background(), []Vector{
		{ID: "v1", Values: []float32{0.1}, Metadata: map[string]interface{}{"project_id": "p1"}},
		{ID: "v2", Values: []float32{0.2}},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPineconeQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, true, payload["includeMetadata"])
		assert.Equal(t, float64(5), payload["topK"])
		filter := payload["filter"].(map[string]interface{})
		assert.Equal(t, "p1", filter["project_id"])

		json.NewEncoder(w).Encode(QueryResponse{
			Matches: []QueryMatch{
				{ID: "v1", Score: 0.9, Metadata: map[string]interface{}{"text": "hello"}},
				{ID: "v2", Score: 0.5},
			},
			Namespace: "ns1",
		})
	}))
	defer ts.Close()

	c := newTestPineconeClient(ts.URL)
	resp, err := c.Query(context.Background(), []float32{0.1, 0.2}, 5, map[string]interface{}{"project_id": "p1"})

	require.NoError(t, err)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "v1", resp.Matches[0].ID)
	assert.InDelta(t, 0.9, resp.Matches[0].Score, 1e-6)
	assert.Equal(t, "hello", resp.Matches[0].Metadata["text"])
}

func TestPineconeDeleteByFilter(t *testing.T) {
	var gotFilter map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/delete", r.URL.Path)
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotFilter = payload["filter"].(map[string]interface{})
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	c := newTestPineconeClient(ts.URL)
	err := c.DeleteByFilter(context.Background(), map[string]interface{}{
		"project_id":  "p1",
		"document_id": "d1",
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", gotFilter["project_id"])
	assert.Equal(t, "d1", gotFilter["document_id"])
}

func TestPineconeNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer ts.Close()

	c := newTestPineconeClient(ts.URL)
	_, err := c.Query(context.Background(), []float32{0.1}, 5, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestPineconeHeartbeat(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/describe_index_stats", r.URL.Path)
		json.NewEncoder(w).Encode(IndexStats{Dimension: 768, TotalVectorCount: 10})
	}))
	defer ts.Close()

	c := newTestPineconeClient(ts.URL)
	assert.NoError(t, c.Heartbeat(context.Background()))

	stats, err := c.DescribeIndexStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 768, stats.Dimension)
	assert.Equal(t, int64(10), stats.TotalVectorCount)
}

func TestPineconeHeartbeat_Unreachable(t *testing.T) {
	c := newTestPineconeClient("http://localhost:1")
	assert.Error(t, c.Heartbeat(context.Background()))
}
