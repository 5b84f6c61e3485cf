package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthRequest(h *HealthHandler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec
}

func TestHealth_AllDependenciesUp(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"redis":        pingFunc(func(ctx context.Context) error { return nil }),
		"vector_index": pingFunc(func(ctx context.Context) error { return nil }),
	}, log.New(io.Discard, "", 0))

	rec := healthRequest(h)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Dependencies["redis"])
	assert.Equal(t, "ok", resp.Dependencies["vector_index"])
}

func TestHealth_Degraded(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"redis":        pingFunc(func(ctx context.Context) error { return nil }),
		"vector_index": pingFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
	}, log.New(io.Discard, "", 0))

	rec := healthRequest(h)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "ok", resp.Dependencies["redis"])
	assert.Equal(t, "unreachable", resp.Dependencies["vector_index"])
}

func TestHealth_NilPingerSkipped(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"redis":          pingFunc(func(ctx context.Context) error { return nil }),
		"object_storage": nil,
	}, log.New(io.Discard, "", 0))

	rec := healthRequest(h)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	_, present := resp.Dependencies["object_storage"]
	assert.False(t, present)
}
