package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 3, cfg.Ingest.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.Ingest.PollInterval)
	assert.Equal(t, 500, cfg.Ingest.ChunkSize)
	assert.Equal(t, "autorag-bucket", cfg.Storage.Bucket)
	assert.False(t, cfg.Storage.UseSSL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("INGEST_POLL_INTERVAL", "500ms")
	t.Setenv("INGEST_CHUNK_SIZE", "200")
	t.Setenv("STORAGE_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Ingest.PollInterval)
	assert.Equal(t, 200, cfg.Ingest.ChunkSize)
	assert.True(t, cfg.Storage.UseSSL)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-number")
	t.Setenv("INGEST_POLL_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 2*time.Second, cfg.Ingest.PollInterval)
}
