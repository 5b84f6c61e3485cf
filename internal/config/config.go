package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, read from environment variables
// with sensible defaults. A .env file in the working directory is honored.
type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Vector  VectorConfig
	Embed   EmbedConfig
	LLM     LLMConfig
	Vision  VisionConfig
	Storage StorageConfig
	Ingest  IngestConfig
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Addr      string
	UploadDir string
}

// RedisConfig configures the Redis connection pool
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// VectorConfig configures the Pinecone-style vector index
type VectorConfig struct {
	IndexHost string // full https host of the index
	APIKey    string
	Namespace string
	Timeout   time.Duration
}

// EmbedConfig configures the remote embedding service
type EmbedConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LLMConfig configures the hosted chat-completion service
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// VisionConfig configures the remote OCR service
type VisionConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// StorageConfig configures S3-compatible object storage
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// IngestConfig configures the background ingestion workers
type IngestConfig struct {
	Concurrency  int
	PollInterval time.Duration
	ChunkSize    int
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr:      getEnv("SERVER_ADDR", ":8080"),
			UploadDir: getEnv("UPLOAD_DIR", "/tmp/autorag-uploads"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Vector: VectorConfig{
			IndexHost: getEnv("PINECONE_INDEX_HOST", "http://localhost:5080"),
			APIKey:    getEnv("PINECONE_API_KEY", ""),
			Namespace: getEnv("PINECONE_NAMESPACE", ""),
			Timeout:   30 * time.Second,
		},
		Embed: EmbedConfig{
			BaseURL: getEnv("JINA_BASE_URL", "https://api.jina.ai/v1"),
			APIKey:  getEnv("JINA_API_KEY", ""),
			Model:   getEnv("JINA_EMBEDDING_MODEL", "jina-embeddings-v2-base-en"),
			Timeout: 60 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  getEnv("GROQ_API_KEY", ""),
			Model:   getEnv("GROQ_MODEL", "qwen/qwen3-32b"),
			Timeout: 120 * time.Second, // LLMs can be slow
		},
		Vision: VisionConfig{
			BaseURL: getEnv("VISION_BASE_URL", "http://localhost:9090"),
			APIKey:  getEnv("VISION_API_KEY", ""),
			Timeout: 60 * time.Second,
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "autorag-bucket"),
			UseSSL:    getEnvBool("STORAGE_USE_SSL", false),
		},
		Ingest: IngestConfig{
			Concurrency:  getEnvInt("INGEST_CONCURRENCY", 3),
			PollInterval: getEnvDuration("INGEST_POLL_INTERVAL", 2*time.Second),
			ChunkSize:    getEnvInt("INGEST_CHUNK_SIZE", 500),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
