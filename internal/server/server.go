package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"autorag/internal/config"
	"autorag/internal/db"
	"autorag/internal/handlers"
	"autorag/internal/repositories"
	"autorag/internal/routes"
	"autorag/internal/services"
	"autorag/internal/workers"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "autorag/docs" // swagger spec registration
)

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewServer wires the full application: Redis repositories, the vector
// index client, remote-service clients, background ingestion workers, and
// the HTTP routes. It also starts the worker pool.
func NewServer(cfg *config.Config) (*http.Server, error) {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Redis
	logger.Printf("Connecting to Redis: %s:%d (DB: %d)", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
	redisClient := db.NewRedisClient(cfg.Redis)
	if err := redisClient.Ping(ctx); err != nil {
		return nil, err
	}
	logger.Println("Redis connected")

	// Vector index
	pineconeClient := db.NewPineconeClient(db.PineconeConfig{
		IndexHost: cfg.Vector.IndexHost,
		APIKey:    cfg.Vector.APIKey,
		Namespace: cfg.Vector.Namespace,
		Timeout:   cfg.Vector.Timeout,
	})
	if err := pineconeClient.Heartbeat(ctx); err != nil {
		logger.Printf("[WARN] vector index not reachable yet: %v", err)
	}

	// Repositories
	projectRepo := repositories.NewRedisProjectRepository(redisClient.GetClient())
	documentRepo := repositories.NewRedisDocumentRepository(redisClient.GetClient())
	sessionRepo := repositories.NewRedisSessionRepository(redisClient.GetClient())
	jobRepo := repositories.NewRedisJobRepository(redisClient.GetClient())
	vectorRepo := repositories.NewPineconeVectorRepository(pineconeClient)

	// Remote-service clients
	embedder := services.NewEmbeddingService(cfg.Embed)
	llm := services.NewLLMService(cfg.LLM)
	vision := services.NewVisionService(cfg.Vision)
	extractor := services.NewExtractor(vision)

	// Object storage is optional; the pipeline degrades to local files
	storage, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		logger.Printf("[WARN] object storage disabled: %v", err)
		storage = nil
	} else if err := storage.EnsureBucket(ctx); err != nil {
		logger.Printf("[WARN] object storage disabled: %v", err)
		storage = nil
	}

	// Services
	docService := services.NewDocumentService(projectRepo, documentRepo, jobRepo, vectorRepo, cfg.Server.UploadDir, logger)
	ragService := services.NewRAGService(embedder, vectorRepo, llm, sessionRepo, logger)

	// Background ingestion workers
	var storageUploader workers.Uploader
	if storage != nil {
		storageUploader = storage
	}
	pool := workers.NewWorkerPool()
	pool.AddWorker(workers.NewIngestWorker(workers.IngestWorkerConfig{
		WorkerConfig: workers.WorkerConfig{
			WorkerName:      "ingest-worker",
			Concurrency:     cfg.Ingest.Concurrency,
			PollInterval:    cfg.Ingest.PollInterval,
			ShutdownTimeout: 30 * time.Second,
			EnableRecovery:  true,
		},
		Jobs:      jobRepo,
		Documents: documentRepo,
		Vectors:   vectorRepo,
		Extractor: extractor,
		Embedder:  embedder,
		Storage:   storageUploader,
		ChunkSize: cfg.Ingest.ChunkSize,
		Logger:    logger,
	}))
	if err := pool.StartAll(context.Background()); err != nil {
		return nil, err
	}
	logger.Printf("Background workers started (%d)", pool.Count())

	// Handlers
	h := &routes.Handlers{
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"redis":        jobRepo,
			"vector_index": vectorRepo,
		}, logger),
		Project:    handlers.NewProjectHandler(projectRepo, docService, logger),
		Document:   handlers.NewDocumentHandler(docService, documentRepo, logger),
		Chat:       handlers.NewChatHandler(ragService, extractor, storage, cfg.Server.UploadDir, logger),
		Session:    handlers.NewSessionHandler(sessionRepo, projectRepo, logger),
		Preference: handlers.NewPreferenceHandler(sessionRepo, logger),
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: corsMiddleware(router),
	}, nil
}
