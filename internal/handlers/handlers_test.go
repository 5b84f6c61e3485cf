package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"autorag/internal/models"
	"autorag/internal/repositories"
	"autorag/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Shared test fixture: the full mux router with real redis-backed
// repositories and stubbed remote services (embedding, LLM, vector index).

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (s *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.1, 0.2}, nil
}

type stubCompleter struct {
	replies []string
	err     error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

type stubVectorRepo struct {
	matches []*repositories.VectorMatch
	deleted []string
	err     error
}

func (s *stubVectorRepo) Upsert(ctx context.Context, ids []string, vectors [][]float32, metadatas []map[string]interface{}) error {
	return s.err
}

func (s *stubVectorRepo) Query(ctx context.Context, projectID string, vector []float32, topK int) ([]*repositories.VectorMatch, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.matches, nil
}

func (s *stubVectorRepo) DeleteByDocument(ctx context.Context, projectID, documentID string) error {
	s.deleted = append(s.deleted, documentID)
	return s.err
}

func (s *stubVectorRepo) Ping(ctx context.Context) error { return s.err }
func (s *stubVectorRepo) Close() error                   { return nil }

type apiFixture struct {
	router    *mux.Router
	projects  repositories.ProjectRepository
	documents repositories.DocumentRepository
	jobs      repositories.JobRepository
	sessions  repositories.SessionRepository
	vectors   *stubVectorRepo
	completer *stubCompleter
	uploadDir string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := log.New(io.Discard, "", 0)

	projects := repositories.NewRedisProjectRepository(client)
	documents := repositories.NewRedisDocumentRepository(client)
	jobs := repositories.NewRedisJobRepository(client)
	sessions := repositories.NewRedisSessionRepository(client)
	vectors := &stubVectorRepo{}
	completer := &stubCompleter{}
	uploadDir := t.TempDir()

	docService := services.NewDocumentService(projects, documents, jobs, vectors, uploadDir, logger)
	ragService := services.NewRAGService(&stubEmbedder{}, vectors, completer, sessions, logger)

	h := &Handlers{
		Health:     NewHealthHandler(map[string]Pinger{"redis": jobs, "vector_index": vectors}, logger),
		Project:    NewProjectHandler(projects, docService, logger),
		Document:   NewDocumentHandler(docService, documents, logger),
		Chat:       NewChatHandler(ragService, services.NewExtractor(nil), nil, uploadDir, logger),
		Session:    NewSessionHandler(sessions, projects, logger),
		Preference: NewPreferenceHandler(sessions, logger),
	}

	router := mux.NewRouter()
	registerTestRoutes(router, h)

	return &apiFixture{
		router:    router,
		projects:  projects,
		documents: documents,
		jobs:      jobs,
		sessions:  sessions,
		vectors:   vectors,
		completer: completer,
		uploadDir: uploadDir,
	}
}

// Handlers mirrors the route wiring without importing the routes package
// (which would create an import cycle with the handlers under test).
type Handlers struct {
	Health     *HealthHandler
	Project    *ProjectHandler
	Document   *DocumentHandler
	Chat       *ChatHandler
	Session    *SessionHandler
	Preference *PreferenceHandler
}

func registerTestRoutes(router *mux.Router, h *Handlers) {
	router.HandleFunc("/health", h.Health.Health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/projects", h.Project.CreateProject).Methods("POST")
	api.HandleFunc("/projects", h.Project.ListProjects).Methods("GET")
	api.HandleFunc("/projects/{id}", h.Project.GetProject).Methods("GET")
	api.HandleFunc("/projects/{id}", h.Project.DeleteProject).Methods("DELETE")
	api.HandleFunc("/projects/{id}/documents", h.Document.ListProjectDocuments).Methods("GET")
	api.HandleFunc("/documents/upload", h.Document.UploadDocument).Methods("POST")
	api.HandleFunc("/documents/{id}", h.Document.GetDocument).Methods("GET")
	api.HandleFunc("/documents/{id}", h.Document.DeleteDocument).Methods("DELETE")
	api.HandleFunc("/documents/{id}/status", h.Document.UpdateDocumentStatus).Methods("PATCH")
	api.HandleFunc("/ingestion/{id}/status", h.Document.GetIngestionStatus).Methods("GET")
	api.HandleFunc("/chat", h.Chat.Chat).Methods("POST")
	api.HandleFunc("/chat/image", h.Chat.ChatImage).Methods("POST")
	api.HandleFunc("/sessions", h.Session.CreateSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", h.Session.GetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", h.Session.UpdateSession).Methods("PATCH")
	api.HandleFunc("/sessions/{id}/messages", h.Session.ListMessages).Methods("GET")
	api.HandleFunc("/messages", h.Session.CreateMessage).Methods("POST")
	api.HandleFunc("/preferences/{id}", h.Preference.GetPreference).Methods("GET")
	api.HandleFunc("/preferences/{id}", h.Preference.UpdatePreference).Methods("PATCH")
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func multipartWriter(t *testing.T, buf *bytes.Buffer, fields map[string]string) *multipart.Writer {
	t.Helper()
	writer := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	return writer
}

func (f *apiFixture) doMultipart(t *testing.T, path string, fields map[string]string, fileField, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipartWriter(t, &buf, fields)
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func (f *apiFixture) createProject(t *testing.T, name string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/projects", CreateProjectRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code)

	var dto models.ProjectDTO
	decodeJSON(t, rec, &dto)
	require.NotEmpty(t, dto.ID)
	return dto.ID
}
