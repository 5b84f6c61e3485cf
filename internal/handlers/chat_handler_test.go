package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autorag/internal/config"
	"autorag/internal/models"
	"autorag/internal/repositories"
	"autorag/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatMatch(docID string, chunkIndex int, text string, score float32) *repositories.VectorMatch {
	return &repositories.VectorMatch{
		VectorID: "v-" + text,
		Score:    score,
		Metadata: map[string]interface{}{
			"document_id": docID,
			"project_id":  "p1",
			"chunk_index": float64(chunkIndex),
			"text":        text,
		},
	}
}

func TestChat(t *testing.T) {
	f := newAPIFixture(t)
	projectID := f.createProject(t, "Docs")
	f.vectors.matches = []*repositories.VectorMatch{
		chatMatch("d1", 0, "Go is a statically typed language.", 0.9),
		chatMatch("d1", 1, "It was designed at Google.", 0.7),
	}
	f.completer.replies = []string{
		"Go is statically typed [0].",
		"- What is a goroutine?\n- How does GC work?\n- What is a channel?",
	}

	rec := f.do(t, http.MethodPost, "/api/chat", models.ChatRequest{
		ProjectID: projectID,
		Question:  "What is Go?",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var answer models.Answer
	decodeJSON(t, rec, &answer)
	assert.Equal(t, "Go is statically typed [0].", answer.Answer)
	assert.Equal(t, []int{0, 1}, answer.Sources)
	require.Len(t, answer.Chunks, 2)
	assert.Equal(t, "Go is a statically typed language.", answer.Chunks[0].Text)
	assert.Len(t, answer.Followups, 3)
	assert.Contains(t, answer.Prompt, "Question: What is Go?")
}

func TestChat_MissingQuestion(t *testing.T) {
	f := newAPIFixture(t)
	projectID := f.createProject(t, "Docs")

	rec := f.do(t, http.MethodPost, "/api/chat", models.ChatRequest{ProjectID: projectID})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_MissingProject(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/chat", models.ChatRequest{Question: "hi"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_InvalidJSON(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{oops"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// imageChatFixture wires a chat handler with a real OCR-capable extractor
// pointed at a stub vision endpoint.
func newImageChatFixture(t *testing.T, ocrText string) (*ChatHandler, *stubCompleter) {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ocrText})
	}))
	t.Cleanup(ts.Close)

	vision := services.NewVisionService(config.VisionConfig{
		BaseURL: ts.URL,
		Timeout: 5 * time.Second,
	})

	completer := &stubCompleter{replies: []string{"An answer.", "- One?\n- Two?\n- Three?"}}
	rag := services.NewRAGService(&stubEmbedder{}, &stubVectorRepo{}, completer, nil, log.New(io.Discard, "", 0))

	handler := NewChatHandler(rag, services.NewExtractor(vision), nil, t.TempDir(), log.New(io.Discard, "", 0))
	return handler, completer
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func imageChatRequest(t *testing.T, fields map[string]string, withImage bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipartWriter(t, &buf, fields)
	if withImage {
		part, err := writer.CreateFormFile("image", "question.png")
		require.NoError(t, err)
		_, err = part.Write(pngBytes(t))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestChatImage(t *testing.T) {
	handler, _ := newImageChatFixture(t, "What is Go?")

	req := imageChatRequest(t, map[string]string{"project_id": "p1"}, true)
	rec := httptest.NewRecorder()
	handler.ChatImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ImageChatResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "What is Go?", resp.OCRText)
	assert.Equal(t, "An answer.", resp.Answer.Answer)
	assert.Empty(t, resp.ImageURL, "no archival without object storage")
}

func TestChatImage_NoTextRecognized(t *testing.T) {
	handler, _ := newImageChatFixture(t, "")

	req := imageChatRequest(t, map[string]string{"project_id": "p1"}, true)
	rec := httptest.NewRecorder()
	handler.ChatImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decodeJSON(t, rec, &errResp)
	assert.Equal(t, "no text recognized in image", errResp.Error)
}

func TestChatImage_MissingProjectID(t *testing.T) {
	handler, _ := newImageChatFixture(t, "hi")

	req := imageChatRequest(t, map[string]string{}, true)
	rec := httptest.NewRecorder()
	handler.ChatImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatImage_MissingImage(t *testing.T) {
	handler, _ := newImageChatFixture(t, "hi")

	req := imageChatRequest(t, map[string]string{"project_id": "p1"}, false)
	rec := httptest.NewRecorder()
	handler.ChatImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
