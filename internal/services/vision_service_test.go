package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autorag/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizeText_Success(t *testing.T) {
	imageBytes := []byte{0x89, 0x50, 0x4e, 0x47}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ocr", r.URL.Path)

		var req ocrRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, imageBytes, decoded)

		json.NewEncoder(w).Encode(ocrResponse{Text: "recognized question"})
	}))
	defer ts.Close()

	s := NewVisionService(config.VisionConfig{BaseURL: ts.URL, Timeout: 5 * time.Second})
	text, err := s.RecognizeText(context.Background(), imageBytes)

	require.NoError(t, err)
	assert.Equal(t, "recognized question", text)
}

func TestRecognizeText_EmptyResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ocrResponse{Text: ""})
	}))
	defer ts.Close()

	s := NewVisionService(config.VisionConfig{BaseURL: ts.URL, Timeout: 5 * time.Second})
	text, err := s.RecognizeText(context.Background(), []byte{1, 2, 3})

	// Empty OCR output is a valid result, not an error
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRecognizeText_Non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	s := NewVisionService(config.VisionConfig{BaseURL: ts.URL, Timeout: 5 * time.Second})
	_, err := s.RecognizeText(context.Background(), []byte{1})

	require.Error(t, err)
	var remoteErr *RemoteServiceError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "vision", remoteErr.Service)
}
