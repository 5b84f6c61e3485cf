package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"autorag/internal/config"
)

// VisionService talks to the remote OCR API. The API accepts a base64
// image and returns the recognized text.
type VisionService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewVisionService creates a new vision service instance
func NewVisionService(cfg config.VisionConfig) *VisionService {
	return &VisionService{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type ocrRequest struct {
	Image string `json:"image"` // base64-encoded PNG
}

type ocrResponse struct {
	Text string `json:"text"`
}

// RecognizeText runs OCR over an encoded image and returns the detected text
func (s *VisionService) RecognizeText(ctx context.Context, image []byte) (string, error) {
	reqBody := ocrRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", NewRemoteServiceError("vision", "recognize_text", err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/ocr", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", NewRemoteServiceError("vision", "recognize_text", err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", NewRemoteServiceError("vision", "recognize_text", err, "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewRemoteServiceError("vision", "recognize_text", err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewRemoteServiceError("vision", "recognize_text", nil,
			fmt.Sprintf("vision API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var ocrResp ocrResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return "", NewRemoteServiceError("vision", "recognize_text", err, "failed to parse response")
	}

	return ocrResp.Text, nil
}

// SetBaseURL overrides the API base URL. Used by tests.
func (s *VisionService) SetBaseURL(url string) {
	s.baseURL = url
}
