package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"autorag/internal/config"
	"autorag/internal/models"
)

// ChatCompletionRequest represents the request format for the hosted LLM's
// OpenAI-compatible chat completions endpoint
type ChatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	Stream      bool                 `json:"stream"`
}

// ChatCompletionResponse represents the chat completions response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// LLMService handles communication with the hosted chat-completion API
type LLMService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewLLMService creates a new LLM service instance
func NewLLMService(cfg config.LLMConfig) *LLMService {
	return &LLMService{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout, // LLMs can be slow
		},
	}
}

// Complete sends a single-prompt completion request and returns the
// assistant's reply text.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	return s.Chat(ctx, []models.ChatMessage{
		{Role: "user", Content: prompt},
	})
}

// Chat sends a full message array to the chat completions endpoint
func (s *LLMService) Chat(ctx context.Context, messages []models.ChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: 0.7,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", NewRemoteServiceError("llm", "chat", err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", NewRemoteServiceError("llm", "chat", err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", NewRemoteServiceError("llm", "chat", err, "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewRemoteServiceError("llm", "chat", err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewRemoteServiceError("llm", "chat", nil,
			fmt.Sprintf("LLM API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", NewRemoteServiceError("llm", "chat", err, "failed to parse response")
	}

	if len(chatResp.Choices) == 0 {
		return "", NewRemoteServiceError("llm", "chat", nil, "no choices in LLM response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// HealthCheck verifies the LLM API is reachable
func (s *LLMService) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return NewRemoteServiceError("llm", "health_check", err, "LLM API not reachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewRemoteServiceError("llm", "health_check", nil,
			fmt.Sprintf("LLM API returned status %d", resp.StatusCode))
	}

	return nil
}

// SetBaseURL overrides the API base URL. Used by tests.
func (s *LLMService) SetBaseURL(url string) {
	s.baseURL = url
}
