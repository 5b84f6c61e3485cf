package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"autorag/internal/models"
	"autorag/internal/repositories"

	"github.com/google/uuid"
)

// DefaultPromptTemplate is the answer prompt used when the request does not
// carry its own template. Placeholders: {context}, {history}, {question}.
const DefaultPromptTemplate = "You are an expert assistant. Use the provided document chunks and chat history to answer the user's question. " +
	"Cite sources using [chunk_index] where relevant.\n\n" +
	"Context:\n{context}\n\n" +
	"Chat History:\n{history}\n\n" +
	"Question: {question}\n\nAnswer:"

const (
	// DefaultTopK is the retrieval depth when the request does not set one
	DefaultTopK = 5

	// maxHistoryTurns bounds how much chat history enters the prompt and
	// how much is retained on the session
	maxHistoryTurns = 50
)

// Embedder turns texts into vectors
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Completer produces a chat completion for a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RAGService answers questions over a project's ingested documents:
// retrieve the most relevant chunks, assemble a grounded prompt, call the
// LLM, and suggest follow-up questions.
type RAGService struct {
	embedder Embedder
	vectors  repositories.VectorRepository
	llm      Completer
	sessions repositories.SessionRepository
	logger   *log.Logger
}

// NewRAGService creates a new RAG service instance
func NewRAGService(
	embedder Embedder,
	vectors repositories.VectorRepository,
	llm Completer,
	sessions repositories.SessionRepository,
	logger *log.Logger,
) *RAGService {
	return &RAGService{
		embedder: embedder,
		vectors:  vectors,
		llm:      llm,
		sessions: sessions,
		logger:   logger,
	}
}

// Answer runs the full retrieval-augmented answer pipeline for a question
func (s *RAGService) Answer(ctx context.Context, req *models.ChatRequest) (*models.Answer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	chunks, err := s.Retrieve(ctx, req.ProjectID, req.Question, req.TopK)
	if err != nil {
		return nil, err
	}

	history := req.History
	if history == nil {
		history = []models.ChatMessage{}
	}
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	template := req.PromptTemplate
	if template == "" {
		template = DefaultPromptTemplate
	}

	prompt := assemblePrompt(chunks, req.Question, history, template, req.Language)

	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	sources := make([]int, len(chunks))
	for i, c := range chunks {
		sources[i] = c.ChunkIndex
	}

	// Follow-up generation is best-effort; a failure never loses the answer
	followups, err := s.SuggestFollowups(ctx, req.Question, answer)
	if err != nil {
		s.logger.Printf("[WARN] followup suggestion failed: %v", err)
		followups = []string{}
	}

	result := &models.Answer{
		Answer:    answer,
		Sources:   sources,
		Prompt:    prompt,
		Chunks:    chunks,
		Followups: followups,
		History:   history,
	}

	if req.SessionID != "" {
		s.persistTurn(ctx, req, answer)
	}

	return result, nil
}

// Retrieve embeds the query and returns the project's most similar chunks,
// highest score first.
func (s *RAGService) Retrieve(ctx context.Context, projectID, query string, topK int) ([]models.RetrievedChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := s.vectors.Query(ctx, projectID, vector, topK)
	if err != nil {
		return nil, err
	}

	chunks := make([]models.RetrievedChunk, 0, len(matches))
	for _, match := range matches {
		chunks = append(chunks, retrievedChunkFromMatch(match))
	}

	return chunks, nil
}

// retrievedChunkFromMatch reads chunk fields out of vector metadata,
// tolerating records written with partial metadata.
func retrievedChunkFromMatch(match *repositories.VectorMatch) models.RetrievedChunk {
	chunk := models.RetrievedChunk{
		Text:       "",
		ChunkIndex: -1,
		Score:      match.Score,
	}

	if text, ok := match.Metadata["text"].(string); ok {
		chunk.Text = text
	}
	if docID, ok := match.Metadata["document_id"].(string); ok {
		chunk.DocumentID = docID
	}
	// JSON numbers decode as float64
	if idx, ok := match.Metadata["chunk_index"].(float64); ok {
		chunk.ChunkIndex = int(idx)
	}

	return chunk
}

// assemblePrompt builds the grounded prompt: numbered context blocks, the
// formatted chat history, and the question, poured into the template.
func assemblePrompt(chunks []models.RetrievedChunk, question string, history []models.ChatMessage, template, language string) string {
	blocks := make([]string, len(chunks))
	for i, c := range chunks {
		blocks[i] = fmt.Sprintf("[Chunk %d] %s", c.ChunkIndex, c.Text)
	}
	context := strings.Join(blocks, "\n\n")

	prompt := template
	prompt = strings.ReplaceAll(prompt, "{context}", context)
	prompt = strings.ReplaceAll(prompt, "{history}", formatHistory(history))
	prompt = strings.ReplaceAll(prompt, "{question}", question)

	if language != "" {
		prompt = fmt.Sprintf("Please answer in %s.\n%s", language, prompt)
	}

	return prompt
}

// formatHistory renders chat history as "User:"/"AI:" prefixed lines
func formatHistory(history []models.ChatMessage) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		prefix := "AI:"
		if msg.Role == "user" {
			prefix = "User:"
		}
		lines = append(lines, prefix+" "+msg.Content)
	}
	return strings.Join(lines, "\n")
}

// SuggestFollowups asks the LLM for follow-up questions based on the
// answered question. Lines are cleaned of list markers; empties dropped.
func (s *RAGService) SuggestFollowups(ctx context.Context, question, answer string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Given the answer to the user's question, suggest 3 relevant follow-up questions.\nQuestion: %s\nAnswer: %s\nSuggestions:",
		question, answer,
	)

	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return ParseFollowups(reply), nil
}

// ParseFollowups splits an LLM suggestion reply into individual questions
func ParseFollowups(reply string) []string {
	lines := strings.Split(reply, "\n")
	followups := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• "))
		if line == "" {
			continue
		}
		followups = append(followups, line)
	}
	return followups
}

// persistTurn appends the question/answer pair to the session's message
// log and history. Persistence failures are logged, never surfaced.
func (s *RAGService) persistTurn(ctx context.Context, req *models.ChatRequest, answer string) {
	userMsg := &models.Message{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Sender:    "user",
		Text:      req.Question,
		Language:  req.Language,
	}
	if err := s.sessions.CreateMessage(ctx, userMsg); err != nil {
		s.logger.Printf("[WARN] failed to store user message for session %s: %v", req.SessionID, err)
		return
	}

	aiMsg := &models.Message{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Sender:    "ai",
		Text:      answer,
		Language:  req.Language,
	}
	if err := s.sessions.CreateMessage(ctx, aiMsg); err != nil {
		s.logger.Printf("[WARN] failed to store ai message for session %s: %v", req.SessionID, err)
		return
	}

	history := append(req.History,
		models.ChatMessage{Role: "user", Content: req.Question},
		models.ChatMessage{Role: "ai", Content: answer},
	)
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	if _, err := s.sessions.UpdateSession(ctx, req.SessionID, history, req.Language); err != nil {
		s.logger.Printf("[WARN] failed to update session history %s: %v", req.SessionID, err)
	}
}
