package repositories

import (
	"context"
	"encoding/json"
	"time"

	"autorag/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "session:"
	messagesKeyPrefix = "session:messages:"
	prefKeyPrefix     = "preference:"
)

// RedisSessionRepository implements SessionRepository and
// PreferenceRepository using Redis
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a new Redis-based session repository
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
	}
}

// CreateSession stores a new chat session
func (r *RedisSessionRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	session.CreatedAt = time.Now()
	if session.History == nil {
		session.History = []models.ChatMessage{}
	}
	if session.Language == "" {
		session.Language = "en"
	}

	data, err := json.Marshal(session)
	if err != nil {
		return NewRepositoryError("create_session", session.ID, err, "failed to marshal session")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, data, 0)
	pipe.SAdd(ctx, projectSessPrefix+session.ProjectID, session.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewRepositoryError("create_session", session.ID, err, "")
	}

	return nil
}

// GetSession retrieves a chat session by ID
func (r *RedisSessionRepository) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, SessionNotFoundError(sessionID)
	}
	if err != nil {
		return nil, NewRepositoryError("get_session", sessionID, err, "")
	}

	var session models.ChatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, NewRepositoryError("get_session", sessionID, err, "failed to unmarshal session")
	}

	return &session, nil
}

// UpdateSession replaces the session history as a whole. Language changes
// only when non-empty.
func (r *RedisSessionRepository) UpdateSession(ctx context.Context, sessionID string, history []models.ChatMessage, language string) (*models.ChatSession, error) {
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if history == nil {
		history = []models.ChatMessage{}
	}
	session.History = history
	if language != "" {
		session.Language = language
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, NewRepositoryError("update_session", sessionID, err, "failed to marshal session")
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+sessionID, data, 0).Err(); err != nil {
		return nil, NewRepositoryError("update_session", sessionID, err, "")
	}

	return session, nil
}

// CreateMessage appends a message to a session's message log
func (r *RedisSessionRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, sessionKeyPrefix+msg.SessionID).Result()
	if err != nil {
		return NewRepositoryError("create_message", msg.SessionID, err, "")
	}
	if exists == 0 {
		return SessionNotFoundError(msg.SessionID)
	}

	msg.Timestamp = time.Now()
	if msg.Language == "" {
		msg.Language = "en"
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return NewRepositoryError("create_message", msg.ID, err, "failed to marshal message")
	}

	if err := r.client.RPush(ctx, messagesKeyPrefix+msg.SessionID, data).Err(); err != nil {
		return NewRepositoryError("create_message", msg.ID, err, "")
	}

	return nil
}

// ListMessages returns a session's messages in insertion order
func (r *RedisSessionRepository) ListMessages(ctx context.Context, sessionID string) ([]*models.Message, error) {
	items, err := r.client.LRange(ctx, messagesKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, NewRepositoryError("list_messages", sessionID, err, "")
	}

	msgs := make([]*models.Message, 0, len(items))
	for _, item := range items {
		var msg models.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, NewRepositoryError("list_messages", sessionID, err, "failed to unmarshal message")
		}
		msgs = append(msgs, &msg)
	}

	return msgs, nil
}

// Get retrieves a preference record, falling back to defaults when the
// record does not exist yet.
func (r *RedisSessionRepository) Get(ctx context.Context, prefID string) (*models.UserPreference, error) {
	data, err := r.client.Get(ctx, prefKeyPrefix+prefID).Result()
	if err == redis.Nil {
		return &models.UserPreference{ID: prefID, Language: "en"}, nil
	}
	if err != nil {
		return nil, NewRepositoryError("get_preference", prefID, err, "")
	}

	var pref models.UserPreference
	if err := json.Unmarshal([]byte(data), &pref); err != nil {
		return nil, NewRepositoryError("get_preference", prefID, err, "failed to unmarshal preference")
	}

	return &pref, nil
}

// Update applies a partial preference update and returns the result
func (r *RedisSessionRepository) Update(ctx context.Context, prefID string, update *models.PreferenceUpdate) (*models.UserPreference, error) {
	pref, err := r.Get(ctx, prefID)
	if err != nil {
		return nil, err
	}

	update.Apply(pref)

	data, err := json.Marshal(pref)
	if err != nil {
		return nil, NewRepositoryError("update_preference", prefID, err, "failed to marshal preference")
	}

	if err := r.client.Set(ctx, prefKeyPrefix+prefID, data, 0).Err(); err != nil {
		return nil, NewRepositoryError("update_preference", prefID, err, "")
	}

	return pref, nil
}
