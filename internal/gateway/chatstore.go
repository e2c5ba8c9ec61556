package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nselim/graphdesk/internal/db"
)

// ChatMessage is one stored turn of a chat session.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatStore persists chat sessions so the Q&A panel survives reloads.
type ChatStore struct {
	db *db.DB
}

// NewChatStore creates a chat store over the given database.
func NewChatStore(d *db.DB) *ChatStore {
	return &ChatStore{db: d}
}

// CreateSession starts a new chat session and returns its ID.
func (s *ChatStore) CreateSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO chat_sessions (id) VALUES (?)`, id)
	if err != nil {
		return "", fmt.Errorf("creating chat session: %w", err)
	}
	return id, nil
}

// AppendMessage stores one message in a session.
func (s *ChatStore) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), sessionID, role, content)
	if err != nil {
		return fmt.Errorf("appending chat message: %w", err)
	}
	return nil
}

// Messages returns a session's messages in chronological order.
func (s *ChatStore) Messages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM chat_messages WHERE session_id = ? ORDER BY created_at, id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
