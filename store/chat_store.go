package store

import (
	"context"
	"database/sql"
	"fmt"

	"visittrack/api/database"
	"visittrack/api/models"
)

type ChatStore struct {
	db *database.DBClient
}

func NewChatStore(db *database.DBClient) *ChatStore {
	return &ChatStore{db: db}
}

// InsertChatLog appends one message to the chat log. An empty sessionID is
// stored as models.AnonymousSession.
func (s *ChatStore) InsertChatLog(ctx context.Context, sessionID, role, message string) (int64, error) {
	if sessionID == "" {
		sessionID = models.AnonymousSession
	}

	var id int64
	err := s.db.DB.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO chat_logs (session_id, role, message)
		VALUES (?, ?, ?)
		RETURNING id
	`), sessionID, role, message).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s chat log: %w", role, err)
	}
	return id, nil
}

// ListChatLogs returns the newest entries first, optionally for one session.
func (s *ChatStore) ListChatLogs(ctx context.Context, limit int, sessionID string) ([]models.ChatLogEntry, error) {
	query := `SELECT id, timestamp, session_id, role, message FROM chat_logs`
	var args []interface{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.DB.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat logs: %w", err)
	}
	defer rows.Close()

	entries := []models.ChatLogEntry{}
	for rows.Next() {
		var (
			e       models.ChatLogEntry
			ts      sql.NullTime
			session sql.NullString
			role    sql.NullString
			message sql.NullString
		)
		if err := rows.Scan(&e.ID, &ts, &session, &role, &message); err != nil {
			return nil, fmt.Errorf("failed to scan chat log row: %w", err)
		}
		e.Timestamp = ts.Time
		e.SessionID = session.String
		e.Role = role.String
		e.Message = message.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat log rows: %w", err)
	}
	return entries, nil
}
