package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	AnonymousSession = "anonymous"
)

type ChatLogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ChatResponse struct {
	Response string `json:"response"`
}
