// Package session keeps per-conversation chat history so the UI and CLI can
// replay a conversation. History is display state only; the SQL pipeline
// never feeds it back into generation.
package session

import (
	"context"
	"time"
)

type Message struct {
	Text      string    `json:"text"`
	FromUser  bool      `json:"from_user"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	// Append records a message at the end of the session's history.
	Append(ctx context.Context, sessionID string, msg Message) error
	// History returns the session's messages in append order. An unknown
	// session yields an empty slice, not an error.
	History(ctx context.Context, sessionID string) ([]Message, error)
}
