// Package postgres persists chat history in PostgreSQL for deployments
// where sessions must survive restarts.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/windforest/windforest/internal/session"
)

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sessions dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sessions db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sessions db: %w", err)
	}

	return db, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the chat_messages table if it does not exist yet.
// Called once at startup so a fresh database needs no manual migration.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS chat_messages (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    session_id TEXT NOT NULL,
    body TEXT NOT NULL,
    from_user BOOLEAN NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("ensure chat_messages table: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS chat_messages_session_idx ON chat_messages (session_id, id)`)
	if err != nil {
		return fmt.Errorf("ensure chat_messages index: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, sessionID string, msg session.Message) error {
	query := `
INSERT INTO chat_messages (session_id, body, from_user)
VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, sessionID, msg.Text, msg.FromUser); err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	return nil
}

func (s *Store) History(ctx context.Context, sessionID string) ([]session.Message, error) {
	query := `
SELECT body, from_user, created_at
FROM chat_messages
WHERE session_id = $1
ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	messages := make([]session.Message, 0)
	for rows.Next() {
		var msg session.Message
		if err := rows.Scan(&msg.Text, &msg.FromUser, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat history: %w", err)
	}
	return messages, nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sessions db: %w", err)
	}
	return nil
}
