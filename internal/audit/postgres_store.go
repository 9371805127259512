package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/wolfman30/caretaker-ai/internal/safety"
)

// PostgresStore keeps the trail in the ai_audit_log table.
type PostgresStore struct {
	db       *sql.DB
	capacity int
}

func NewPostgresStore(db *sql.DB, capacity int) *PostgresStore {
	return &PostgresStore{db: db, capacity: normalizeCapacity(capacity)}
}

// Append inserts entry and evicts everything older than the newest
// capacity rows in the same transaction.
func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("audit: begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ai_audit_log (
			created_at, user_message_hash, response_preview,
			safety_flags, severity, was_substituted
		) VALUES ($1, $2, $3, $4, $5, $6)
	`,
		entry.Timestamp,
		entry.UserMessageHash,
		entry.ResponsePreview,
		pq.Array(entry.SafetyFlags),
		string(entry.Severity),
		entry.WasSubstituted,
	)
	if err != nil {
		return fmt.Errorf("audit: insert entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM ai_audit_log
		WHERE id NOT IN (SELECT id FROM ai_audit_log ORDER BY id DESC LIMIT $1)
	`, s.capacity)
	if err != nil {
		return fmt.Errorf("audit: evict entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("audit: commit append: %w", err)
	}
	return nil
}

// List returns entries oldest first.
func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at, user_message_hash, response_preview,
			safety_flags, severity, was_substituted
		FROM ai_audit_log
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("audit: query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			flags    []string
			severity string
		)
		if err := rows.Scan(&e.Timestamp, &e.UserMessageHash, &e.ResponsePreview, pq.Array(&flags), &severity, &e.WasSubstituted); err != nil {
			return nil, fmt.Errorf("audit: scan entry: %w", err)
		}
		if flags == nil {
			flags = []string{}
		}
		e.SafetyFlags = flags
		e.Severity = safety.Severity(severity)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ai_audit_log`); err != nil {
		return fmt.Errorf("audit: clear entries: %w", err)
	}
	return nil
}
