package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	audit "finai/pkg/platform/audit"
	txcontext "finai/pkg/platform/tx"
)

// Schema creates the audit_events table. Migrate applies it idempotently.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	category   TEXT NOT NULL,
	timestamp  TIMESTAMPTZ NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	action     TEXT NOT NULL,
	decision   TEXT NOT NULL DEFAULT '',
	reason     TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	client_ip  TEXT NOT NULL DEFAULT '',
	device     TEXT NOT NULL DEFAULT '',
	payload    JSONB
);
CREATE INDEX IF NOT EXISTS audit_events_timestamp_idx ON audit_events (timestamp DESC);
`

// Store implements audit.Store on database/sql with the lib/pq driver.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the audit tables if they do not exist, in one transaction.
func (s *Store) Migrate(ctx context.Context) error {
	err := txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		_, err := s.execer(ctx).ExecContext(ctx, Schema)
		return err
	})
	if err != nil {
		return fmt.Errorf("migrate audit schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append inserts an audit event. Category is always derived from the action.
// Duplicate IDs are ignored so replays are idempotent.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	category := audit.AuditEvent(event.Action).Category()

	// JSONB goes over the wire as text; lib/pq would encode []byte as bytea.
	var payload sql.NullString
	if len(event.Payload) > 0 {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		payload = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		INSERT INTO audit_events (
			id, category, timestamp, subject, action,
			decision, reason, request_id, client_ip, device, payload
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		event.ID,
		string(category),
		event.Timestamp,
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		event.Device,
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT id, category, timestamp, subject, action,
			   decision, reason, request_id, client_ip, device, payload
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

// scanEvents scans multiple rows into audit.Event slice.
func (s *Store) scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category string
			payload  []byte
			event    audit.Event
		)

		err := rows.Scan(
			&event.ID,
			&category,
			&event.Timestamp,
			&event.Subject,
			&event.Action,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&event.ClientIP,
			&event.Device,
			&payload,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &event.Payload); err != nil {
				return nil, fmt.Errorf("decode audit payload: %w", err)
			}
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}
