// Package postgres stores pipeline applications in PostgreSQL through a pgx
// connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"finai/internal/pipeline"
	"finai/pkg/platform/sentinel"
)

// Schema creates the applications table. Derived risk fields are never
// stored.
const Schema = `
CREATE TABLE IF NOT EXISTS applications (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	pan           TEXT NOT NULL UNIQUE,
	income        DOUBLE PRECISION NOT NULL CHECK (income > 0),
	loan_amount   DOUBLE PRECISION NOT NULL CHECK (loan_amount > 0),
	age           INTEGER NOT NULL CHECK (age BETWEEN 18 AND 75),
	credit_score  INTEGER NOT NULL CHECK (credit_score BETWEEN 300 AND 900),
	existing_emis DOUBLE PRECISION NOT NULL CHECK (existing_emis >= 0),
	status        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_created_at ON applications (created_at, id);
`

const uniqueViolation = "23505"

const selectColumns = `id, name, pan, income, loan_amount, age, credit_score, existing_emis, status, created_at`

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate applications: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, app *pipeline.Application) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO applications (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		app.ID, app.Name, app.PAN, app.Income, app.LoanAmount, app.Age,
		app.CreditScore, app.ExistingEMIs, string(app.Status), app.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("application with pan %s: %w", app.PAN, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// List returns applications oldest first.
func (s *Store) List(ctx context.Context) ([]pipeline.Application, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+` FROM applications ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	apps, err := pgx.CollectRows(rows, scanApplication)
	if err != nil {
		return nil, fmt.Errorf("scan applications: %w", err)
	}
	return apps, nil
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Application, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+` FROM applications WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	app, err := pgx.CollectExactlyOneRow(rows, scanApplication)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}
	return &app, nil
}

func scanApplication(row pgx.CollectableRow) (pipeline.Application, error) {
	var (
		app    pipeline.Application
		status string
	)
	err := row.Scan(&app.ID, &app.Name, &app.PAN, &app.Income, &app.LoanAmount, &app.Age,
		&app.CreditScore, &app.ExistingEMIs, &status, &app.CreatedAt)
	if err != nil {
		return pipeline.Application{}, err
	}
	app.Status = pipeline.Status(status)
	app.CreatedAt = app.CreatedAt.UTC()
	return app, nil
}
