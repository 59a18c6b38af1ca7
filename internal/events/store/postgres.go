// Package store provides event-record persistence. The PostgreSQL
// implementation backs the service; the in-memory implementation backs tests.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events"
	apperrors "github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id               UUID PRIMARY KEY,
	date             TEXT NOT NULL,
	access_timestamp TEXT NOT NULL,
	location         TEXT NOT NULL,
	theme            TEXT NOT NULL,
	summary          TEXT NOT NULL,
	ai_summary       TEXT NOT NULL,
	sources          JSONB NOT NULL DEFAULT '[]',
	people           JSONB NOT NULL DEFAULT '[]',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const selectColumns = `id, date, access_timestamp, location, theme, summary, ai_summary, sources, people`

// Postgres stores event records in a single jsonb-augmented table.
type Postgres struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewPostgres wraps the shared connection pool.
func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{
		db:     db,
		logger: slog.Default().With("component", "event-store"),
	}
}

// EnsureSchema creates the events table if it does not exist. There is no
// migration machinery; the table shape is stable.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}
	return nil
}

// Insert assigns a fresh id and appends the record. Duplicate content is
// accepted; id is the only uniqueness constraint.
func (p *Postgres) Insert(ctx context.Context, e *events.Event) (string, error) {
	sources, err := json.Marshal(e.Sources)
	if err != nil {
		return "", fmt.Errorf("marshaling sources: %w", err)
	}
	people, err := json.Marshal(e.People)
	if err != nil {
		return "", fmt.Errorf("marshaling people: %w", err)
	}

	id := uuid.NewString()
	_, err = p.db.DB.ExecContext(ctx,
		`INSERT INTO events (id, date, access_timestamp, location, theme, summary, ai_summary, sources, people)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, e.Date, e.AccessTimestamp, e.Location, e.Theme, e.Summary, e.AISummary, sources, people,
	)
	if err != nil {
		return "", fmt.Errorf("inserting event: %w", err)
	}
	p.logger.Debug("event inserted", "id", id, "date", e.Date)
	return id, nil
}

// Find returns all records matching the filter. Each set filter field becomes
// a case-insensitive substring condition; conditions are ANDed. Results come
// back in store-native order.
func (p *Postgres) Find(ctx context.Context, f events.Filter) ([]events.Event, error) {
	query := `SELECT ` + selectColumns + ` FROM events`
	var conds []string
	var args []any
	for _, fld := range []struct {
		column  string
		pattern string
	}{
		{"date", f.Date},
		{"location", f.Location},
		{"theme", f.Theme},
	} {
		if fld.pattern == "" {
			continue
		}
		args = append(args, fld.pattern)
		conds = append(conds, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", fld.column, len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := p.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	records := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return records, nil
}

// FindByID returns the record with the given id. A non-UUID id is a
// malformed-id failure, distinct from a valid id with no record.
func (p *Postgres) FindByID(ctx context.Context, id string) (*events.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrInvalidEventID
	}

	row := p.db.DB.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*events.Event, error) {
	var e events.Event
	var sources, people []byte
	err := s.Scan(&e.ID, &e.Date, &e.AccessTimestamp, &e.Location, &e.Theme,
		&e.Summary, &e.AISummary, &sources, &people)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning event row: %w", err)
	}
	if err := json.Unmarshal(sources, &e.Sources); err != nil {
		return nil, fmt.Errorf("decoding sources for event %s: %w", e.ID, err)
	}
	if err := json.Unmarshal(people, &e.People); err != nil {
		return nil, fmt.Errorf("decoding people for event %s: %w", e.ID, err)
	}
	return &e, nil
}
