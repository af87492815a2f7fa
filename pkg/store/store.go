// Package store records conversion history in PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no conversion matches.
var ErrNotFound = errors.New("conversion not found")

// Conversion is one stored conversion.
type Conversion struct {
	ID          uuid.UUID       `json:"id"`
	DocumentID  string          `json:"doc_id"`
	Format      string          `json:"format"`
	Status      string          `json:"status"`
	TripleCount int             `json:"triple_count"`
	Degraded    bool            `json:"degraded"`
	Input       json.RawMessage `json:"input"`
	ArchiveKey  string          `json:"archive_key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Store persists conversions using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and creates the schema if needed.
func New(ctx context.Context, databaseURL string, maxConns int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversions (
		id UUID PRIMARY KEY,
		doc_id TEXT NOT NULL,
		format TEXT NOT NULL,
		status TEXT NOT NULL,
		triple_count INTEGER NOT NULL DEFAULT 0,
		degraded BOOLEAN NOT NULL DEFAULT FALSE,
		input JSONB NOT NULL,
		archive_key TEXT,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversions_doc_created ON conversions(doc_id, created_at DESC);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Insert stores c, assigning an id and timestamp when unset.
func (s *Store) Insert(ctx context.Context, c *Conversion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	input := c.Input
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	query := `
		INSERT INTO conversions (id, doc_id, format, status, triple_count, degraded, input, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	`
	_, err := s.pool.Exec(ctx, query,
		c.ID,
		c.DocumentID,
		c.Format,
		c.Status,
		c.TripleCount,
		c.Degraded,
		[]byte(input),
		c.ArchiveKey,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversion: %w", err)
	}
	return nil
}

const selectColumns = `id, doc_id, format, status, triple_count, degraded, input, COALESCE(archive_key, ''), created_at`

// Get returns the conversion with id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Conversion, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM conversions WHERE id = $1`, id)
	return scanConversion(row)
}

// Latest returns the most recent conversion of documentID.
func (s *Store) Latest(ctx context.Context, documentID string) (*Conversion, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+selectColumns+`
		FROM conversions
		WHERE doc_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, documentID)
	return scanConversion(row)
}

// List returns up to limit conversions of documentID, newest first.
func (s *Store) List(ctx context.Context, documentID string, limit int) ([]Conversion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM conversions
		WHERE doc_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var out []Conversion
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	return out, nil
}

func scanConversion(row pgx.Row) (*Conversion, error) {
	c := &Conversion{}
	var input []byte
	err := row.Scan(
		&c.ID,
		&c.DocumentID,
		&c.Format,
		&c.Status,
		&c.TripleCount,
		&c.Degraded,
		&input,
		&c.ArchiveKey,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion: %w", err)
	}
	c.Input = json.RawMessage(input)
	return c, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
