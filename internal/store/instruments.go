package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/polychart/internal/model"
)

// Store persists the instrument catalog and price samples.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping verifies the connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// UpsertInstruments writes catalog entries, replacing existing rows.
func (s *Store) UpsertInstruments(ctx context.Context, instruments []model.Instrument) error {
	if len(instruments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, in := range instruments {
		batch.Queue(`
			INSERT INTO instruments (id, question, slug, token_id, volume, active, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				question = EXCLUDED.question,
				slug = EXCLUDED.slug,
				token_id = EXCLUDED.token_id,
				volume = EXCLUDED.volume,
				active = EXCLUDED.active,
				updated_at = EXCLUDED.updated_at
		`, in.ID, in.Question, in.Slug, in.TokenID, in.Volume, in.Active, in.UpdatedAt)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range instruments {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert instrument: %w", err)
		}
	}

	return nil
}

// ListInstruments returns the catalog ordered by descending volume, so the
// main candidates come first.
func (s *Store) ListInstruments(ctx context.Context) ([]model.Instrument, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, slug, token_id, volume, active, updated_at
		FROM instruments
		ORDER BY volume DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	defer rows.Close()

	var out []model.Instrument
	for rows.Next() {
		var in model.Instrument
		if err := rows.Scan(&in.ID, &in.Question, &in.Slug, &in.TokenID,
			&in.Volume, &in.Active, &in.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		out = append(out, in)
	}

	return out, rows.Err()
}
