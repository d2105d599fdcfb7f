package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/polychart/internal/model"
)

// InsertSamples writes a batch of samples for one instrument, skipping
// timestamps already present. Returns the number of rows actually inserted.
func (s *Store) InsertSamples(ctx context.Context, marketID string, samples []model.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, smp := range samples {
		batch.Queue(`
			INSERT INTO samples (market_id, ts, price)
			VALUES ($1, $2, $3)
			ON CONFLICT (market_id, ts) DO NOTHING
		`, marketID, smp.T, smp.P)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range samples {
		ct, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert sample: %w", err)
		}
		if ct.RowsAffected() > 0 {
			inserted++
		}
	}

	return inserted, nil
}

// Samples returns one instrument's full history in ascending timestamp
// order, the ordering the timeline transforms require.
func (s *Store) Samples(ctx context.Context, marketID string) ([]model.Sample, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ts, price
		FROM samples
		WHERE market_id = $1
		ORDER BY ts
	`, marketID)
	if err != nil {
		return nil, fmt.Errorf("query samples %s: %w", marketID, err)
	}
	defer rows.Close()

	var out []model.Sample
	for rows.Next() {
		var smp model.Sample
		if err := rows.Scan(&smp.T, &smp.P); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, smp)
	}

	return out, rows.Err()
}

// LatestTS returns the newest stored timestamp for an instrument, or 0 when
// it has no samples yet. The refresher uses it to fetch incrementally.
func (s *Store) LatestTS(ctx context.Context, marketID string) (int64, error) {
	var ts int64
	err := s.pool.QueryRow(ctx, `
		SELECT ts FROM samples
		WHERE market_id = $1
		ORDER BY ts DESC
		LIMIT 1
	`, marketID).Scan(&ts)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("latest ts %s: %w", marketID, err)
	}
	return ts, nil
}
