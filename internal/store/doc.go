// Package store persists the instrument catalog and minute-resolution
// price samples in Postgres (TimescaleDB-friendly schema).
//
// Tables:
//
//	instruments (id TEXT PRIMARY KEY, question TEXT, slug TEXT, token_id TEXT,
//	             volume DOUBLE PRECISION, active BOOLEAN, updated_at BIGINT)
//	samples     (market_id TEXT, ts BIGINT, price DOUBLE PRECISION,
//	             PRIMARY KEY (market_id, ts))
//
// Timestamps are seconds since epoch; prices are probabilities in [0,1].
package store
