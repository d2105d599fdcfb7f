// Package model defines shared data types used across polychart.
//
// Conventions:
//   - Prices: float64 probabilities in [0, 1]
//   - Timestamps: int64 seconds since Unix epoch (minute resolution upstream)
//   - IDs: Polymarket market IDs (opaque strings)
package model
