// Package server implements the chart HTTP and WebSocket API.
//
// The server:
//   - Serves the instrument catalog and viewport-sampled chart data
//   - Caches encoded chart payloads, invalidated on each refresh run
//   - Pushes refresh notices to WebSocket subscribers on /api/v1/live
//   - Compresses responses with zstd when the client accepts it
package server
