// Package refresh implements the background data refresher.
//
// The refresher:
//   - Re-fetches the configured event catalog on a fixed interval
//   - Pulls incremental price history per instrument, bounded concurrently
//   - Writes new samples to the store and mirrors them into the archive
//   - Notifies a handler after each run so charts can be invalidated
package refresh
