// Package cache memoizes prepared chart payloads across renders.
//
// The timeline transforms are pure, so identical (markets, viewport, detail
// level) requests produce identical output; the server caches the encoded
// response instead of recomputing it. Entries expire on TTL and are evicted
// LRU-first, and the refresher clears the cache whenever new samples land.
package cache
