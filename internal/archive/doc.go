// Package archive keeps the most recently fetched histories and catalog in
// an embedded BadgerDB. It is the fallback data source: chartd can serve
// charts from it when Postgres is down, and chartsnap can render offline
// from a previous run's data.
package archive
