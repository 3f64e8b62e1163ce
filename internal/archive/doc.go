// Package archive persists parsed per-image analysis records in SQLite.
//
// The collector daemon drains each watched file into the archive so
// historic results survive a restart, while the in-memory stores keep
// serving live subscribers. Rows are keyed by (kind, path, idx), where idx
// is the record's position in its file's append order; re-inserting an
// existing position is a no-op, which makes the daemon's catch-up after a
// restart idempotent. Subscriber offsets are deliberately not persisted.
package archive
