// Package store provides the append-only record buffer backing a watched
// results file.
//
// A Store holds every record parsed from one file, in file order, and grows
// by amortized doubling as the producing pipeline appends. Exactly one
// goroutine (the owning watcher loop) appends; any number of readers may
// slice concurrently. Records are never mutated or removed once appended,
// so an index handed to a subscriber stays valid for the life of the store.
package store
