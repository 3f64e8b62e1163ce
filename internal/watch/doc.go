// Package watch fans results from a tailed file out to any number of
// subscribers.
//
// A Watcher binds one tail.Tailer, one record store, and a set of listener
// queues to a single results file. Its background loop parses each batch
// of lines with an injected parser strategy, appends the records, and
// broadcasts the count of newly available records to every listener
// without blocking. A Registry shares one Watcher per (kind, path) for the
// life of the process; a Subscription wraps one listener queue and turns
// delta notifications back into record slices.
//
// Listener queues are unbounded: a consumer that stops draining
// accumulates pending deltas rather than exerting backpressure on the
// watcher loop. Watchers and registry entries are never evicted, so a
// watcher for a path that never materializes polls for existence
// indefinitely. Both are deliberate simplifications for the small, known
// set of files a beamline session produces.
package watch
