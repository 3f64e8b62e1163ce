// Package tail follows a line-oriented results file as an external pipeline
// appends to it.
//
// A Tailer first waits for the file to exist, polling on a fixed interval,
// then reads newly available bytes indefinitely, reassembling lines split
// across read boundaries. Complete lines are delivered in batches on a
// channel; a trailing fragment without a terminator is buffered until a
// later write completes it. Reaching the current end of file is treated as
// "no data right now", never end of stream.
//
// Truncation, rotation, and deletion of the file mid-read are not detected;
// the producing pipeline only ever appends.
package tail
