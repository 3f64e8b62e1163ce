package watch

// KindRawLines is the parser kind for files whose lines carry no
// structure worth decoding.
const KindRawLines Kind = "lines"

// RawLines returns a parser that emits every line verbatim as a single
// string record.
func RawLines() ParseFunc[string] {
	return func(line string, emit func(string)) int {
		emit(line)
		return 1
	}
}
