package pia_test

import (
	"testing"

	"ssxwatch/internal/pia"
)

func parseOne(t *testing.T, line string) ([]pia.Record, int) {
	t.Helper()
	parse := pia.NewParser(nil)
	var got []pia.Record
	count := parse(line, func(r pia.Record) { got = append(got, r) })
	return got, count
}

func TestParseValidLine(t *testing.T) {
	records, count := parseOne(t, `{"file-number": 332, "n_spots_total": 50, "n_spots_4A": 42}`)
	if count != 1 || len(records) != 1 {
		t.Fatalf("expected one record, got count=%d records=%v", count, records)
	}
	r := records[0]
	if r.FileNumber != 332 || r.SpotsTotal != 50 || r.SpotsFiltered != 42 {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestParseSkipsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"not json":      `spots: lots`,
		"truncated":     `{"file-number": 1, "n_spots_tot`,
		"missing field": `{"file-number": 1, "n_spots_total": 5}`,
		"wrong type":    `{"file-number": "one", "n_spots_total": 5, "n_spots_4A": 2}`,
		"empty line":    ``,
		"whitespace":    `   `,
		"json array":    `[1, 2, 3]`,
		"null object":   `null`,
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			records, count := parseOne(t, line)
			if count != 0 || len(records) != 0 {
				t.Fatalf("expected line to be skipped, got count=%d records=%v", count, records)
			}
		})
	}
}

func TestParseZeroCounts(t *testing.T) {
	// A miss (no spots) is still a record.
	records, count := parseOne(t, `{"file-number": 7, "n_spots_total": 0, "n_spots_4A": 0}`)
	if count != 1 || len(records) != 1 {
		t.Fatalf("expected one record for zero-count image, got count=%d", count)
	}
	if records[0].SpotsTotal != 0 || records[0].SpotsFiltered != 0 {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}
