package pia

import (
	"encoding/json"
	"log/slog"
	"strings"

	"ssxwatch/internal/logging"
	"ssxwatch/internal/watch"
)

// NewParser returns the parser strategy for PIA results files: one JSON
// object per line with file-number, n_spots_total, and n_spots_4A all
// required. Lines that fail to decode or lack a required field are logged
// and skipped; malformed data never stops the watch loop.
func NewParser(logger *slog.Logger) watch.ParseFunc[Record] {
	logger = logging.WithComponent(logger, "pia-parser")
	return func(line string, emit func(Record)) int {
		if strings.TrimSpace(line) == "" {
			return 0
		}

		var raw struct {
			FileNumber    *int64 `json:"file-number"`
			SpotsTotal    *int64 `json:"n_spots_total"`
			SpotsFiltered *int64 `json:"n_spots_4A"`
		}
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			logger.Warn("line was not a valid JSON object, ignoring", logging.String("line", line))
			return 0
		}
		if raw.FileNumber == nil || raw.SpotsTotal == nil || raw.SpotsFiltered == nil {
			logger.Warn("could not read file-number, n_spots_total or n_spots_4A", logging.String("line", line))
			return 0
		}

		emit(Record{
			FileNumber:    *raw.FileNumber,
			SpotsTotal:    *raw.SpotsTotal,
			SpotsFiltered: *raw.SpotsFiltered,
		})
		return 1
	}
}
