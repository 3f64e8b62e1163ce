package pia

import "ssxwatch/internal/watch"

// Kind is the registry kind for per-image analysis results files.
const Kind watch.Kind = "pia"

// Record is one per-image analysis result.
type Record struct {
	// FileNumber is the 1-based index of the image within its collection.
	FileNumber int64 `json:"file-number"`
	// SpotsTotal is the total number of spots found on the image.
	SpotsTotal int64 `json:"n_spots_total"`
	// SpotsFiltered is the number of spots at 4 Angstrom resolution or
	// better, the count used for hit-rate display.
	SpotsFiltered int64 `json:"n_spots_4A"`
}
