// Package pia defines the per-image analysis record kind.
//
// The hit-finding pipeline appends one JSON object per processed image to
// its results file, carrying the image's file number and the spot counts
// found at full and at 4 Angstrom resolution. This package owns that wire
// format and the parser strategy that turns one line into one Record.
package pia
