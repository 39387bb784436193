// Package align registers spectral bands against a reference band by
// brute-force search over whole-pixel translations, scored by Pearson
// correlation on the valid overlap.
package align

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"coregister/internal/grid"
)

// Score computes the Pearson correlation between ref and shifted over the
// cells that are valid in both, and returns it with the overlap size.
//
// When the overlap has minOverlap cells or fewer the candidate cannot be
// trusted: the correlation is not computed and NaN is returned so the caller
// can reject on the count alone. A degenerate overlap (zero variance on
// either side) also yields NaN from the correlation itself; NaN never wins a
// greater-than comparison, so such candidates drop out of best tracking
// without special handling.
func Score(ref, shifted *grid.Grid, minOverlap int) (float64, int) {
	rows, cols := ref.Rows(), ref.Cols()

	overlap := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !ref.IsMissing(r, c) && !shifted.IsMissing(r, c) {
				overlap++
			}
		}
	}
	if overlap <= minOverlap {
		return math.NaN(), overlap
	}

	// Matched ordering on both sides: row-major scan over the overlap mask.
	xs := make([]float64, 0, overlap)
	ys := make([]float64, 0, overlap)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !ref.IsMissing(r, c) && !shifted.IsMissing(r, c) {
				xs = append(xs, ref.At(r, c))
				ys = append(ys, shifted.At(r, c))
			}
		}
	}

	return stat.Correlation(xs, ys, nil), overlap
}
