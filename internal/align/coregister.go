package align

import (
	"fmt"

	"coregister/internal/grid"
)

// BandResult is one aligned band: the grid after applying the winning shift,
// plus the search outcome that produced it. The reference band appears with
// the zero shift and a correlation of 1.
type BandResult struct {
	Name string
	Result
	Grid *grid.Grid
}

// Coregister aligns every band in the set to the named reference band and
// returns one result per band, in the set's order.
//
// The reference band is passed through untouched. Every other band is
// searched against the reference and re-shifted by the winner. A band for
// which no candidate qualifies keeps the zero shift (a copy of its input)
// and reports Confident() == false; the run does not abort for it. Real
// failures (unknown reference, mismatched shapes) abort with no partial
// results.
func Coregister(bands *BandSet, reference string, p Params) ([]BandResult, error) {
	ref := bands.Grid(reference)
	if ref == nil {
		return nil, fmt.Errorf("reference band %q not in set", reference)
	}

	// Shape check up front so a mismatch cannot surface mid-run.
	for _, name := range bands.Names() {
		if g := bands.Grid(name); !ref.SameShape(g) {
			return nil, fmt.Errorf("band %q shape mismatch: %dx%d vs reference %dx%d",
				name, g.Rows(), g.Cols(), ref.Rows(), ref.Cols())
		}
	}

	results := make([]BandResult, 0, bands.Len())
	for _, name := range bands.Names() {
		g := bands.Grid(name)

		if name == reference {
			results = append(results, BandResult{
				Name:   name,
				Result: Result{Correlation: 1, Overlap: g.ValidCount()},
				Grid:   g.Clone(),
			})
			continue
		}

		res, err := Search(ref, g, p)
		if err != nil {
			return nil, fmt.Errorf("band %q: %w", name, err)
		}
		if p.Debug {
			if res.Confident() {
				fmt.Printf("Coregister: band %q -> %s\n", name, res)
			} else {
				fmt.Printf("Coregister: band %q found no confident alignment, keeping zero shift\n", name)
			}
		}

		results = append(results, BandResult{
			Name:   name,
			Result: res,
			Grid:   g.Apply(res.Shift),
		})
	}

	return results, nil
}
