package align

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"coregister/internal/grid"
)

// Params configures the translation search.
type Params struct {
	MaxShift   int  // Search window half-width; candidates span [-MaxShift, MaxShift] on both axes
	MinOverlap int  // Candidates with this many overlap cells or fewer are rejected
	Workers    int  // Parallel candidate evaluators; 0 means one per CPU
	Debug      bool // Enable progress output
}

// DefaultParams returns the standard search configuration.
func DefaultParams() Params {
	return Params{
		MaxShift:   20,
		MinOverlap: 1000,
	}
}

// Result is the outcome of one translation search. The zero-value shift with
// a correlation of -Inf is the sentinel for "no candidate qualified".
type Result struct {
	grid.Shift
	Correlation float64
	Overlap     int
}

// Confident reports whether the search found at least one qualifying
// candidate. A non-confident result still carries the zero shift, which
// callers apply as-is.
func (r Result) Confident() bool {
	return r.Correlation > math.Inf(-1)
}

func (r Result) String() string {
	if !r.Confident() {
		return fmt.Sprintf("Result[%s, no confident alignment]", r.Shift)
	}
	return fmt.Sprintf("Result[%s, cor=%.4f, overlap=%d]", r.Shift, r.Correlation, r.Overlap)
}

// candidate holds one trial shift and its score. Candidates live in a slice
// ordered by enumeration, so the reduction can scan them in that order and
// keep the tie-break (earliest candidate wins exact ties) identical to a
// sequential search no matter how the scoring was scheduled.
type candidate struct {
	shift grid.Shift
	cor   float64
	count int
}

// Search exhaustively evaluates every whole-pixel shift of target within
// [-MaxShift, MaxShift] x [-MaxShift, MaxShift], dx ascending then dy
// ascending, and returns the one whose shifted target correlates best with
// ref. Candidates with insufficient overlap or undefined correlation are
// skipped. If nothing qualifies, the sentinel result (zero shift,
// correlation -Inf) is returned.
func Search(ref, target *grid.Grid, p Params) (Result, error) {
	if !ref.SameShape(target) {
		return Result{}, fmt.Errorf("shape mismatch: ref %dx%d, target %dx%d",
			ref.Rows(), ref.Cols(), target.Rows(), target.Cols())
	}
	if p.MaxShift < 0 {
		return Result{}, fmt.Errorf("negative search window %d", p.MaxShift)
	}

	span := 2*p.MaxShift + 1
	cands := make([]candidate, 0, span*span)
	for dx := -p.MaxShift; dx <= p.MaxShift; dx++ {
		for dy := -p.MaxShift; dy <= p.MaxShift; dy++ {
			cands = append(cands, candidate{shift: grid.Shift{DX: dx, DY: dy}})
		}
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(cands) {
		workers = len(cands)
	}

	if p.Debug {
		fmt.Printf("Search: %d candidates (window ±%d), %d workers\n",
			len(cands), p.MaxShift, workers)
	}

	// Each worker owns a disjoint set of indices, so results are written
	// without locking; only the jobs channel is shared.
	jobs := make(chan int, len(cands))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				shifted := target.Apply(cands[i].shift)
				cands[i].cor, cands[i].count = Score(ref, shifted, p.MinOverlap)
			}
		}()
	}
	for i := range cands {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Strict greater-than keeps the earliest-enumerated candidate on ties,
	// and rejects NaN scores without a separate check.
	best := Result{Correlation: math.Inf(-1)}
	for _, c := range cands {
		if c.cor > best.Correlation {
			best = Result{Shift: c.shift, Correlation: c.cor, Overlap: c.count}
		}
	}

	if p.Debug {
		fmt.Printf("Search: best %s\n", best)
	}

	return best, nil
}
