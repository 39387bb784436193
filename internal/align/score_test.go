package align

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"coregister/internal/grid"
)

// texture returns a deterministic non-linear pattern rich enough that only a
// perfectly matched shift correlates at 1.
func texture(r, c int) float64 {
	return math.Sin(float64(r*31+c*17)) * 1000
}

func TestScore_PerfectCorrelation(t *testing.T) {
	t.Parallel()

	g := grid.Generate(10, 10, texture)
	cor, overlap := Score(g, g.Clone(), 0)

	assert.Equal(t, 100, overlap)
	assert.InDelta(t, 1.0, cor, 1e-9)
}

func TestScore_AntiCorrelation(t *testing.T) {
	t.Parallel()

	g := grid.Generate(10, 10, texture)
	neg := grid.Generate(10, 10, func(r, c int) float64 { return -texture(r, c) })

	cor, overlap := Score(g, neg, 0)
	assert.Equal(t, 100, overlap)
	assert.InDelta(t, -1.0, cor, 1e-9)
}

func TestScore_OverlapCountsBothValid(t *testing.T) {
	t.Parallel()

	a := grid.Generate(4, 4, texture)
	b := grid.Generate(4, 4, texture)
	a.SetMissing(0, 0)
	b.SetMissing(0, 0) // overlaps with a's hole
	b.SetMissing(3, 3)

	_, overlap := Score(a, b, 0)
	assert.Equal(t, 14, overlap)
}

func TestScore_InsufficientOverlap(t *testing.T) {
	t.Parallel()

	g := grid.Generate(10, 10, texture)
	cor, overlap := Score(g, g.Clone(), 100) // 100 cells <= threshold 100

	assert.Equal(t, 100, overlap)
	assert.True(t, math.IsNaN(cor), "correlation must not be computed below the overlap threshold")
}

func TestScore_ZeroVarianceIsNaN(t *testing.T) {
	t.Parallel()

	flat := grid.Generate(10, 10, func(r, c int) float64 { return 7 })
	rich := grid.Generate(10, 10, texture)

	cor, overlap := Score(rich, flat, 0)
	assert.Equal(t, 100, overlap)
	assert.True(t, math.IsNaN(cor), "degenerate overlap must yield NaN")

	// NaN never beats any running best, including -Inf.
	assert.False(t, cor > math.Inf(-1))
}
