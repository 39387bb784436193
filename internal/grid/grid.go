// Package grid provides the 2D sample grid that band alignment operates on.
// Cells hold float64 samples; NaN marks a cell as missing (no-data).
package grid

import (
	"fmt"
	"math"
)

// Grid is a rows x cols array of samples in row-major order.
// A NaN sample means the cell carries no data and is excluded from
// statistical computations.
type Grid struct {
	rows, cols int
	data       []float64
}

// Shift is a whole-pixel translation: DX columns right, DY rows down.
type Shift struct {
	DX, DY int
}

func (s Shift) String() string {
	return fmt.Sprintf("(dx=%d, dy=%d)", s.DX, s.DY)
}

// Inverse returns the shift that undoes s.
func (s Shift) Inverse() Shift {
	return Shift{DX: -s.DX, DY: -s.DY}
}

// New creates a grid with every cell missing.
func New(rows, cols int) *Grid {
	if rows < 0 || cols < 0 {
		rows, cols = 0, 0
	}
	g := &Grid{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
	nan := math.NaN()
	for i := range g.data {
		g.data[i] = nan
	}
	return g
}

// FromValues creates a grid from row-major values. The slice is copied.
func FromValues(rows, cols int, values []float64) (*Grid, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", rows, cols)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("value count mismatch: got %d, need %d", len(values), rows*cols)
	}
	g := &Grid{
		rows: rows,
		cols: cols,
		data: make([]float64, len(values)),
	}
	copy(g.data, values)
	return g, nil
}

// Generate creates a grid by evaluating fn at every (row, col).
// fn may return NaN to mark a cell missing.
func Generate(rows, cols int, fn func(row, col int) float64) *Grid {
	g := New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.data[r*cols+c] = fn(r, c)
		}
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the sample at (row, col). Coordinates must be in range.
func (g *Grid) At(row, col int) float64 {
	return g.data[row*g.cols+col]
}

// Set stores a sample at (row, col).
func (g *Grid) Set(row, col int, v float64) {
	g.data[row*g.cols+col] = v
}

// SetMissing marks the cell at (row, col) as having no data.
func (g *Grid) SetMissing(row, col int) {
	g.data[row*g.cols+col] = math.NaN()
}

// IsMissing reports whether the cell at (row, col) carries no data.
func (g *Grid) IsMissing(row, col int) bool {
	return math.IsNaN(g.data[row*g.cols+col])
}

// SameShape reports whether g and o have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g.rows == o.rows && g.cols == o.cols
}

// ValidCount returns the number of non-missing cells.
func (g *Grid) ValidCount() int {
	n := 0
	for _, v := range g.data {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		rows: g.rows,
		cols: g.cols,
		data: make([]float64, len(g.data)),
	}
	copy(c.data, g.data)
	return c
}

// Shifted returns a translated copy of g. Each source cell (row, col) lands
// at (row+dy, col+dx) when that destination is inside the grid; everything
// else in the result stays missing. Source cells pushed out of bounds are
// dropped, not wrapped. A shift larger than the grid yields an all-missing
// grid.
func (g *Grid) Shifted(dx, dy int) *Grid {
	out := New(g.rows, g.cols)
	for r := 0; r < g.rows; r++ {
		dr := r + dy
		if dr < 0 || dr >= g.rows {
			continue
		}
		for c := 0; c < g.cols; c++ {
			dc := c + dx
			if dc < 0 || dc >= g.cols {
				continue
			}
			out.data[dr*g.cols+dc] = g.data[r*g.cols+c]
		}
	}
	return out
}

// Apply is Shifted with a Shift value.
func (g *Grid) Apply(s Shift) *Grid {
	return g.Shifted(s.DX, s.DY)
}

// Values returns the underlying row-major samples. The slice is shared with
// the grid; callers must not modify it.
func (g *Grid) Values() []float64 {
	return g.data
}
