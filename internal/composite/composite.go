// Package composite renders aligned band grids for visual inspection:
// false-color RGB combinations and before/after panels.
package composite

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"coregister/internal/grid"
)

// FalseColor combines three bands into an RGB image, one band per channel
// (e.g. NIR/Red/Green for a vegetation composite). Each band is normalized
// to its own valid min/max. Cells missing in any channel come out
// transparent black. The bands must share dimensions.
func FalseColor(r, g, b *grid.Grid) (*image.RGBA, error) {
	if !r.SameShape(g) || !r.SameShape(b) {
		return nil, fmt.Errorf("channel shape mismatch: %dx%d, %dx%d, %dx%d",
			r.Rows(), r.Cols(), g.Rows(), g.Cols(), b.Rows(), b.Cols())
	}

	rLo, rHi := valueRange(r)
	gLo, gHi := valueRange(g)
	bLo, bHi := valueRange(b)

	img := image.NewRGBA(image.Rect(0, 0, r.Cols(), r.Rows()))
	for row := 0; row < r.Rows(); row++ {
		for col := 0; col < r.Cols(); col++ {
			if r.IsMissing(row, col) || g.IsMissing(row, col) || b.IsMissing(row, col) {
				continue
			}
			img.SetRGBA(col, row, color.RGBA{
				R: normalize(r.At(row, col), rLo, rHi),
				G: normalize(g.At(row, col), gLo, gHi),
				B: normalize(b.At(row, col), bLo, bHi),
				A: 255,
			})
		}
	}
	return img, nil
}

// Grayscale renders a single band, normalized to its valid range. Missing
// cells come out black.
func Grayscale(g *grid.Grid) *image.Gray16 {
	lo, hi := valueRange(g)
	img := image.NewGray16(image.Rect(0, 0, g.Cols(), g.Rows()))
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			if g.IsMissing(row, col) {
				continue
			}
			frac := 0.0
			if hi > lo {
				frac = (g.At(row, col) - lo) / (hi - lo)
			}
			img.SetGray16(col, row, color.Gray16{Y: uint16(clamp(frac, 0, 1) * 65535)})
		}
	}
	return img
}

// SideBySide places two renderings next to each other, scaled to a common
// height, for before/after comparison.
func SideBySide(left, right image.Image) *image.RGBA {
	lb, rb := left.Bounds(), right.Bounds()

	height := lb.Dy()
	if rb.Dy() > height {
		height = rb.Dy()
	}
	lw := scaledWidth(lb, height)
	rw := scaledWidth(rb, height)

	out := image.NewRGBA(image.Rect(0, 0, lw+rw, height))
	draw.CatmullRom.Scale(out, image.Rect(0, 0, lw, height), left, lb, draw.Src, nil)
	draw.CatmullRom.Scale(out, image.Rect(lw, 0, lw+rw, height), right, rb, draw.Src, nil)
	return out
}

func scaledWidth(b image.Rectangle, height int) int {
	if b.Dy() == 0 {
		return 0
	}
	return b.Dx() * height / b.Dy()
}

// valueRange returns the min and max over valid cells.
func valueRange(g *grid.Grid) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.IsMissing(r, c) {
				continue
			}
			v := g.At(r, c)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

func normalize(v, lo, hi float64) uint8 {
	if hi <= lo {
		return 0
	}
	return uint8(clamp((v-lo)/(hi-lo), 0, 1) * 255)
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
