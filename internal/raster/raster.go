// Package raster is the file boundary: it decodes single-band sensor images
// into grids and encodes aligned grids back out. The alignment core never
// touches files; it sees only grids produced here.
package raster

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/tiff"

	"coregister/internal/grid"
)

// Band is one loaded spectral band.
type Band struct {
	Name string
	Path string
	DPI  float64 // From TIFF resolution tags; 0 if unknown
	Grid *grid.Grid
}

// Load decodes a single-band image file into a Band. OpenCV does the primary
// decode (grayscale, any depth, so 16-bit sensor files keep their range);
// when that fails, the standard image decoders take over with a luminance
// extraction. The band name is guessed from the filename and may be empty.
func Load(path string) (*Band, error) {
	g, err := decodeGrid(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	b := &Band{
		Name: GuessBandName(path),
		Path: path,
		Grid: g,
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if dpi, err := TIFFDPI(path); err == nil {
			b.DPI = dpi
		}
	}

	return b, nil
}

func decodeGrid(path string) (*grid.Grid, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale|gocv.IMReadAnyDepth)
	if !mat.Empty() {
		defer mat.Close()
		return matToGrid(mat), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return imageToGrid(img), nil
}

// matToGrid copies an OpenCV matrix into a grid, widening samples to float64.
func matToGrid(mat gocv.Mat) *grid.Grid {
	f := gocv.NewMat()
	defer f.Close()
	mat.ConvertTo(&f, gocv.MatTypeCV64F)

	rows, cols := f.Rows(), f.Cols()
	g := grid.New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(r, c, f.GetDoubleAt(r, c))
		}
	}
	return g
}

// imageToGrid extracts 16-bit luminance from a decoded Go image.
func imageToGrid(img image.Image) *grid.Grid {
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	g := grid.New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			y := color.Gray16Model.Convert(img.At(bounds.Min.X+c, bounds.Min.Y+r)).(color.Gray16).Y
			g.Set(r, c, float64(y))
		}
	}
	return g
}

// MaskNoData marks every cell equal to nodata as missing, in place, and
// returns the number of cells masked. Call before handing the grid to the
// aligner; grids are read-only from then on.
func MaskNoData(g *grid.Grid, nodata float64) int {
	masked := 0
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.At(r, c) == nodata {
				g.SetMissing(r, c)
				masked++
			}
		}
	}
	return masked
}

// Save writes a grid as a 16-bit grayscale PNG. Samples are clamped to the
// uint16 range; missing cells are written as zero.
func Save(path string, g *grid.Grid) error {
	img := image.NewGray16(image.Rect(0, 0, g.Cols(), g.Rows()))
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			v := g.At(r, c)
			if math.IsNaN(v) {
				continue
			}
			if v < 0 {
				v = 0
			} else if v > 65535 {
				v = 65535
			}
			img.SetGray16(c, r, color.Gray16{Y: uint16(v)})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// GuessBandName attempts to determine the spectral band from the filename.
func GuessBandName(path string) string {
	base := strings.ToLower(filepath.Base(path))

	// Longer keywords first so "rededge" is not claimed by "red".
	keywords := []struct{ key, name string }{
		{"rededge", "RedEdge"},
		{"red-edge", "RedEdge"},
		{"nir", "NIR"},
		{"near-infrared", "NIR"},
		{"swir", "SWIR"},
		{"green", "Green"},
		{"blue", "Blue"},
		{"red", "Red"},
		{"pan", "Pan"},
	}
	for _, kw := range keywords {
		if strings.Contains(base, kw.key) {
			return kw.name
		}
	}
	return ""
}
