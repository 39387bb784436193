package raster

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coregister/internal/grid"
)

func TestGuessBandName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want string
	}{
		{"IMG_0042_green.tif", "Green"},
		{"scene/RED_band.tiff", "Red"},
		{"nir-composite.png", "NIR"},
		{"capture_rededge_02.tif", "RedEdge"},
		{"blue.tif", "Blue"},
		{"swir2.tif", "SWIR"},
		{"panchromatic.tif", "Pan"},
		{"IMG_0042_b3.tif", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GuessBandName(tc.path))
		})
	}
}

func TestMaskNoData(t *testing.T) {
	t.Parallel()

	g := grid.Generate(4, 4, func(r, c int) float64 {
		if (r+c)%2 == 0 {
			return 0 // nodata convention
		}
		return float64(r*4 + c)
	})

	masked := MaskNoData(g, 0)
	assert.Equal(t, 8, masked)
	assert.Equal(t, 8, g.ValidCount())
	assert.True(t, g.IsMissing(0, 0))
	assert.False(t, g.IsMissing(0, 1))
}

func TestImageToGrid_Luminance(t *testing.T) {
	t.Parallel()

	img := image.NewGray16(image.Rect(0, 0, 3, 2))
	img.SetGray16(0, 0, color.Gray16{Y: 0})
	img.SetGray16(2, 1, color.Gray16{Y: 65535})
	img.SetGray16(1, 0, color.Gray16{Y: 1234})

	g := imageToGrid(img)
	require.Equal(t, 2, g.Rows())
	require.Equal(t, 3, g.Cols())
	assert.Equal(t, 0.0, g.At(0, 0))
	assert.Equal(t, 1234.0, g.At(0, 1))
	assert.Equal(t, 65535.0, g.At(1, 2))
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	g := grid.Generate(5, 7, func(r, c int) float64 {
		return float64(r*1000 + c*10)
	})
	g.SetMissing(2, 3)

	path := filepath.Join(t.TempDir(), "band.png")
	require.NoError(t, Save(path, g))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, _, err := image.Decode(file)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 7, 5), img.Bounds())

	back := imageToGrid(img)
	assert.Equal(t, 0.0, back.At(0, 0))
	assert.Equal(t, 4060.0, back.At(4, 6))
	assert.Equal(t, 0.0, back.At(2, 3), "missing cells are written as zero")
}

func TestSave_ClampsRange(t *testing.T) {
	t.Parallel()

	g := grid.New(1, 2)
	g.Set(0, 0, -50)
	g.Set(0, 1, 1e6)

	path := filepath.Join(t.TempDir(), "clamp.png")
	require.NoError(t, Save(path, g))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, _, err := image.Decode(file)
	require.NoError(t, err)

	back := imageToGrid(img)
	assert.Equal(t, 0.0, back.At(0, 0))
	assert.Equal(t, 65535.0, back.At(0, 1))
}
