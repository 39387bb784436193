// Command coregister aligns a set of single-band sensor images to a
// reference band and writes the aligned bands, plus an optional false-color
// composite.
//
// Usage: coregister -ref Green [-maxshift 20] [-out dir] [-rgb NIR,Red,Green]
// band files... (each either a path, with the band name guessed from the
// filename, or an explicit name=path pair).
package main

import (
	"flag"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"coregister/internal/align"
	"coregister/internal/composite"
	"coregister/internal/raster"
)

func main() {
	refName := flag.String("ref", "", "Reference band name (default: first band)")
	maxShift := flag.Int("maxshift", 20, "Search window half-width in pixels")
	minOverlap := flag.Int("minoverlap", 1000, "Minimum overlap cells for a candidate shift")
	noData := flag.Float64("nodata", math.NaN(), "Sample value to treat as missing")
	outDir := flag.String("out", ".", "Output directory for aligned bands")
	rgb := flag.String("rgb", "", "Render a false-color composite from three comma-separated band names (e.g. NIR,Red,Green)")
	verbose := flag.Bool("v", false, "Verbose progress output")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Println("Usage: coregister [-ref <band>] [-maxshift <px>] [-out <dir>] [-rgb R,G,B] <band files...>")
		os.Exit(1)
	}

	bands := align.NewBandSet()
	for _, arg := range flag.Args() {
		name, path := splitBandArg(arg)

		fmt.Printf("=== Loading %s ===\n", path)
		band, err := raster.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", path, err)
			os.Exit(1)
		}
		if name != "" {
			band.Name = name
		}
		if band.Name == "" {
			fmt.Fprintf(os.Stderr, "Cannot guess band name for %s; use name=path\n", path)
			os.Exit(1)
		}
		if !math.IsNaN(*noData) {
			masked := raster.MaskNoData(band.Grid, *noData)
			if *verbose {
				fmt.Printf("Masked %d no-data cells in %s\n", masked, band.Name)
			}
		}
		fmt.Printf("Band %s: %dx%d px", band.Name, band.Grid.Cols(), band.Grid.Rows())
		if band.DPI > 0 {
			fmt.Printf(", %.0f DPI", band.DPI)
		}
		fmt.Println()

		if err := bands.Add(band.Name, band.Grid); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	reference := *refName
	if reference == "" {
		reference = bands.Names()[0]
	}

	params := align.DefaultParams()
	params.MaxShift = *maxShift
	params.MinOverlap = *minOverlap
	params.Debug = *verbose

	fmt.Printf("\n=== Aligning %d bands to %s (window ±%d px) ===\n",
		bands.Len(), reference, params.MaxShift)

	results, err := align.Coregister(bands, reference, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Alignment failed: %v\n", err)
		os.Exit(1)
	}

	aligned := align.NewBandSet()
	for _, r := range results {
		if r.Name == reference {
			fmt.Printf("%-10s reference\n", r.Name)
		} else if r.Confident() {
			fmt.Printf("%-10s %s cor=%.4f overlap=%d\n", r.Name, r.Shift, r.Correlation, r.Overlap)
		} else {
			fmt.Printf("%-10s no confident alignment found, zero shift applied\n", r.Name)
		}
		if err := aligned.Add(r.Name, r.Grid); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		out := filepath.Join(*outDir, fmt.Sprintf("aligned_%s.png", r.Name))
		if err := raster.Save(out, r.Grid); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", out, err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("Wrote %s\n", out)
		}
	}

	if *rgb != "" {
		if err := writeComposite(aligned, *rgb, *outDir); err != nil {
			fmt.Fprintf(os.Stderr, "Composite failed: %v\n", err)
			os.Exit(1)
		}
	}
}

// splitBandArg parses "name=path" arguments; a bare path returns an empty
// name, which Load fills from the filename.
func splitBandArg(arg string) (name, path string) {
	if i := strings.Index(arg, "="); i > 0 {
		return arg[:i], arg[i+1:]
	}
	return "", arg
}

func writeComposite(bands *align.BandSet, channels, outDir string) error {
	names := strings.Split(channels, ",")
	if len(names) != 3 {
		return fmt.Errorf("-rgb needs exactly three band names, got %q", channels)
	}
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
		if bands.Grid(names[i]) == nil {
			return fmt.Errorf("unknown band %q", names[i])
		}
	}

	img, err := composite.FalseColor(bands.Grid(names[0]), bands.Grid(names[1]), bands.Grid(names[2]))
	if err != nil {
		return err
	}

	out := filepath.Join(outDir, fmt.Sprintf("composite_%s_%s_%s.png",
		names[0], names[1], names[2]))
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}
	fmt.Printf("\nWrote false-color composite %s\n", out)
	return nil
}
