package align

import (
	"fmt"

	"coregister/internal/grid"
)

// BandSet is an ordered collection of named band grids. Iteration order is
// the order bands were added, which fixes the order the orchestrator
// processes them in.
type BandSet struct {
	names []string
	grids map[string]*grid.Grid
}

// NewBandSet returns an empty band collection.
func NewBandSet() *BandSet {
	return &BandSet{grids: make(map[string]*grid.Grid)}
}

// Add appends a named band. Adding a duplicate name is an error.
func (s *BandSet) Add(name string, g *grid.Grid) error {
	if _, ok := s.grids[name]; ok {
		return fmt.Errorf("duplicate band %q", name)
	}
	s.names = append(s.names, name)
	s.grids[name] = g
	return nil
}

// Names returns the band names in insertion order. The slice is a copy.
func (s *BandSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Grid returns the grid for name, or nil if absent.
func (s *BandSet) Grid(name string) *grid.Grid {
	return s.grids[name]
}

// Len returns the number of bands.
func (s *BandSet) Len() int {
	return len(s.names)
}
