package search

import (
	"github.com/df-mc/safeport/server/safety"
	"github.com/df-mc/safeport/server/world"
)

const (
	// DefaultTolerance is the default vertical tolerance, in blocks, of a Ring.
	DefaultTolerance = 6
	// DefaultRadius is the default horizontal diameter, in blocks, of a Ring.
	DefaultRadius = 9
)

// Ring finds safe points near an origin by scanning square rings of columns
// around it at a growing set of altitudes.
//
// The point returned is the first safe column in a fixed scan order, which is
// not necessarily the column closest to the origin. Callers rely on the order
// for reproducible results, so it must not be changed to a true nearest
// neighbour search.
type Ring struct {
	// Tolerance is the total vertical distance searched, split evenly above
	// and below the origin. Odd values are rounded up. Zero or negative values
	// search the origin's altitude only.
	Tolerance int
	// Radius is the diameter of the largest ring scanned. Even values are
	// rounded up. Rings start at a diameter of 3, so a Radius below 3 scans
	// nothing.
	Radius int
}

// Default returns a Ring with DefaultTolerance and DefaultRadius.
func Default() Ring {
	return Ring{Tolerance: DefaultTolerance, Radius: DefaultRadius}
}

// Result holds the outcome of a search.
type Result struct {
	// Point is the safe point found, centred on its column.
	Point world.Point
	// Found is false if no safe point was found.
	Found bool
	// Probes is the amount of points evaluated.
	Probes int
}

// Find returns the first safe point found around origin.
func (r Ring) Find(e *safety.Evaluator, origin world.Point) (world.Point, bool) {
	res := r.Search(e, origin)
	return res.Point, res.Found
}

// Search scans around origin and returns the full Result. The origin's own
// altitude is scanned first, followed by the altitudes one block above and
// below it, two blocks above and below it and so on.
func (r Ring) Search(e *safety.Evaluator, origin world.Point) Result {
	tolerance, diameter := r.bounds()
	rng := e.Classifier().Range(origin.World)
	s := &scan{e: e}

	for level := 0; level <= tolerance; level++ {
		offsets := []int{level, -level}
		if level == 0 {
			offsets = offsets[:1]
		}
		for _, dy := range offsets {
			at := origin.Add(0, float64(dy), 0)
			if at.Block().OutOfBounds(rng) {
				continue
			}
			if p, ok := s.around(at, diameter, dy == 0); ok {
				return Result{Point: p.Middle(), Found: true, Probes: s.probes}
			}
		}
	}
	return Result{Probes: s.probes}
}

// bounds returns the half tolerance and the odd maximum diameter of r.
func (r Ring) bounds() (int, int) {
	tolerance, diameter := max(r.Tolerance, 0), max(r.Radius, 0)
	if tolerance%2 != 0 {
		tolerance++
	}
	if diameter%2 == 0 {
		diameter++
	}
	return tolerance / 2, diameter
}

// scan evaluates points and counts how many it evaluated.
type scan struct {
	e      *safety.Evaluator
	probes int
}

func (s *scan) safe(p world.Point) bool {
	s.probes++
	return s.e.Safe(p)
}

// around checks every ring up to the diameter passed, smallest ring first.
// If centre is true, the centre column is checked before the first ring.
func (s *scan) around(at world.Point, diameter int, centre bool) (world.Point, bool) {
	if diameter < 3 {
		return world.Point{}, false
	}
	if centre && s.safe(at) {
		return at, true
	}
	for d := 3; d <= diameter; d += 2 {
		if p, ok := s.ring(at, (d-1)/2); ok {
			return p, true
		}
	}
	return world.Point{}, false
}

// ring walks the square ring at distance a from centre. The walk starts a
// blocks along +X, moves a blocks along +Z, then 2a blocks along -X, -Z and
// +X, and finishes with a-1 blocks along +Z, ending next to its start.
func (s *scan) ring(centre world.Point, a int) (world.Point, bool) {
	p := centre.Add(float64(a), 0, 0)
	if s.safe(p) {
		return p, true
	}
	legs := []struct {
		dx, dz float64
		n      int
	}{
		{0, 1, a},
		{-1, 0, 2 * a},
		{0, -1, 2 * a},
		{1, 0, 2 * a},
		{0, 1, a - 1},
	}
	for _, leg := range legs {
		for i := 0; i < leg.n; i++ {
			p = p.Add(leg.dx, 0, leg.dz)
			if s.safe(p) {
				return p, true
			}
		}
	}
	return world.Point{}, false
}
