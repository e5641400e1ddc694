package portal

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/safeport/server/block"
	"github.com/df-mc/safeport/server/world"
)

// neighbours are the faces checked for portal blocks next to a point, in the
// order they are checked.
var neighbours = []cube.Face{cube.FaceNorth, cube.FaceSouth, cube.FaceEast, cube.FaceWest}

// Locator finds portal blocks around points of a world.
type Locator struct {
	c *block.Classifier
}

// NewLocator returns a Locator reading blocks through c.
func NewLocator(c *block.Classifier) *Locator {
	return &Locator{c: c}
}

// NearestAdjacent returns the portal block at or next to p. If p lies in a
// portal block, p is returned as is. Otherwise the four horizontal
// neighbours of p are checked and the one closest to p, measured from the
// middle of the neighbour, is returned centred on its block. Of two equally
// close neighbours, the first in north, south, east, west order is kept.
func (l *Locator) NearestAdjacent(p world.Point) (world.Point, bool) {
	pos := p.Block()
	if l.c.IsPortalAt(p.World, pos) {
		return p, true
	}
	var (
		nearest world.Point
		dist    = math.Inf(1)
		found   bool
	)
	for _, face := range neighbours {
		side := pos.Side(face)
		if !l.c.IsPortalAt(p.World, side) {
			continue
		}
		candidate := world.BlockPoint(p.World, side).Middle()
		if d := p.Distance(candidate); d < dist {
			nearest, dist, found = candidate, d, true
		}
	}
	return nearest, found
}
