package safety

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/safeport/server/block"
	"github.com/df-mc/safeport/server/world"
)

// aroundBlock lists the horizontal neighbours checked around a block, in the
// order they are checked.
var aroundBlock = []cube.Pos{
	{0, 0, -1}, // north
	{1, 0, 0},  // east
	{0, 0, 1},  // south
	{-1, 0, 0}, // west
	{1, 0, -1}, // north-east
	{-1, 0, -1},
	{1, 0, 1},
	{-1, 0, 1},
}

// BedSpawn returns a safe point next to the bed at p. The neighbours of the
// piece at p are tried first, then those of the other piece of the bed.
func (e *Evaluator) BedSpawn(p world.Point) (world.Point, bool) {
	if safe, ok := e.around(p.World, p.Block()); ok {
		return safe, true
	}
	other, ok := e.otherBedPiece(p)
	if !ok {
		return world.Point{}, false
	}
	return e.around(p.World, other)
}

func (e *Evaluator) around(w string, pos cube.Pos) (world.Point, bool) {
	for _, off := range aroundBlock {
		candidate := world.BlockPoint(w, pos.Add(off))
		if e.Safe(candidate) {
			return candidate.Middle(), true
		}
	}
	return world.Point{}, false
}

// otherBedPiece finds the position of the second piece of the bed at p using
// the bed's direction and head_piece_bit properties.
func (e *Evaluator) otherBedPiece(p world.Point) (cube.Pos, bool) {
	m := e.c.Material(p)
	if k, _ := e.c.Resolve(m); k != block.Bed {
		return cube.Pos{}, false
	}
	facing, ok := bedDirection(m.Properties["direction"])
	if !ok {
		return cube.Pos{}, false
	}
	if head, _ := m.Properties["head_piece_bit"].(bool); head {
		facing = facing.Opposite()
	}
	return p.Block().Side(facing.Face()), true
}

// bedDirection converts the horizontal direction stored in a bed's block
// state to a cube.Direction.
func bedDirection(v any) (cube.Direction, bool) {
	var n int
	switch v := v.(type) {
	case int32:
		n = int(v)
	case int:
		n = v
	case uint8:
		n = int(v)
	default:
		return 0, false
	}
	switch n {
	case 0:
		return cube.South, true
	case 1:
		return cube.West, true
	case 2:
		return cube.North, true
	case 3:
		return cube.East, true
	}
	return 0, false
}

// TopBlock returns the highest safe point in the column of p, scanning down
// from the top of the world.
func (e *Evaluator) TopBlock(p world.Point) (world.Point, bool) {
	rng := e.c.Range(p.World)
	for y := rng.Max(); y > rng.Min(); y-- {
		check := world.Point{World: p.World, Pos: p.Pos}
		check.Pos[1] = float64(y)
		if e.Safe(check) {
			return check, true
		}
	}
	return world.Point{}, false
}

// BottomBlock returns the lowest safe point in the column of p, scanning up
// from the bottom of the world.
func (e *Evaluator) BottomBlock(p world.Point) (world.Point, bool) {
	rng := e.c.Range(p.World)
	for y := rng.Min(); y < rng.Max(); y++ {
		check := world.Point{World: p.World, Pos: p.Pos}
		check.Pos[1] = float64(y)
		if e.Safe(check) {
			return check, true
		}
	}
	return world.Point{}, false
}
