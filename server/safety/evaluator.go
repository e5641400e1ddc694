package safety

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/safeport/server/block"
	"github.com/df-mc/safeport/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// Evaluator decides whether an entity can occupy a position without taking
// environmental damage.
type Evaluator struct {
	c *block.Classifier
}

// New returns an Evaluator that classifies blocks using c.
func New(c *block.Classifier) *Evaluator {
	return &Evaluator{c: c}
}

// Classifier returns the block.Classifier used by the Evaluator.
func (e *Evaluator) Classifier() *block.Classifier {
	return e.c
}

// Safe reports if p is a safe landing spot.
func (e *Evaluator) Safe(p world.Point) bool {
	return e.Check(p) == Safe
}

// Check evaluates p as a landing spot. The block at p and the one above it
// must not be solid, the block below must be neither lava nor fire, and if
// the block below is air, the column beneath must end in at least two blocks
// of water.
func (e *Evaluator) Check(p world.Point) Verdict {
	w, pos := p.World, p.Block()
	if e.c.ClassifyAt(w, pos).Solid() || e.c.ClassifyAt(w, pos.Side(cube.FaceUp)).Solid() {
		return UnsafeSolid
	}
	switch e.c.ClassifyAt(w, pos.Side(cube.FaceDown)) {
	case block.Lava:
		return UnsafeLava
	case block.Fire:
		return UnsafeFire
	case block.Air:
		return e.cushion(w, pos)
	}
	return Safe
}

// cushion scans down from pos through air. The first block that is not air
// must be water with another block of water below it.
func (e *Evaluator) cushion(w string, pos cube.Pos) Verdict {
	floor := e.c.Range(w).Min()
	for y := pos[1] - 1; y >= floor; y-- {
		switch e.c.ClassifyAt(w, cube.Pos{pos[0], y, pos[2]}) {
		case block.Air:
			continue
		case block.Water:
			switch e.c.ClassifyAt(w, cube.Pos{pos[0], y - 1, pos[2]}) {
			case block.Water:
				return Safe
			case block.Air:
				return UnsafeVoid
			}
			return UnsafeSolid
		default:
			return UnsafeSolid
		}
	}
	return UnsafeVoid
}

// AboveAir reports if the block directly below p is air.
func (e *Evaluator) AboveAir(p world.Point) bool {
	return e.c.ClassifyAt(p.World, p.Block().Side(cube.FaceDown)) == block.Air
}

// OnTrack reports if p lies in a rail block.
func (e *Evaluator) OnTrack(p world.Point) bool {
	return e.c.IsTrack(p)
}

// NextBlock returns the point one block further along the horizontal
// direction of vel. A zero velocity component counts as positive.
func NextBlock(p world.Point, vel mgl64.Vec3) world.Point {
	dx, dz := 1.0, 1.0
	if vel[0] < 0 {
		dx = -1
	}
	if vel[2] < 0 {
		dz = -1
	}
	return p.Add(dx, 0, dz)
}

// CartSafe reports if a minecart at p moving with vel may be teleported: it
// must either be above air or be heading onto a rail.
func (e *Evaluator) CartSafe(p world.Point, vel mgl64.Vec3) bool {
	return e.AboveAir(p) || e.c.IsTrack(NextBlock(p, vel))
}

// VehicleSafe reports if a vehicle other than a minecart at p may be
// teleported.
func (e *Evaluator) VehicleSafe(p world.Point) bool {
	return e.AboveAir(p)
}
