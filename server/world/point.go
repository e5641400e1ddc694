package world

import (
	"fmt"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// LegacyRange is the vertical range of the reference world format. Hosts that
// report no range for a world are assumed to use it.
var LegacyRange = cube.Range{0, 127}

// Point is a position in a named world. The position is real-valued and
// implicitly floored onto the voxel grid by Block.
type Point struct {
	// World is the name of the world the point lies in.
	World string
	// Pos is the position of the point within the world.
	Pos mgl64.Vec3
}

// PointOf returns a Point in the world passed with the coordinates x, y and z.
func PointOf(world string, x, y, z float64) Point {
	return Point{World: world, Pos: mgl64.Vec3{x, y, z}}
}

// Block returns the block position that the Point lies in.
func (p Point) Block() cube.Pos {
	return cube.PosFromVec3(p.Pos)
}

// Add returns the Point offset by dx, dy and dz.
func (p Point) Add(dx, dy, dz float64) Point {
	return Point{World: p.World, Pos: p.Pos.Add(mgl64.Vec3{dx, dy, dz})}
}

// Middle returns the Point moved to the horizontal middle of its voxel. The Y
// coordinate keeps its value.
func (p Point) Middle() Point {
	return Point{World: p.World, Pos: mgl64.Vec3{
		math.Floor(p.Pos[0]) + 0.5,
		p.Pos[1],
		math.Floor(p.Pos[2]) + 0.5,
	}}
}

// Distance returns the Euclidean distance between p and o. Points in different
// worlds are infinitely far apart.
func (p Point) Distance(o Point) float64 {
	if p.World != o.World {
		return math.Inf(1)
	}
	return p.Pos.Sub(o.Pos).Len()
}

// BlockPoint returns the Point at the lower corner of the block position passed.
func BlockPoint(world string, pos cube.Pos) Point {
	return Point{World: world, Pos: pos.Vec3()}
}

// String ...
func (p Point) String() string {
	return fmt.Sprintf("%s:(%.2f, %.2f, %.2f)", p.World, p.Pos[0], p.Pos[1], p.Pos[2])
}
