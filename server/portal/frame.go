package portal

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/safeport/server/block"
	"github.com/df-mc/safeport/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	frameMinWidth  = 2
	frameMaxWidth  = 21
	frameMinHeight = 3
	frameMaxHeight = 21
)

// Frame describes the interior of a nether portal bounded by frame blocks.
type Frame struct {
	world         string
	axis          cube.Axis
	width, height int
	corner        cube.Pos
}

// Axis returns the horizontal axis the portal plane extends along.
func (f Frame) Axis() cube.Axis {
	return f.axis
}

// Width returns the interior width of the portal in blocks.
func (f Frame) Width() int {
	return f.width
}

// Height returns the interior height of the portal in blocks.
func (f Frame) Height() int {
	return f.height
}

// Corner returns the position of the bottom-left interior block.
func (f Frame) Corner() cube.Pos {
	return f.corner
}

// Contains reports if the interior of the frame contains pos.
func (f Frame) Contains(pos cube.Pos) bool {
	if f.width == 0 || f.height == 0 {
		return false
	}
	local := pos.Sub(f.corner)
	if local[1] < 0 || local[1] >= f.height {
		return false
	}
	switch f.axis {
	case cube.X:
		return local[2] == 0 && local[0] >= 0 && local[0] < f.width
	case cube.Z:
		return local[0] == 0 && local[2] >= 0 && local[2] < f.width
	}
	return false
}

// Bottom returns the point in the horizontal middle of the frame's lowest
// interior row, where an entity leaving the portal stands.
func (f Frame) Bottom() world.Point {
	far := f.corner.Add(axisOffset(f.axis, f.width-1))
	return world.Point{World: f.world, Pos: mgl64.Vec3{
		float64(f.corner[0]+far[0])/2 + 0.5,
		float64(f.corner[1]),
		float64(f.corner[2]+far[2])/2 + 0.5,
	}}
}

// Frame returns the nether portal frame that contains p. The orientation of
// the portal is read from the portal block at p, so p must lie inside an
// activated portal.
func (l *Locator) Frame(p world.Point) (Frame, bool) {
	m := l.c.Material(p)
	if k, t := l.c.Resolve(m); k != block.PortalInterior || t != block.NetherPortal {
		return Frame{}, false
	}
	return l.FrameAt(p, axisFromProps(m.Properties))
}

// FrameAt detects a nether portal frame of the orientation passed around p.
// The interior may consist of portal blocks, air or fire, so FrameAt also
// recognises frames that were never lit.
func (l *Locator) FrameAt(p world.Point, axis cube.Axis) (Frame, bool) {
	f, ok := l.detect(p.World, p.Block(), axis)
	if !ok || !f.Contains(p.Block()) {
		return Frame{}, false
	}
	return f, true
}

func (l *Locator) detect(w string, origin cube.Pos, axis cube.Axis) (Frame, bool) {
	if axis != cube.X && axis != cube.Z {
		return Frame{}, false
	}
	rng := l.c.Range(w)
	if origin.OutOfBounds(rng) || !l.interior(w, origin, axis) {
		return Frame{}, false
	}

	// Find the lowest interior block of the column.
	current := origin
	for current[1] > rng.Min() {
		below := current.Side(cube.FaceDown)
		if !l.interior(w, below, axis) {
			break
		}
		current = below
	}
	if !l.frame(w, current.Side(cube.FaceDown)) {
		return Frame{}, false
	}

	left, ok := l.extent(w, current, axis, -1)
	if !ok {
		return Frame{}, false
	}
	right, ok := l.extent(w, current, axis, 1)
	if !ok {
		return Frame{}, false
	}
	width := left + right + 1
	if width < frameMinWidth || width > frameMaxWidth {
		return Frame{}, false
	}
	corner := current.Add(axisOffset(axis, -left))

	height := 0
	for height < frameMaxHeight {
		row := corner.Add(cube.Pos{0, height, 0})
		if row.OutOfBounds(rng) {
			return Frame{}, false
		}
		full := true
		for x := 0; x < width; x++ {
			if !l.interior(w, row.Add(axisOffset(axis, x)), axis) {
				full = false
				break
			}
		}
		if !full {
			break
		}
		height++
	}
	if height < frameMinHeight {
		return Frame{}, false
	}

	for y := 0; y < height; y++ {
		if !l.frame(w, corner.Add(axisOffset(axis, -1)).Add(cube.Pos{0, y, 0})) ||
			!l.frame(w, corner.Add(axisOffset(axis, width)).Add(cube.Pos{0, y, 0})) {
			return Frame{}, false
		}
	}
	for x := 0; x < width; x++ {
		if !l.frame(w, corner.Add(axisOffset(axis, x)).Add(cube.Pos{0, -1, 0})) ||
			!l.frame(w, corner.Add(axisOffset(axis, x)).Add(cube.Pos{0, height, 0})) {
			return Frame{}, false
		}
	}
	return Frame{world: w, axis: axis, width: width, height: height, corner: corner}, true
}

// extent counts the interior blocks from pos along the axis in direction dir
// until a frame block is met.
func (l *Locator) extent(w string, pos cube.Pos, axis cube.Axis, dir int) (int, bool) {
	n := 0
	for n < frameMaxWidth {
		candidate := pos.Add(axisOffset(axis, dir*(n+1)))
		if l.frame(w, candidate) {
			return n, true
		}
		if !l.interior(w, candidate, axis) {
			return 0, false
		}
		n++
	}
	return 0, false
}

func (l *Locator) frame(w string, pos cube.Pos) bool {
	k, t := l.c.Resolve(l.c.Source().Material(w, pos))
	return k == block.PortalFrame && t == block.NetherPortal
}

func (l *Locator) interior(w string, pos cube.Pos, axis cube.Axis) bool {
	m := l.c.Source().Material(w, pos)
	switch k, t := l.c.Resolve(m); k {
	case block.Air, block.Fire:
		return true
	case block.PortalInterior:
		return t == block.NetherPortal && axisFromProps(m.Properties) == axis
	}
	return false
}

func axisOffset(axis cube.Axis, n int) cube.Pos {
	switch axis {
	case cube.X:
		return cube.Pos{n, 0, 0}
	case cube.Z:
		return cube.Pos{0, 0, n}
	}
	return cube.Pos{}
}

func axisFromProps(props map[string]any) cube.Axis {
	if s, ok := props["portal_axis"].(string); ok && s == "x" {
		return cube.X
	}
	return cube.Z
}
