package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
)

// WithRange returns a Source that reads blocks from src but reports rng as
// the vertical bounds of every world. Blocks outside rng read as Air.
func WithRange(src Source, rng cube.Range) Source {
	return ranged{src: src, rng: rng}
}

type ranged struct {
	src Source
	rng cube.Range
}

// Material ...
func (r ranged) Material(world string, pos cube.Pos) Material {
	if pos.OutOfBounds(r.rng) {
		return Air
	}
	return r.src.Material(world, pos)
}

// Range ...
func (r ranged) Range(string) cube.Range {
	return r.rng
}
