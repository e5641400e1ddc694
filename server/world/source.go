package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
)

// Material describes the content of a single voxel as reported by the host.
type Material struct {
	// Name is the namespaced identifier of the block, such as minecraft:stone.
	Name string
	// Properties holds the block state properties, if any.
	Properties map[string]any
	// Version is the block state version the material was encoded with. A
	// zero Version means the current version.
	Version int32
	// Solid is the host's own verdict on whether the block obstructs an
	// entity. It is consulted only for names that have no classification.
	Solid bool
}

// Air is the material of an empty voxel.
var Air = Material{Name: "minecraft:air"}

// Source is the narrow query interface through which block content is read
// from the host. Implementations must be safe to call from the host's logic
// thread and must not block.
type Source interface {
	// Material returns the material of the block at pos in the world passed.
	// Positions outside the world's Range report Air.
	Material(world string, pos cube.Pos) Material
	// Range returns the vertical bounds of the world passed.
	Range(world string) cube.Range
}
