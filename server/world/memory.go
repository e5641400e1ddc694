package world

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// Memory is a sparse in-memory Source. Blocks that were never set read as the
// fill material of their world, which defaults to Air.
type Memory struct {
	mu     sync.RWMutex
	worlds map[string]*memoryWorld
}

type memoryWorld struct {
	rng    cube.Range
	fill   Material
	blocks map[cube.Pos]Material
}

// NewMemory returns an empty Memory source.
func NewMemory() *Memory {
	return &Memory{worlds: make(map[string]*memoryWorld)}
}

func (m *Memory) world(name string) *memoryWorld {
	w, ok := m.worlds[name]
	if !ok {
		w = &memoryWorld{rng: LegacyRange, fill: Air, blocks: make(map[cube.Pos]Material)}
		m.worlds[name] = w
	}
	return w
}

// SetRange sets the vertical bounds of a world.
func (m *Memory) SetRange(world string, rng cube.Range) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.world(world).rng = rng
}

// SetFill sets the material read for every block of a world that was not set
// explicitly.
func (m *Memory) SetFill(world string, mat Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.world(world).fill = mat
}

// Set sets the material at a position.
func (m *Memory) Set(world string, pos cube.Pos, mat Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.world(world).blocks[pos] = mat
}

// Fill sets every position in the box spanned by a and b, inclusive, to mat.
func (m *Memory) Fill(world string, a, b cube.Pos, mat Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.world(world)
	lo := cube.Pos{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])}
	hi := cube.Pos{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])}
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				w.blocks[cube.Pos{x, y, z}] = mat
			}
		}
	}
}

// Material ...
func (m *Memory) Material(world string, pos cube.Pos) Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.worlds[world]
	if !ok {
		return Air
	}
	if pos.OutOfBounds(w.rng) {
		return Air
	}
	if mat, ok := w.blocks[pos]; ok {
		return mat
	}
	return w.fill
}

// Range ...
func (m *Memory) Range(world string) cube.Range {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.worlds[world]; ok {
		return w.rng
	}
	return LegacyRange
}
