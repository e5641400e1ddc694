package dfhost

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	spworld "github.com/df-mc/safeport/server/world"
)

// Source reads blocks from a Dragonfly world transaction. It reports Air for
// any world other than the one of the transaction. A Source must only be
// used while its transaction is open.
type Source struct {
	tx *world.Tx
}

// NewSource returns a Source over tx.
func NewSource(tx *world.Tx) Source {
	return Source{tx: tx}
}

// Material ...
func (s Source) Material(w string, pos cube.Pos) spworld.Material {
	if w != s.tx.World().Name() || pos.OutOfBounds(s.tx.Range()) {
		return spworld.Air
	}
	b := s.tx.Block(pos)
	name, props := b.EncodeBlock()
	if name == spworld.Air.Name {
		if l, ok := s.tx.Liquid(pos); ok {
			b = l
			name, props = l.EncodeBlock()
		}
	}
	return spworld.Material{
		Name:       name,
		Properties: props,
		Solid:      len(b.Model().BBox(pos, s.tx)) != 0,
	}
}

// Range ...
func (s Source) Range(string) cube.Range {
	return s.tx.Range()
}

var (
	knownOnce  sync.Once
	knownNames map[string]struct{}
)

// KnownName reports if a block or item with the name passed is registered in
// Dragonfly. It may be passed to block.NewTable.
func KnownName(name string) bool {
	knownOnce.Do(func() {
		blocks, items := world.Blocks(), world.Items()
		knownNames = make(map[string]struct{}, len(blocks)+len(items))
		for _, b := range blocks {
			n, _ := b.EncodeBlock()
			knownNames[n] = struct{}{}
		}
		for _, it := range items {
			n, _ := it.EncodeItem()
			knownNames[n] = struct{}{}
		}
	})
	_, ok := knownNames[name]
	return ok
}
