package block

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/safeport/server/world"
)

// Classifier classifies the blocks of a world.Source. Every call reads the
// current content of the source: world state may change between any two
// calls, so no classification is ever retained.
type Classifier struct {
	src   world.Source
	table *Table
	up    *Upgrader
}

// NewClassifier returns a Classifier reading from src. If table is nil, a
// Table binding the current material names is used. A nil Upgrader disables
// upgrading of legacy block states.
func NewClassifier(src world.Source, table *Table, up *Upgrader) *Classifier {
	if table == nil {
		table = NewTable(nil)
	}
	return &Classifier{src: src, table: table, up: up}
}

// Source returns the world.Source the Classifier reads from.
func (c *Classifier) Source() world.Source {
	return c.src
}

// Table returns the Table the Classifier resolves names with.
func (c *Classifier) Table() *Table {
	return c.table
}

// Range returns the vertical bounds of a world.
func (c *Classifier) Range(w string) cube.Range {
	return c.src.Range(w)
}

// Material returns the upgraded material at the block position of p.
func (c *Classifier) Material(p world.Point) world.Material {
	return c.up.Upgrade(c.src.Material(p.World, p.Block()))
}

// Resolve classifies a material without reading the world.
func (c *Classifier) Resolve(m world.Material) (Kind, PortalType) {
	m = c.up.Upgrade(m)
	if k, t, ok := c.table.Lookup(m.Name); ok {
		return k, t
	}
	if m.Solid {
		return Solid, NoPortal
	}
	return Other, NoPortal
}

// Classify returns the Kind of the block p lies in.
func (c *Classifier) Classify(p world.Point) Kind {
	return c.ClassifyAt(p.World, p.Block())
}

// ClassifyAt returns the Kind of the block at pos in world w.
func (c *Classifier) ClassifyAt(w string, pos cube.Pos) Kind {
	k, _ := c.Resolve(c.src.Material(w, pos))
	return k
}

// IsTrack reports if the block p lies in is a rail of any variant.
func (c *Classifier) IsTrack(p world.Point) bool {
	return c.Classify(p) == Rail
}

// IsPortal reports if the block p lies in is the interior of an activated
// portal.
func (c *Classifier) IsPortal(p world.Point) bool {
	return c.IsPortalAt(p.World, p.Block())
}

// IsPortalAt reports if the block at pos in world w is the interior of an
// activated portal.
func (c *Classifier) IsPortalAt(w string, pos cube.Pos) bool {
	return c.ClassifyAt(w, pos) == PortalInterior
}

// PortalType returns the PortalType of the block p lies in.
func (c *Classifier) PortalType(p world.Point) PortalType {
	_, t := c.Resolve(c.src.Material(p.World, p.Block()))
	return t
}
