package block

// Kind is the classification of a voxel's content as far as entity safety is
// concerned.
type Kind uint8

const (
	// Other is any passable block without special meaning, such as a flower.
	Other Kind = iota
	// Air is an empty voxel.
	Air
	// Solid is a block that obstructs an entity.
	Solid
	// Water is still or flowing water.
	Water
	// Lava is still or flowing lava.
	Lava
	// Fire is any kind of fire.
	Fire
	// Rail is any rail variant a minecart can ride on.
	Rail
	// PortalFrame is a block bounding a portal, such as obsidian.
	PortalFrame
	// PortalFrameTrigger is a material that ignites or completes a portal
	// frame, such as an eye of ender.
	PortalFrameTrigger
	// PortalInterior is the transit block of an activated portal.
	PortalInterior
	// Bed is either piece of a bed.
	Bed
)

// Solid reports if an entity cannot occupy a block of the Kind. Portal frames
// and beds obstruct entities just like regular solid blocks.
func (k Kind) Solid() bool {
	return k == Solid || k == PortalFrame || k == Bed
}

// Liquid reports if the Kind is water or lava.
func (k Kind) Liquid() bool {
	return k == Water || k == Lava
}

// String ...
func (k Kind) String() string {
	switch k {
	case Air:
		return "air"
	case Solid:
		return "solid"
	case Water:
		return "water"
	case Lava:
		return "lava"
	case Fire:
		return "fire"
	case Rail:
		return "rail"
	case PortalFrame:
		return "portal_frame"
	case PortalFrameTrigger:
		return "portal_frame_trigger"
	case PortalInterior:
		return "portal_interior"
	case Bed:
		return "bed"
	}
	return "other"
}

// PortalType is the kind of dimensional transit a portal material belongs to.
type PortalType uint8

const (
	// NoPortal is the PortalType of materials unrelated to portals.
	NoPortal PortalType = iota
	// NetherPortal is the PortalType of nether portals and obsidian frames.
	NetherPortal
	// EndPortal is the PortalType of end portals, their frames and eyes of ender.
	EndPortal
)

// String ...
func (t PortalType) String() string {
	switch t {
	case NetherPortal:
		return "nether"
	case EndPortal:
		return "end"
	}
	return "none"
}
