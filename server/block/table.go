package block

import (
	"github.com/brentp/intintmap"
	"github.com/segmentio/fasthash/fnv1a"
)

// role is a classification bound to one material name. Names lists the
// current identifier of the material first, followed by identifiers older
// hosts used for it.
type role struct {
	kind   Kind
	portal PortalType
	names  []string
}

var roles = []role{
	{kind: Air, names: []string{"minecraft:air"}},
	{kind: Air, names: []string{"minecraft:cave_air"}},
	{kind: Air, names: []string{"minecraft:void_air"}},
	{kind: Water, names: []string{"minecraft:water"}},
	{kind: Water, names: []string{"minecraft:flowing_water"}},
	{kind: Lava, names: []string{"minecraft:lava"}},
	{kind: Lava, names: []string{"minecraft:flowing_lava"}},
	{kind: Fire, names: []string{"minecraft:fire"}},
	{kind: Fire, names: []string{"minecraft:soul_fire"}},
	{kind: Rail, names: []string{"minecraft:rail", "minecraft:rails"}},
	{kind: Rail, names: []string{"minecraft:golden_rail", "minecraft:powered_rail"}},
	{kind: Rail, names: []string{"minecraft:detector_rail"}},
	{kind: Rail, names: []string{"minecraft:activator_rail"}},
	{kind: Bed, names: []string{"minecraft:bed", "minecraft:bed_block"}},
	{kind: PortalFrame, portal: NetherPortal, names: []string{"minecraft:obsidian"}},
	{kind: PortalFrame, portal: EndPortal, names: []string{"minecraft:end_portal_frame", "minecraft:ender_portal_frame"}},
	{kind: PortalFrameTrigger, portal: NetherPortal, names: []string{"minecraft:flint_and_steel"}},
	{kind: PortalFrameTrigger, portal: EndPortal, names: []string{"minecraft:ender_eye", "minecraft:eye_of_ender"}},
	{kind: PortalInterior, portal: NetherPortal, names: []string{"minecraft:nether_portal", "minecraft:portal"}},
	{kind: PortalInterior, portal: EndPortal, names: []string{"minecraft:end_portal", "minecraft:ender_portal"}},
}

// Table maps material names onto a Kind and PortalType. A Table is resolved
// once when it is created and is read-only afterwards.
type Table struct {
	entries *intintmap.Map
	bound   map[Kind][]string
}

// NewTable resolves a Table against the names a host knows. For every
// material, the first of its identifiers for which known returns true is
// bound; older identifiers are ignored if the current one is known. A nil
// known function treats every identifier as known, which binds the current
// names only.
func NewTable(known func(name string) bool) *Table {
	if known == nil {
		known = func(string) bool { return true }
	}
	t := &Table{entries: intintmap.New(len(roles)*2, 0.6), bound: make(map[Kind][]string)}
	for _, r := range roles {
		for _, name := range r.names {
			if !known(name) {
				continue
			}
			t.entries.Put(nameHash(name), int64(r.kind)|int64(r.portal)<<8)
			t.bound[r.kind] = append(t.bound[r.kind], name)
			break
		}
	}
	return t
}

// Lookup returns the Kind and PortalType bound to the name passed. If no
// material was bound under the name, false is returned.
func (t *Table) Lookup(name string) (Kind, PortalType, bool) {
	v, ok := t.entries.Get(nameHash(name))
	if !ok {
		return Other, NoPortal, false
	}
	return Kind(v & 0xff), PortalType(v >> 8 & 0xff), true
}

// Names returns the identifiers bound to a Kind, in resolution order.
func (t *Table) Names(k Kind) []string {
	return append([]string(nil), t.bound[k]...)
}

// nameHash hashes a material name. The hash is never zero, since intintmap
// reserves that key.
func nameHash(name string) int64 {
	h := int64(fnv1a.HashString64(name))
	if h == 0 {
		h = 1
	}
	return h
}
