package block

import (
	"fmt"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/dragonfly/server/world/chunk"
	"github.com/df-mc/safeport/server/world"
	"github.com/df-mc/worldupgrader/blockupgrader"
)

// Upgrader brings materials encoded with an older block state version up to
// date before they are classified. Upgrades are memoised, as the upgrade
// schemas are walked on every call otherwise.
type Upgrader struct {
	version int32

	mu    sync.Mutex
	cache map[uint64]world.Material
}

// NewUpgrader returns an Upgrader that upgrades to the block state version
// passed. If version is 0, the version of the linked Dragonfly chunk format is
// used.
func NewUpgrader(version int32) *Upgrader {
	if version == 0 {
		version = chunk.CurrentBlockVersion
	}
	return &Upgrader{version: version, cache: make(map[uint64]world.Material)}
}

// Upgrade returns m upgraded to the current block state version. Materials
// without a version or with a current one are returned as is.
func (u *Upgrader) Upgrade(m world.Material) world.Material {
	if u == nil || m.Version == 0 || m.Version >= u.version {
		return m
	}
	key := stateKey(m)

	u.mu.Lock()
	defer u.mu.Unlock()
	if up, ok := u.cache[key]; ok {
		return up
	}
	s := blockupgrader.Upgrade(blockupgrader.BlockState{
		Name:       m.Name,
		Properties: m.Properties,
		Version:    m.Version,
	})
	up := world.Material{Name: s.Name, Properties: s.Properties, Version: s.Version, Solid: m.Solid}
	u.cache[key] = up
	return up
}

// stateKey hashes the name, version and properties of a material into a key
// that is stable regardless of map iteration order.
func stateKey(m world.Material) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(m.Name)
	_, _ = fmt.Fprintf(d, "@%d", m.Version)
	keys := make([]string, 0, len(m.Properties))
	for k := range m.Properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(d, ";%s=%v", k, m.Properties[k])
	}
	return d.Sum64()
}
