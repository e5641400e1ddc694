package portal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/df-mc/safeport/server/block"
	"github.com/df-mc/safeport/server/world"
	"golang.org/x/text/cases"
)

// Allowance specifies which portal types may be formed in a world.
type Allowance uint8

const (
	// AllowAll allows every portal type.
	AllowAll Allowance = iota
	// AllowNone allows no portals at all.
	AllowNone
	// AllowNether allows nether portals only.
	AllowNether
	// AllowEnd allows end portals only.
	AllowEnd
)

// ParseAllowance parses an Allowance from its name: all, none, nether or end.
func ParseAllowance(s string) (Allowance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AllowAll, nil
	case "none":
		return AllowNone, nil
	case "nether":
		return AllowNether, nil
	case "end", "ender":
		return AllowEnd, nil
	}
	return 0, fmt.Errorf("unknown portal allowance %q", s)
}

// String ...
func (a Allowance) String() string {
	switch a {
	case AllowNone:
		return "none"
	case AllowNether:
		return "nether"
	case AllowEnd:
		return "end"
	}
	return "all"
}

// Allows reports if the Allowance permits portals of type t.
func (a Allowance) Allows(t block.PortalType) bool {
	switch a {
	case AllowAll:
		return true
	case AllowNether:
		return t == block.NetherPortal
	case AllowEnd:
		return t == block.EndPortal
	}
	return false
}

// Policy holds the portal types allowed per world. Worlds without an entry
// allow every portal type. World names are matched case-insensitively.
type Policy struct {
	c *block.Classifier

	mu     sync.RWMutex
	worlds map[string]Allowance
}

// NewPolicy returns a Policy using c to classify materials, with the
// allowances passed by world name.
func NewPolicy(c *block.Classifier, worlds map[string]string) (*Policy, error) {
	p := &Policy{c: c, worlds: make(map[string]Allowance, len(worlds))}
	for name, s := range worlds {
		a, err := ParseAllowance(s)
		if err != nil {
			return nil, fmt.Errorf("world %v: %w", name, err)
		}
		p.worlds[foldName(name)] = a
	}
	return p, nil
}

// Set sets the Allowance of a world.
func (p *Policy) Set(world string, a Allowance) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.worlds[foldName(world)] = a
}

// Allowance returns the Allowance of a world.
func (p *Policy) Allowance(world string) Allowance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if a, ok := p.worlds[foldName(world)]; ok {
		return a
	}
	return AllowAll
}

// AllowForm reports if a portal of type t may form in a world.
func (p *Policy) AllowForm(world string, t block.PortalType) bool {
	return p.Allowance(world).Allows(t)
}

// AllowEndActivation reports if placing the held material into the clicked
// block may go ahead in world w. Only placing an eye of ender into an
// end portal frame activates a portal, so any other interaction is allowed.
func (p *Policy) AllowEndActivation(w string, clicked, held world.Material) bool {
	if k, t := p.c.Resolve(clicked); k != block.PortalFrame || t != block.EndPortal {
		return true
	}
	if k, t := p.c.Resolve(held); k != block.PortalFrameTrigger || t != block.EndPortal {
		return true
	}
	return p.AllowForm(w, block.EndPortal)
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
