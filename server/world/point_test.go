package world

import (
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
)

func TestPointBlockFloorsNegativeCoordinates(t *testing.T) {
	p := PointOf("world", -0.5, 64.9, -3.01)
	if got, want := p.Block(), (cube.Pos{-1, 64, -4}); got != want {
		t.Fatalf("unexpected block position: got %v, want %v", got, want)
	}
}

func TestPointMiddleKeepsY(t *testing.T) {
	m := PointOf("world", 10.9, 70.25, -2.2).Middle()
	if m.Pos[0] != 10.5 || m.Pos[1] != 70.25 || m.Pos[2] != -2.5 {
		t.Fatalf("unexpected middle: %v", m)
	}
}

func TestPointDistanceAcrossWorlds(t *testing.T) {
	a, b := PointOf("a", 0, 0, 0), PointOf("b", 0, 0, 0)
	if d := a.Distance(b); !math.IsInf(d, 1) {
		t.Fatalf("expected infinite distance across worlds, got %v", d)
	}
	if d := a.Distance(PointOf("a", 3, 4, 0)); d != 5 {
		t.Fatalf("unexpected distance: got %v, want 5", d)
	}
}

func TestMemoryOutOfRangeReadsAir(t *testing.T) {
	m := NewMemory()
	stone := Material{Name: "minecraft:stone", Solid: true}
	m.SetFill("world", stone)
	if got := m.Material("world", cube.Pos{0, 10, 0}); got.Name != stone.Name {
		t.Fatalf("expected fill material, got %v", got.Name)
	}
	if got := m.Material("world", cube.Pos{0, 128, 0}); got.Name != Air.Name {
		t.Fatalf("expected air above legacy range, got %v", got.Name)
	}
	if got := m.Material("world", cube.Pos{0, -1, 0}); got.Name != Air.Name {
		t.Fatalf("expected air below legacy range, got %v", got.Name)
	}
	m.SetRange("world", cube.Range{-64, 319})
	if got := m.Material("world", cube.Pos{0, 200, 0}); got.Name != stone.Name {
		t.Fatalf("expected fill material inside widened range, got %v", got.Name)
	}
}

func TestMemoryFillIsInclusive(t *testing.T) {
	m := NewMemory()
	glass := Material{Name: "minecraft:glass", Solid: true}
	m.Fill("world", cube.Pos{2, 5, 2}, cube.Pos{0, 4, 0}, glass)
	for _, pos := range []cube.Pos{{0, 4, 0}, {2, 5, 2}, {1, 4, 2}} {
		if got := m.Material("world", pos); got.Name != glass.Name {
			t.Fatalf("expected glass at %v, got %v", pos, got.Name)
		}
	}
	if got := m.Material("world", cube.Pos{3, 4, 0}); got.Name != Air.Name {
		t.Fatalf("expected air outside fill, got %v", got.Name)
	}
}

func TestWithRange(t *testing.T) {
	mem := NewMemory()
	mem.SetRange("world", cube.Range{-64, 319})
	stone := Material{Name: "minecraft:stone", Solid: true}
	mem.Set("world", cube.Pos{0, -10, 0}, stone)
	mem.Set("world", cube.Pos{0, 10, 0}, stone)

	src := WithRange(mem, LegacyRange)
	if got := src.Range("world"); got != LegacyRange {
		t.Fatalf("unexpected range: %v", got)
	}
	if got := src.Material("world", cube.Pos{0, -10, 0}); got.Name != Air.Name {
		t.Fatalf("expected blocks below the range to read as air, got %v", got.Name)
	}
	if got := src.Material("world", cube.Pos{0, 10, 0}); got.Name != stone.Name {
		t.Fatalf("expected blocks inside the range to be read, got %v", got.Name)
	}
}
