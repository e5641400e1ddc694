package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/safeport/server/world"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// blockState is a single palette entry of a snapshot.
type blockState struct {
	Name       string         `nbt:"name"`
	Properties map[string]any `nbt:"states"`
	Version    int32          `nbt:"version"`
	Solid      bool           `nbt:"solid"`
}

// snapshot is a box of blocks cut out of a world. Blocks holds palette
// indices ordered by x, then y, then z.
type snapshot struct {
	World   string       `nbt:"world"`
	MinY    int32        `nbt:"min_y"`
	MaxY    int32        `nbt:"max_y"`
	Origin  []int32      `nbt:"origin"`
	Size    []int32      `nbt:"size"`
	Palette []blockState `nbt:"palette"`
	Blocks  []int32      `nbt:"blocks"`
}

func (s snapshot) index(x, y, z int) int {
	return (x*int(s.Size[1])+y)*int(s.Size[2]) + z
}

// readSnapshot decodes the little endian NBT snapshot at path into a
// world.Memory.
func readSnapshot(path string) (*world.Memory, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read snapshot: %w", err)
	}
	var s snapshot
	if err := nbt.NewDecoderWithEncoding(bytes.NewBuffer(data), nbt.LittleEndian).Decode(&s); err != nil {
		return nil, "", fmt.Errorf("decode snapshot: %w", err)
	}
	mem, err := s.memory()
	if err != nil {
		return nil, "", err
	}
	return mem, s.World, nil
}

func (s snapshot) memory() (*world.Memory, error) {
	if len(s.Origin) != 3 || len(s.Size) != 3 {
		return nil, fmt.Errorf("snapshot: origin and size need three components")
	}
	volume := int(s.Size[0]) * int(s.Size[1]) * int(s.Size[2])
	if volume < 0 || len(s.Blocks) != volume {
		return nil, fmt.Errorf("snapshot: expected %d blocks, got %d", volume, len(s.Blocks))
	}
	palette := make([]world.Material, len(s.Palette))
	for i, b := range s.Palette {
		palette[i] = world.Material{Name: b.Name, Properties: b.Properties, Version: b.Version, Solid: b.Solid}
	}

	mem := world.NewMemory()
	if s.MaxY > s.MinY {
		mem.SetRange(s.World, cube.Range{int(s.MinY), int(s.MaxY)})
	}
	origin := cube.Pos{int(s.Origin[0]), int(s.Origin[1]), int(s.Origin[2])}
	for x := 0; x < int(s.Size[0]); x++ {
		for y := 0; y < int(s.Size[1]); y++ {
			for z := 0; z < int(s.Size[2]); z++ {
				idx := s.Blocks[s.index(x, y, z)]
				if idx < 0 || int(idx) >= len(palette) {
					return nil, fmt.Errorf("snapshot: palette index %d out of range", idx)
				}
				mem.Set(s.World, origin.Add(cube.Pos{x, y, z}), palette[idx])
			}
		}
	}
	return mem, nil
}

// writeSnapshot encodes s as little endian NBT to path.
func writeSnapshot(path string, s snapshot) error {
	var buf bytes.Buffer
	if err := nbt.NewEncoderWithEncoding(&buf, nbt.LittleEndian).Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// demoSnapshot returns a 9x4x9 stone slab with a pool of water two blocks
// deep in one corner and a nether portal block on the east edge.
func demoSnapshot(name string) snapshot {
	s := snapshot{
		World:  name,
		MinY:   0,
		MaxY:   127,
		Origin: []int32{-4, 62, -4},
		Size:   []int32{9, 4, 9},
		Palette: []blockState{
			{Name: "minecraft:air"},
			{Name: "minecraft:stone", Solid: true},
			{Name: "minecraft:water", Properties: map[string]any{"liquid_depth": int32(0)}},
			{Name: "minecraft:nether_portal", Properties: map[string]any{"portal_axis": "z"}},
		},
	}
	s.Blocks = make([]int32, 9*4*9)
	for x := 0; x < 9; x++ {
		for z := 0; z < 9; z++ {
			s.Blocks[s.index(x, 0, z)] = 1
			if x < 2 && z < 2 {
				s.Blocks[s.index(x, 0, z)] = 2
				s.Blocks[s.index(x, 1, z)] = 2
				continue
			}
			s.Blocks[s.index(x, 1, z)] = 1
		}
	}
	s.Blocks[s.index(8, 2, 4)] = 3
	return s
}
