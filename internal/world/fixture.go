package world

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

var (
	// ErrBadType is returned when a fixture block has no usable type id.
	ErrBadType = errors.New("block type must not be empty")
	// ErrNoDimension is returned when a fixture omits its dimension.
	ErrNoDimension = errors.New("dimension must not be empty")
	// ErrCountTooLarge is returned when a block row exceeds MaxBlockCount.
	ErrCountTooLarge = fmt.Errorf("count must not exceed %d", MaxBlockCount)
)

// MaxBlockCount caps the repeat count of a single fixture block.
const MaxBlockCount = 4096

// Fixture is the on-disk description of a world, read from a TOML file.
//
//	dimension = "minecraft:overworld"
//	viewer = { x = 0.5, y = 64.0, z = 0.5 }
//
//	[types."minecraft:chest"]
//	item_name = "Chest"
//	composite = true
//
//	[sources]
//	ironchest = "Iron Chests"
//
//	[[blocks]]
//	type = "minecraft:chest"
//	pos = { x = 2, y = 64, z = 0 }
//	count = 25
//	step = { x = 2, y = 0, z = 0 }
type Fixture struct {
	Dimension string              `toml:"dimension"`
	Viewer    *Vec3               `toml:"viewer"`
	Types     map[string]TypeInfo `toml:"types"`
	Sources   map[string]string   `toml:"sources"`
	Blocks    []FixtureBlock      `toml:"blocks"`
}

// FixtureBlock places one entity, or a line of Count entities spaced by Step.
type FixtureBlock struct {
	Type  string `toml:"type"`
	Pos   Pos    `toml:"pos"`
	Name  string `toml:"name"`
	Count int    `toml:"count"`
	Step  Pos    `toml:"step"`
}

// ParseFixture decodes TOML fixture data.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decode world fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the fixture for structural errors.
func (f *Fixture) Validate() error {
	if f.Dimension == "" {
		return ErrNoDimension
	}
	for i, b := range f.Blocks {
		if b.Type == "" {
			return fmt.Errorf("blocks[%d]: %w", i, ErrBadType)
		}
		if b.Count < 0 {
			return fmt.Errorf("blocks[%d]: count must not be negative", i)
		}
		if b.Count > MaxBlockCount {
			return fmt.Errorf("blocks[%d]: %w", i, ErrCountTooLarge)
		}
	}
	return nil
}

// Build materializes the fixture into a fresh Memory world.
func (f *Fixture) Build() *Memory {
	m := NewMemory(f.Dimension)
	if f.Viewer != nil {
		m.SetViewer(*f.Viewer)
	}
	for id, info := range f.Types {
		m.DefineType(TypeID(id), info)
	}
	for ns, name := range f.Sources {
		m.DefineSource(ns, name)
	}
	for _, b := range f.Blocks {
		n := b.Count
		if n == 0 {
			n = 1
		}
		p := b.Pos
		for i := 0; i < n; i++ {
			m.Place(p, TypeID(b.Type), b.Name)
			p = Pos{p.X + b.Step.X, p.Y + b.Step.Y, p.Z + b.Step.Z}
		}
	}
	return m
}

// LoadFile reads and builds the fixture at path.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world fixture: %w", err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Build(), nil
}
