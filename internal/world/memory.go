package world

import (
	"sort"
	"sync"
)

// TypeInfo carries the registry data for one entity type.
type TypeInfo struct {
	ItemName      string `toml:"item_name"`
	LocalizedName string `toml:"localized"`
	Composite     bool   `toml:"composite"`
}

type block struct {
	pos        Pos
	typ        TypeID
	customName string
}

// Memory is an in-process world that satisfies both Source and Registry.
// It is safe for concurrent use; Load swaps the whole world atomically.
type Memory struct {
	mu        sync.RWMutex
	dimension string
	viewer    *Vec3
	byPos     map[Pos]Handle
	blocks    map[Handle]block
	types     map[TypeID]TypeInfo
	sources   map[string]string
	next      Handle
}

// NewMemory returns an empty world in the given dimension.
func NewMemory(dimension string) *Memory {
	return &Memory{
		dimension: dimension,
		byPos:     make(map[Pos]Handle),
		blocks:    make(map[Handle]block),
		types:     make(map[TypeID]TypeInfo),
		sources:   make(map[string]string),
	}
}

// SetViewer places the viewer at v.
func (m *Memory) SetViewer(v Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewer = &v
}

// ClearViewer removes the viewer, as when no player is loaded.
func (m *Memory) ClearViewer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewer = nil
}

// DefineType registers registry data for t.
func (m *Memory) DefineType(t TypeID, info TypeInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[t] = info
}

// DefineSource registers a friendly name for a namespace.
func (m *Memory) DefineSource(namespace, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[namespace] = name
}

// Place puts an entity of type t at p, replacing whatever was there.
// The returned handle is fresh; handles of a replaced entity stop resolving.
func (m *Memory) Place(p Pos, t TypeID, customName string) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placeLocked(p, t, customName)
}

func (m *Memory) placeLocked(p Pos, t TypeID, customName string) Handle {
	if old, ok := m.byPos[p]; ok {
		delete(m.blocks, old)
	}
	m.next++
	h := m.next
	m.byPos[p] = h
	m.blocks[h] = block{pos: p, typ: t, customName: customName}
	return h
}

// Remove deletes the entity at p. It reports whether one existed.
func (m *Memory) Remove(p Pos) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byPos[p]
	if !ok {
		return false
	}
	delete(m.byPos, p)
	delete(m.blocks, h)
	return true
}

// Len returns the number of entities in the world.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}

// replace swaps in the contents of other. Handles keep increasing so that
// handles issued before the swap never alias new entities.
func (m *Memory) replace(other *Memory) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dimension = other.dimension
	m.viewer = other.viewer
	m.types = other.types
	m.sources = other.sources
	m.byPos = make(map[Pos]Handle, len(other.byPos))
	m.blocks = make(map[Handle]block, len(other.blocks))

	// Re-place in a stable order so handle assignment is deterministic.
	positions := make([]Pos, 0, len(other.byPos))
	for p := range other.byPos {
		positions = append(positions, p)
	}
	sortScanOrder(positions)
	for _, p := range positions {
		b := other.blocks[other.byPos[p]]
		m.placeLocked(p, b.typ, b.customName)
	}
}

// Viewer implements Source.
func (m *Memory) Viewer() (Viewer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.viewer == nil {
		return Viewer{}, false
	}
	return Viewer{Dimension: m.dimension, Pos: *m.viewer}, true
}

// Scan implements Source. Entities are returned chunk by chunk (x-major,
// then z), and by y, z, x inside each chunk, which is stable across calls.
func (m *Memory) Scan(center Pos, radius int) []Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r2 := int64(radius) * int64(radius)
	var hits []Pos
	for p := range m.byPos {
		if p.DistSqr(center) <= r2 {
			hits = append(hits, p)
		}
	}
	sortScanOrder(hits)

	out := make([]Handle, len(hits))
	for i, p := range hits {
		out[i] = m.byPos[p]
	}
	return out
}

func sortScanOrder(ps []Pos) {
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		acx, acz := a.Chunk()
		bcx, bcz := b.Chunk()
		if acx != bcx {
			return acx < bcx
		}
		if acz != bcz {
			return acz < bcz
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
}

// PositionOf implements Source.
func (m *Memory) PositionOf(h Handle) (Pos, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocks[h]
	return b.pos, ok
}

// TypeIDOf implements Source.
func (m *Memory) TypeIDOf(h Handle) (TypeID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocks[h]
	return b.typ, ok
}

// DisplayNameOf implements Source. Only custom names count.
func (m *Memory) DisplayNameOf(h Handle) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocks[h]
	if !ok || b.customName == "" {
		return "", false
	}
	return b.customName, true
}

// HandleAt implements Source.
func (m *Memory) HandleAt(p Pos) (Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.byPos[p]
	return h, ok
}

// ItemName implements Registry.
func (m *Memory) ItemName(t TypeID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.types[t]
	if !ok || info.ItemName == "" {
		return "", false
	}
	return info.ItemName, true
}

// LocalizedName implements Registry.
func (m *Memory) LocalizedName(t TypeID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.types[t]
	if !ok || info.LocalizedName == "" {
		return "", false
	}
	return info.LocalizedName, true
}

// IsComposite implements Registry.
func (m *Memory) IsComposite(t TypeID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.types[t].Composite
}

// SourceName implements Registry.
func (m *Memory) SourceName(namespace string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.sources[namespace]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
