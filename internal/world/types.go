package world

import (
	"fmt"
	"math"
	"strings"
)

// DefaultNamespace is assumed for type ids written without a namespace.
const DefaultNamespace = "minecraft"

// Pos is an integer world cell.
type Pos struct {
	X int `toml:"x" json:"x"`
	Y int `toml:"y" json:"y"`
	Z int `toml:"z" json:"z"`
}

// Direction is one of the four horizontal neighbours of a cell.
type Direction int

const (
	West  Direction = iota // x-1
	North                  // z-1
	East                   // x+1
	South                  // z+1
)

// Offset returns the neighbouring cell in direction d.
func (p Pos) Offset(d Direction) Pos {
	switch d {
	case West:
		return Pos{p.X - 1, p.Y, p.Z}
	case North:
		return Pos{p.X, p.Y, p.Z - 1}
	case East:
		return Pos{p.X + 1, p.Y, p.Z}
	case South:
		return Pos{p.X, p.Y, p.Z + 1}
	}
	return p
}

// Center returns the point in the middle of the cell.
func (p Pos) Center() Vec3 {
	return Vec3{float64(p.X) + 0.5, float64(p.Y) + 0.5, float64(p.Z) + 0.5}
}

// DistSqr is the squared euclidean distance between two cells.
func (p Pos) DistSqr(o Pos) int64 {
	dx := int64(p.X - o.X)
	dy := int64(p.Y - o.Y)
	dz := int64(p.Z - o.Z)
	return dx*dx + dy*dy + dz*dz
}

// Chunk returns the 16x16 column coordinates containing p.
func (p Pos) Chunk() (int, int) {
	return p.X >> 4, p.Z >> 4
}

func (p Pos) String() string {
	return fmt.Sprintf("%d, %d, %d", p.X, p.Y, p.Z)
}

// Vec3 is a continuous world position.
type Vec3 struct {
	X float64 `toml:"x" json:"x"`
	Y float64 `toml:"y" json:"y"`
	Z float64 `toml:"z" json:"z"`
}

// Distance returns the euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Cell returns the cell containing v.
func (v Vec3) Cell() Pos {
	return Pos{int(math.Floor(v.X)), int(math.Floor(v.Y)), int(math.Floor(v.Z))}
}

// Viewer is the observer a scan is centred on.
type Viewer struct {
	Dimension string
	Pos       Vec3
}

// TypeID identifies an entity type as "namespace:path".
type TypeID string

// Namespace returns the source id owning the type.
func (t TypeID) Namespace() string {
	ns, _, ok := strings.Cut(string(t), ":")
	if !ok {
		return DefaultNamespace
	}
	return ns
}

// Path returns the part after the namespace.
func (t TypeID) Path() string {
	_, path, ok := strings.Cut(string(t), ":")
	if !ok {
		return string(t)
	}
	return path
}

// Handle is an opaque reference to an entity inside a Source. Handles may
// stop resolving at any time once the entity is removed.
type Handle uint64

// Source is the world snapshot provider the pipeline reads from.
type Source interface {
	Viewer() (Viewer, bool)
	Scan(center Pos, radius int) []Handle
	PositionOf(h Handle) (Pos, bool)
	TypeIDOf(h Handle) (TypeID, bool)
	DisplayNameOf(h Handle) (string, bool)
	HandleAt(p Pos) (Handle, bool)
}

// Registry resolves names for type and source ids.
type Registry interface {
	ItemName(t TypeID) (string, bool)
	LocalizedName(t TypeID) (string, bool)
	IsComposite(t TypeID) bool
	SourceName(namespace string) (string, bool)
}
