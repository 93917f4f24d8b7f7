// Package item provides the routable item model: solids, vias, segments, arcs and
// lines, each owning its backing geometry plus routing metadata.
package item

import (
	"fmt"

	"github.com/google/uuid"

	"pcb-router/pkg/geometry"
)

// Kind identifies an item variant.
type Kind int

const (
	// KindSolid is a fixed obstacle such as a pad or keepout.
	KindSolid Kind = iota
	// KindVia is a plated through, blind/buried or micro via.
	KindVia
	// KindSegment is a single straight track segment.
	KindSegment
	// KindArc is a circular track arc.
	KindArc
	// KindLine is a composite track made of a line chain and an optional via.
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "Solid"
	case KindVia:
		return "Via"
	case KindSegment:
		return "Segment"
	case KindArc:
		return "Arc"
	case KindLine:
		return "Line"
	default:
		return "Unknown"
	}
}

// KindMask is a set of kinds. The zero mask matches every kind.
type KindMask uint

// AnyKind matches every item.
const AnyKind KindMask = 0

// Mask returns the single-kind mask.
func (k Kind) Mask() KindMask {
	return 1 << uint(k)
}

// Matches reports whether k is in the mask.
func (m KindMask) Matches(k Kind) bool {
	return m == AnyKind || m&k.Mask() != 0
}

// Kinds builds a mask from a list of kinds.
func Kinds(kinds ...Kind) KindMask {
	var m KindMask
	for _, k := range kinds {
		m |= k.Mask()
	}
	return m
}

// Marker holds item marker flags.
type Marker uint

const (
	// MarkerHead marks the head of a line under construction.
	MarkerHead Marker = 1 << 0
	// MarkerViolation marks an item found in collision.
	MarkerViolation Marker = 1 << 3
	// MarkerLocked marks an item the router must not move.
	MarkerLocked Marker = 1 << 4
)

// Net identifiers. Zero and every negative sentinel mean the item is not part
// of a real net.
const (
	NetOrphaned      = 0
	NetForceOrphaned = -1
)

// NormalizeNet maps every orphan sentinel onto NetOrphaned.
func NormalizeNet(net int) int {
	if net < 0 {
		return NetOrphaned
	}
	return net
}

// IsOrphaned reports whether net denotes no real net.
func IsOrphaned(net int) bool {
	return net <= 0
}

// SameNet reports whether two nets are the same real net. Orphaned nets never match.
func SameNet(a, b int) bool {
	return !IsOrphaned(a) && a == b
}

// MaxCopperLayers is the number of copper layers addressable by a LayerRange.
const MaxCopperLayers = 32

// AnyLayer disables layer filtering where a layer argument is accepted.
const AnyLayer = -1

// LayerRange is an inclusive range of copper layers.
type LayerRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// AllLayers spans every copper layer.
var AllLayers = LayerRange{Start: 0, End: MaxCopperLayers - 1}

// NewLayerRange creates a range, swapping the bounds if needed.
func NewLayerRange(a, b int) LayerRange {
	if a > b {
		a, b = b, a
	}
	return LayerRange{Start: a, End: b}
}

// SingleLayer returns a range covering one layer.
func SingleLayer(layer int) LayerRange {
	return LayerRange{Start: layer, End: layer}
}

// Overlaps reports whether two ranges share a layer.
func (l LayerRange) Overlaps(other LayerRange) bool {
	return l.Start <= other.End && other.Start <= l.End
}

// Contains reports whether layer is in the range.
func (l LayerRange) Contains(layer int) bool {
	return layer >= l.Start && layer <= l.End
}

func (l LayerRange) String() string {
	return fmt.Sprintf("%d-%d", l.Start, l.End)
}

// Item is a routable or obstacle entity with net identity.
//
// An item is owned by at most one node at a time. Shape and AlternateShape
// expose the backing geometry for reading; callers must not mutate it.
type Item interface {
	Kind() Kind

	Net() int
	SetNet(net int)

	Layers() LayerRange
	SetLayers(layers LayerRange)

	Rank() int
	SetRank(rank int)

	Marker() Marker
	Mark(m Marker)
	Unmark(m Marker)

	// Parent is the provenance identifier of the board-level object this item
	// represents, or uuid.Nil.
	Parent() uuid.UUID
	SetParent(id uuid.UUID)

	// Owner is the node currently holding the item, or nil.
	Owner() any
	SetOwner(owner any)

	// Shape and AlternateShape return the collision shapes, nil when absent.
	// They are read-only views: change geometry through the item's own
	// setters, and through Replace once the item is owned by a node.
	Shape() geometry.Shape
	AlternateShape() geometry.Shape

	// Hull returns an inflated outline for walkaround. A layer outside the
	// item's layers yields an empty chain; AnyLayer disables the filter.
	Hull(clearance, walkaroundThickness, layer int) *geometry.LineChain

	// Clone returns an independent deep copy with no owner.
	Clone() Item

	Move(v geometry.Point)
	Rotate(angle float64, pivot geometry.Point)

	Anchor(n int) geometry.Point
	AnchorCount() int

	// ChangedArea returns the region touched when this item replaces other.
	ChangedArea(other Item) (geometry.Box, bool)

	String() string

	itemBase() *base
}

// base holds the metadata common to all items.
type base struct {
	net    int
	layers LayerRange
	rank   int
	marker Marker
	parent uuid.UUID
	owner  any
}

func newBase(net int) base {
	return base{net: NormalizeNet(net), layers: AllLayers}
}

func (b *base) itemBase() *base { return b }

func (b *base) Net() int { return b.net }
func (b *base) SetNet(net int) { b.net = NormalizeNet(net) }
func (b *base) Rank() int { return b.rank }
func (b *base) SetRank(rank int) { b.rank = rank }
func (b *base) Marker() Marker { return b.marker }
func (b *base) Mark(m Marker) { b.marker |= m }
func (b *base) Unmark(m Marker) { b.marker &^= m }

func (b *base) Layers() LayerRange { return b.layers }

func (b *base) SetLayers(layers LayerRange) {
	b.layers = NewLayerRange(layers.Start, layers.End)
}

func (b *base) Parent() uuid.UUID { return b.parent }
func (b *base) SetParent(id uuid.UUID) { b.parent = id }
func (b *base) Owner() any { return b.owner }
func (b *base) SetOwner(owner any) { b.owner = owner }

// cloneBase copies the metadata without the owner.
func (b *base) cloneBase() base {
	cp := *b
	cp.owner = nil
	return cp
}

// onLayer reports whether the hull filter admits this item.
func (b *base) onLayer(layer int) bool {
	return layer == AnyLayer || b.layers.Contains(layer)
}

// Collide tests two items, honoring their layer ranges.
func Collide(a, b Item, clearance int) (bool, int) {
	if !a.Layers().Overlaps(b.Layers()) {
		return false, 0
	}
	return geometry.CollideShapes(a.Shape(), b.Shape(), clearance)
}

// mergedArea is the default changed area: the union of both bounding boxes.
func mergedArea(self, other Item) (geometry.Box, bool) {
	box := self.Shape().BBox(0)
	if other == nil || other.Shape() == nil {
		return box, true
	}
	return box.Merge(other.Shape().BBox(0)), true
}

// shapeHull builds the walkaround hull for an arbitrary shape.
func shapeHull(s geometry.Shape, clearance, walkaroundThickness int) *geometry.LineChain {
	cl := clearance + walkaroundThickness/2
	switch sh := s.(type) {
	case *geometry.Circle:
		return geometry.CircleHull(sh, clearance, walkaroundThickness)
	case *geometry.Rect:
		return geometry.OctagonalHull(sh.P0, sh.Size(), cl+1, int(0.2*float64(cl)))
	case *geometry.Segment:
		return geometry.SegmentHull(sh, clearance, walkaroundThickness)
	case *geometry.Arc:
		return geometry.ArcHull(sh, clearance, walkaroundThickness)
	case *geometry.Simple:
		return geometry.InflatedConvexHull(sh.Points(), cl)
	case *geometry.LineChain:
		return geometry.InflatedConvexHull(sh.Points(), cl+sh.Width()/2)
	default:
		return geometry.NewLineChain()
	}
}
