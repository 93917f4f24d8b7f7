package item

import (
	"fmt"

	"pcb-router/pkg/geometry"
)

// Solid is a fixed obstacle: a pad, a keepout or a board feature. Solids
// default to no net and an optional hole shape.
type Solid struct {
	base
	shape geometry.Shape
	hole  geometry.Shape
}

// NewSolid creates a solid of the given shape on all layers. The item takes
// ownership of shape.
func NewSolid(shape geometry.Shape) *Solid {
	return &Solid{base: newBase(NetOrphaned), shape: shape}
}

// SetShape replaces the shape.
func (s *Solid) SetShape(shape geometry.Shape) { s.shape = shape }

// SetHole sets the drill shape, or clears it with nil.
func (s *Solid) SetHole(hole geometry.Shape) { s.hole = hole }

// Pos returns the shape centre.
func (s *Solid) Pos() geometry.Point { return s.shape.Centre() }

func (s *Solid) Kind() Kind { return KindSolid }

func (s *Solid) Shape() geometry.Shape { return s.shape }

func (s *Solid) AlternateShape() geometry.Shape { return s.hole }

func (s *Solid) Hull(clearance, walkaroundThickness, layer int) *geometry.LineChain {
	if !s.onLayer(layer) || s.shape == nil {
		return geometry.NewLineChain()
	}
	return shapeHull(s.shape, clearance, walkaroundThickness)
}

func (s *Solid) Clone() Item {
	cp := &Solid{base: s.cloneBase()}
	if s.shape != nil {
		cp.shape = s.shape.Clone()
	}
	if s.hole != nil {
		cp.hole = s.hole.Clone()
	}
	return cp
}

func (s *Solid) Move(v geometry.Point) {
	s.shape.Move(v)
	if s.hole != nil {
		s.hole.Move(v)
	}
}

func (s *Solid) Rotate(angle float64, pivot geometry.Point) {
	s.shape.Rotate(angle, pivot)
	if s.hole != nil {
		s.hole.Rotate(angle, pivot)
	}
}

func (s *Solid) Anchor(int) geometry.Point { return s.shape.Centre() }

func (s *Solid) AnchorCount() int { return 1 }

func (s *Solid) ChangedArea(other Item) (geometry.Box, bool) {
	return mergedArea(s, other)
}

func (s *Solid) String() string {
	p := s.Pos()
	return fmt.Sprintf("Solid{net:%d %s at (%d,%d)}", s.net, s.shape.Type(), p.X, p.Y)
}
