package item

import (
	"fmt"

	"pcb-router/pkg/geometry"
)

// Segment is a single straight track.
type Segment struct {
	base
	seg *geometry.Segment
}

// NewSegment creates a track segment from a to b.
func NewSegment(a, b geometry.Point, width, net int) *Segment {
	return &Segment{base: newBase(net), seg: geometry.NewSegment(a, b, width)}
}

// Seg returns the centerline.
func (s *Segment) Seg() geometry.Seg { return s.seg.Seg }

// SetEnds replaces both endpoints.
func (s *Segment) SetEnds(a, b geometry.Point) {
	s.seg = geometry.NewSegment(a, b, s.seg.Width)
}

// Width returns the track width.
func (s *Segment) Width() int { return s.seg.Width }

// SetWidth sets the track width.
func (s *Segment) SetWidth(width int) {
	s.seg = geometry.NewSegment(s.seg.Seg.A, s.seg.Seg.B, width)
}

func (s *Segment) Kind() Kind { return KindSegment }

func (s *Segment) Shape() geometry.Shape { return s.seg }

func (s *Segment) AlternateShape() geometry.Shape { return nil }

func (s *Segment) Hull(clearance, walkaroundThickness, layer int) *geometry.LineChain {
	if !s.onLayer(layer) {
		return geometry.NewLineChain()
	}
	return geometry.SegmentHull(s.seg, clearance, walkaroundThickness)
}

func (s *Segment) Clone() Item {
	return &Segment{base: s.cloneBase(), seg: s.seg.Clone().(*geometry.Segment)}
}

func (s *Segment) Move(v geometry.Point) { s.seg.Move(v) }

func (s *Segment) Rotate(angle float64, pivot geometry.Point) { s.seg.Rotate(angle, pivot) }

func (s *Segment) Anchor(n int) geometry.Point {
	if n == 0 {
		return s.seg.Seg.A
	}
	return s.seg.Seg.B
}

func (s *Segment) AnchorCount() int { return 2 }

func (s *Segment) ChangedArea(other Item) (geometry.Box, bool) {
	return mergedArea(s, other)
}

func (s *Segment) String() string {
	a, b := s.seg.Seg.A, s.seg.Seg.B
	return fmt.Sprintf("Segment{net:%d (%d,%d)-(%d,%d) w:%d}", s.net, a.X, a.Y, b.X, b.Y, s.seg.Width)
}
