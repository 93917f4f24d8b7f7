package item

import (
	"fmt"

	"pcb-router/pkg/geometry"
)

// Line is a track made of a line chain with uniform width, optionally ending
// in a via.
type Line struct {
	base
	chain *geometry.LineChain
	via   *Via
}

// NewLine creates a line along chain. The item takes ownership of chain.
func NewLine(chain *geometry.LineChain, width, net int) *Line {
	chain.SetClosed(false)
	chain.SetWidth(width)
	return &Line{base: newBase(net), chain: chain}
}

// Chain returns the centerline.
func (l *Line) Chain() *geometry.LineChain { return l.chain }

// Width returns the track width.
func (l *Line) Width() int { return l.chain.Width() }

// SetWidth sets the track width.
func (l *Line) SetWidth(width int) { l.chain.SetWidth(width) }

// SegmentCount returns the number of segments in the chain.
func (l *Line) SegmentCount() int { return l.chain.SegmentCount() }

// Segments returns the line split into segment items sharing its metadata.
func (l *Line) Segments() []*Segment {
	out := make([]*Segment, 0, l.chain.SegmentCount())
	for _, s := range l.chain.Segments() {
		seg := &Segment{base: l.cloneBase(), seg: geometry.NewSegment(s.A, s.B, l.Width())}
		out = append(out, seg)
	}
	return out
}

// EndsWithVia reports whether a via terminates the line.
func (l *Line) EndsWithVia() bool { return l.via != nil }

// Via returns the terminating via, or nil.
func (l *Line) Via() *Via { return l.via }

// AppendVia terminates the line with v, placed at the last point.
func (l *Line) AppendVia(v *Via) {
	if l.chain.PointCount() > 0 {
		v.SetPos(l.chain.Point(-1))
	}
	v.SetNet(l.net)
	l.via = v
}

// SetNet sets the net of the line and of its terminating via.
func (l *Line) SetNet(net int) {
	l.base.SetNet(net)
	if l.via != nil {
		l.via.SetNet(net)
	}
}

// RemoveVia drops the terminating via.
func (l *Line) RemoveVia() { l.via = nil }

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Shape() geometry.Shape { return l.chain }

func (l *Line) AlternateShape() geometry.Shape { return nil }

// Hull returns the convex hull of the per-segment hulls.
func (l *Line) Hull(clearance, walkaroundThickness, layer int) *geometry.LineChain {
	if !l.onLayer(layer) || l.chain.PointCount() == 0 {
		return geometry.NewLineChain()
	}
	var pts []geometry.Point
	if l.chain.PointCount() == 1 {
		p := l.chain.Point(0)
		pts = geometry.SegmentHull(geometry.NewSegment(p, p, l.Width()), clearance, walkaroundThickness).Points()
	}
	for _, s := range l.chain.Segments() {
		h := geometry.SegmentHull(geometry.NewSegment(s.A, s.B, l.Width()), clearance, walkaroundThickness)
		pts = append(pts, h.Points()...)
	}
	hull := geometry.NewLineChain(geometry.ConvexHull(pts)...)
	hull.SetClosed(true)
	return hull
}

func (l *Line) Clone() Item {
	cp := &Line{base: l.cloneBase(), chain: l.chain.CloneChain()}
	if l.via != nil {
		cp.via = l.via.CloneVia()
	}
	return cp
}

func (l *Line) Move(v geometry.Point) {
	l.chain.Move(v)
	if l.via != nil {
		l.via.Move(v)
	}
}

func (l *Line) Rotate(angle float64, pivot geometry.Point) {
	l.chain.Rotate(angle, pivot)
	if l.via != nil && l.chain.PointCount() > 0 {
		l.via.SetPos(l.chain.Point(-1))
	}
}

func (l *Line) Anchor(n int) geometry.Point {
	if n == 0 {
		return l.chain.Point(0)
	}
	return l.chain.Point(-1)
}

func (l *Line) AnchorCount() int {
	if l.chain.PointCount() == 0 {
		return 0
	}
	return 2
}

func (l *Line) ChangedArea(other Item) (geometry.Box, bool) {
	if l.chain.PointCount() == 0 {
		if other == nil || other.Shape() == nil {
			return geometry.Box{}, false
		}
		return other.Shape().BBox(0), true
	}
	return mergedArea(l, other)
}

func (l *Line) String() string {
	return fmt.Sprintf("Line{net:%d points:%d w:%d via:%t}", l.net, l.chain.PointCount(), l.Width(), l.via != nil)
}
