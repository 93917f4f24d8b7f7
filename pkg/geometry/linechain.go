package geometry

// LineChain is a polyline, optionally closed, with an optional stroke width.
// It is not solid: only its outline takes part in collisions.
type LineChain struct {
	points []Point
	closed bool
	width  int
}

// NewLineChain creates an open chain through the given points.
func NewLineChain(points ...Point) *LineChain {
	lc := &LineChain{points: make([]Point, len(points))}
	copy(lc.points, points)
	return lc
}

// Append adds a point to the end of the chain. Repeated points are skipped.
func (lc *LineChain) Append(p Point) {
	if n := len(lc.points); n > 0 && lc.points[n-1] == p {
		return
	}
	lc.points = append(lc.points, p)
}

// Point returns the i-th point. Negative indices count from the end.
func (lc *LineChain) Point(i int) Point {
	if i < 0 {
		i += len(lc.points)
	}
	return lc.points[i]
}

// Points returns a copy of the chain's points.
func (lc *LineChain) Points() []Point {
	out := make([]Point, len(lc.points))
	copy(out, lc.points)
	return out
}

// PointCount returns the number of points.
func (lc *LineChain) PointCount() int {
	return len(lc.points)
}

// SegmentCount returns the number of segments, including the closing one.
func (lc *LineChain) SegmentCount() int {
	n := len(lc.points)
	if n < 2 {
		return 0
	}
	if lc.closed {
		return n
	}
	return n - 1
}

// Segment returns the i-th segment.
func (lc *LineChain) Segment(i int) Seg {
	n := len(lc.points)
	return Seg{A: lc.points[i], B: lc.points[(i+1)%n]}
}

// Segments returns all segments of the chain.
func (lc *LineChain) Segments() []Seg {
	segs := make([]Seg, 0, lc.SegmentCount())
	for i := 0; i < lc.SegmentCount(); i++ {
		segs = append(segs, lc.Segment(i))
	}
	return segs
}

// SetClosed marks the chain closed or open.
func (lc *LineChain) SetClosed(closed bool) {
	lc.closed = closed
}

// IsClosed reports whether the last point connects back to the first.
func (lc *LineChain) IsClosed() bool {
	return lc.closed
}

// Width returns the stroke width.
func (lc *LineChain) Width() int {
	return lc.width
}

// SetWidth sets the stroke width.
func (lc *LineChain) SetWidth(width int) {
	lc.width = width
}

// Length returns the total path length.
func (lc *LineChain) Length() float64 {
	var total float64
	for _, s := range lc.Segments() {
		total += s.A.Distance(s.B)
	}
	return total
}

// PointInside reports whether p lies inside the closed outline.
func (lc *LineChain) PointInside(p Point) bool {
	if !lc.closed {
		return false
	}
	return PointInPolygon(p, lc.points)
}

func (lc *LineChain) Type() ShapeType { return ShapeLineChain }

func (lc *LineChain) BBox(clearance int) Box {
	return BoundingBox(lc.points).Inflate(lc.width/2 + clearance)
}

func (lc *LineChain) Collide(probe Seg, clearance int) (bool, int) {
	return collideProbe(lc, probe, clearance)
}

func (lc *LineChain) Move(v Point) {
	for i := range lc.points {
		lc.points[i] = lc.points[i].Add(v)
	}
}

func (lc *LineChain) Rotate(angle float64, pivot Point) {
	t := RotationAbout(angle, pivot)
	for i := range lc.points {
		lc.points[i] = t.ApplyPoint(lc.points[i])
	}
}

func (lc *LineChain) Clone() Shape {
	return lc.CloneChain()
}

// CloneChain is Clone with the concrete type.
func (lc *LineChain) CloneChain() *LineChain {
	cp := NewLineChain(lc.points...)
	cp.closed = lc.closed
	cp.width = lc.width
	return cp
}

func (lc *LineChain) IsSolid() bool { return false }

func (lc *LineChain) Centre() Point {
	return BoundingBox(lc.points).Center()
}

func (lc *LineChain) skeleton() skeleton {
	switch len(lc.points) {
	case 0:
		return skeleton{}
	case 1:
		return skeleton{points: []Point{lc.points[0]}, offset: lc.width / 2}
	}
	return skeleton{segs: lc.Segments(), offset: lc.width / 2}
}
