package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Seg is a line segment between two grid points. A segment with A == B is a point probe.
type Seg struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// NewSeg creates a new segment.
func NewSeg(a, b Point) Seg {
	return Seg{A: a, B: b}
}

// IsDegenerate reports whether the segment has zero length.
func (s Seg) IsDegenerate() bool {
	return s.A == s.B
}

// Length returns the segment length rounded to the grid.
func (s Seg) Length() int {
	return int(math.Round(s.A.Distance(s.B)))
}

// Direction returns B - A.
func (s Seg) Direction() Point {
	return s.B.Sub(s.A)
}

// nearest returns the closest point on the segment to p in float coordinates.
func (s Seg) nearest(p r2.Vec) r2.Vec {
	a := s.A.Vec()
	d := r2.Sub(s.B.Vec(), a)
	l2 := r2.Dot(d, d)
	if l2 == 0 {
		return a
	}
	t := r2.Dot(r2.Sub(p, a), d) / l2
	t = math.Max(0, math.Min(1, t))
	return r2.Add(a, r2.Scale(t, d))
}

// NearestPoint returns the point of the segment closest to p.
func (s Seg) NearestPoint(p Point) Point {
	return PointFromVec(s.nearest(p.Vec()))
}

// SquaredDistance returns the squared distance from p to the segment.
func (s Seg) SquaredDistance(p Point) float64 {
	v := p.Vec()
	return r2.Norm2(r2.Sub(v, s.nearest(v)))
}

// Distance returns the distance from p to the segment.
func (s Seg) Distance(p Point) float64 {
	return math.Sqrt(s.SquaredDistance(p))
}

// Intersects reports whether two segments share at least one point.
func (s Seg) Intersects(other Seg) bool {
	d1 := orientation(other.A, other.B, s.A)
	d2 := orientation(other.A, other.B, s.B)
	d3 := orientation(s.A, s.B, other.A)
	d4 := orientation(s.A, s.B, other.B)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return (d1 == 0 && onSegment(other, s.A)) ||
		(d2 == 0 && onSegment(other, s.B)) ||
		(d3 == 0 && onSegment(s, other.A)) ||
		(d4 == 0 && onSegment(s, other.B))
}

// SegDistance returns the minimum distance between two segments.
func (s Seg) SegDistance(other Seg) float64 {
	if s.Intersects(other) {
		return 0
	}
	return math.Min(
		math.Min(s.Distance(other.A), s.Distance(other.B)),
		math.Min(other.Distance(s.A), other.Distance(s.B)),
	)
}

// orientation returns the sign of the cross product (b - a) x (p - a).
func orientation(a, b, p Point) int {
	c := b.Sub(a).Cross(p.Sub(a))
	switch {
	case c > 0:
		return 1
	case c < 0:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether a collinear point p lies within the extent of s.
func onSegment(s Seg, p Point) bool {
	return p.X >= min(s.A.X, s.B.X) && p.X <= max(s.A.X, s.B.X) &&
		p.Y >= min(s.A.Y, s.B.Y) && p.Y <= max(s.A.Y, s.B.Y)
}
