package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ShapeType identifies a shape variant.
type ShapeType int

const (
	// ShapeCircle is a filled circle.
	ShapeCircle ShapeType = iota
	// ShapeLineChain is a polyline, optionally closed. Collides on its outline only.
	ShapeLineChain
	// ShapeRect is a filled axis-aligned rectangle.
	ShapeRect
	// ShapeSimple is a filled simple polygon.
	ShapeSimple
	// ShapeSegment is a straight segment with width.
	ShapeSegment
	// ShapeArc is a circular arc with width.
	ShapeArc
)

func (t ShapeType) String() string {
	switch t {
	case ShapeCircle:
		return "Circle"
	case ShapeLineChain:
		return "LineChain"
	case ShapeRect:
		return "Rect"
	case ShapeSimple:
		return "Simple"
	case ShapeSegment:
		return "Segment"
	case ShapeArc:
		return "Arc"
	default:
		return "Unknown"
	}
}

// Shape is the common interface of all geometric primitives.
//
// The set of implementations is closed: the unexported skeleton method keeps
// other packages from adding variants.
type Shape interface {
	// Type returns the variant tag.
	Type() ShapeType

	// BBox returns the bounding box inflated by clearance on every side.
	BBox(clearance int) Box

	// Collide tests the probe segment against the shape. hit is true when the
	// distance is strictly less than clearance plus the shape's own offset, or the
	// probe touches the shape. actual is the gap, clamped to zero on penetration.
	Collide(probe Seg, clearance int) (hit bool, actual int)

	// Move translates the shape.
	Move(v Point)

	// Rotate rotates the shape by angle radians about pivot.
	Rotate(angle float64, pivot Point)

	// Clone returns an independent deep copy.
	Clone() Shape

	// IsSolid reports whether collision tests consider the shape filled.
	IsSolid() bool

	// Centre returns a representative center point.
	Centre() Point

	skeleton() skeleton
}

// skeleton is the zero-width core of a shape: isolated points, segments, exact
// arcs and, for filled polygons, the interior outline. offset is the distance
// the real shape extends beyond the skeleton (radius or half width).
type skeleton struct {
	points []Point
	segs   []Seg
	arcs   []arcPath
	filled []Point
	offset int
}

func (s skeleton) empty() bool {
	return len(s.points) == 0 && len(s.segs) == 0 && len(s.arcs) == 0
}

// anchors returns every point that must be tested for containment.
func (s skeleton) anchors() []Point {
	out := make([]Point, 0, len(s.points)+len(s.segs)*2+len(s.arcs)*2)
	out = append(out, s.points...)
	for _, sg := range s.segs {
		out = append(out, sg.A, sg.B)
	}
	for _, a := range s.arcs {
		e0, e1 := a.ends()
		out = append(out, PointFromVec(e0), PointFromVec(e1))
	}
	return out
}

func (s skeleton) pointDistance(v r2.Vec) float64 {
	best := math.Inf(1)
	for _, q := range s.points {
		best = math.Min(best, r2.Norm(r2.Sub(v, q.Vec())))
	}
	for _, sg := range s.segs {
		best = math.Min(best, r2.Norm(r2.Sub(v, sg.nearest(v))))
	}
	for _, a := range s.arcs {
		best = math.Min(best, a.pointDistance(v))
	}
	return best
}

func (s skeleton) segDistance(other Seg) float64 {
	best := math.Inf(1)
	for _, q := range s.points {
		best = math.Min(best, other.Distance(q))
	}
	for _, sg := range s.segs {
		best = math.Min(best, sg.SegDistance(other))
	}
	for _, a := range s.arcs {
		best = math.Min(best, a.segDistance(other))
	}
	return best
}

func (s skeleton) arcDistance(other arcPath) float64 {
	best := math.Inf(1)
	for _, q := range s.points {
		best = math.Min(best, other.pointDistance(q.Vec()))
	}
	for _, sg := range s.segs {
		best = math.Min(best, other.segDistance(sg))
	}
	for _, a := range s.arcs {
		best = math.Min(best, a.arcDistance(other))
	}
	return best
}

func probeSkeleton(probe Seg) skeleton {
	if probe.IsDegenerate() {
		return skeleton{points: []Point{probe.A}}
	}
	return skeleton{segs: []Seg{probe}}
}

// skeletonDistance returns the minimum distance between two skeletons, or +Inf
// if either is empty.
func skeletonDistance(a, b skeleton) float64 {
	if a.empty() || b.empty() {
		return math.Inf(1)
	}
	if containsAny(a.filled, b) || containsAny(b.filled, a) {
		return 0
	}

	best := math.Inf(1)
	for _, pa := range a.points {
		best = math.Min(best, b.pointDistance(pa.Vec()))
	}
	for _, sa := range a.segs {
		if best = math.Min(best, b.segDistance(sa)); best == 0 {
			return 0
		}
	}
	for _, ca := range a.arcs {
		best = math.Min(best, b.arcDistance(ca))
	}
	return best
}

func containsAny(polygon []Point, s skeleton) bool {
	if len(polygon) < 3 {
		return false
	}
	for _, p := range s.anchors() {
		if PointInPolygon(p, polygon) {
			return true
		}
	}
	return false
}

func collideSkeletons(a, b skeleton, clearance int) (bool, int) {
	d := skeletonDistance(a, b)
	if math.IsInf(d, 1) {
		return false, 0
	}
	offsets := a.offset + b.offset
	actual := max(0, int(d)-offsets)
	minDist := float64(clearance + offsets)
	if d == 0 || d < minDist {
		return true, actual
	}
	return false, actual
}

// CollideShapes tests two shapes against each other with the given clearance.
// It returns whether they collide and the actual gap between them.
func CollideShapes(a, b Shape, clearance int) (bool, int) {
	if a == nil || b == nil {
		return false, 0
	}
	return collideSkeletons(a.skeleton(), b.skeleton(), clearance)
}

// nearestOnSkeleton returns the skeleton point closest to p and its distance.
func nearestOnSkeleton(s skeleton, p Point) (r2.Vec, float64) {
	v := p.Vec()
	best := math.Inf(1)
	var nearest r2.Vec
	for _, q := range s.points {
		if d := r2.Norm(r2.Sub(v, q.Vec())); d < best {
			best, nearest = d, q.Vec()
		}
	}
	for _, sg := range s.segs {
		q := sg.nearest(v)
		if d := r2.Norm(r2.Sub(v, q)); d < best {
			best, nearest = d, q
		}
	}
	for _, a := range s.arcs {
		q := a.nearest(v)
		if d := r2.Norm(r2.Sub(v, q)); d < best {
			best, nearest = d, q
		}
	}
	return nearest, best
}

// MinTranslation returns the vector that moves the moving shape clear of the
// obstacle with the given clearance. The moving shape is treated as a disc
// around its centre with its own offset as radius. ok is false when the shapes
// do not collide. A zero vector with ok set means the direction is undefined
// (the centre lies exactly on the obstacle's skeleton).
func MinTranslation(obstacle, moving Shape, clearance int) (Point, bool) {
	if obstacle == nil || moving == nil {
		return Point{}, false
	}
	so := obstacle.skeleton()
	if so.empty() {
		return Point{}, false
	}
	c := moving.Centre()
	need := float64(clearance + so.offset + moving.skeleton().offset)

	q, d := nearestOnSkeleton(so, c)
	inside := len(so.filled) >= 3 && PointInPolygon(c, so.filled)
	if !inside && d >= need {
		return Point{}, false
	}

	var dir r2.Vec
	var mag float64
	if inside {
		dir = r2.Sub(q, c.Vec())
		mag = d + need
	} else {
		dir = r2.Sub(c.Vec(), q)
		mag = need - d
	}
	if r2.Norm(dir) == 0 {
		return Point{}, true
	}
	return PointFromVec(r2.Scale(math.Ceil(mag)+1, r2.Unit(dir))), true
}

// collideProbe is the shared Collide implementation for all shapes.
func collideProbe(s Shape, probe Seg, clearance int) (bool, int) {
	return collideSkeletons(s.skeleton(), probeSkeleton(probe), clearance)
}
