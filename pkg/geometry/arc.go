package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ArcAccuracy is the maximum chord error, in internal units, used when an arc
// is approximated by a polyline.
const ArcAccuracy = 2

// maxArcSegments caps the polyline approximation of a single arc.
const maxArcSegments = 360

// Arc is a circular arc with width. It starts at Start and sweeps Angle degrees
// about Center; positive angles run counter-clockwise.
type Arc struct {
	center Point
	start  Point
	angle  float64
	width  int
}

// NewArc creates a new Arc.
func NewArc(center, start Point, angle float64, width int) *Arc {
	return &Arc{center: center, start: start, angle: angle, width: width}
}

// Center returns the arc center.
func (a *Arc) Center() Point { return a.center }

// Start returns the start point.
func (a *Arc) Start() Point { return a.start }

// CentralAngle returns the swept angle in degrees.
func (a *Arc) CentralAngle() float64 { return a.angle }

// Width returns the stroke width.
func (a *Arc) Width() int { return a.width }

// SetWidth sets the stroke width.
func (a *Arc) SetWidth(width int) { a.width = width }

// Radius returns the distance from center to start.
func (a *Arc) Radius() int {
	return int(math.Round(a.center.Distance(a.start)))
}

// pointAt returns the arc point after sweeping deg degrees from the start.
func (a *Arc) pointAt(deg float64) Point {
	return PointFromVec(r2.Rotate(a.start.Vec(), deg*math.Pi/180, a.center.Vec()))
}

// End returns the end point.
func (a *Arc) End() Point { return a.pointAt(a.angle) }

// Mid returns the point halfway along the arc.
func (a *Arc) Mid() Point { return a.pointAt(a.angle / 2) }

// ConvertToPolyline approximates the arc by chords whose sagitta is at most maxError.
func (a *Arc) ConvertToPolyline(maxError int) *LineChain {
	r := float64(a.Radius())
	n := 1
	if r > 0 && maxError > 0 && float64(maxError) < r {
		step := 2 * math.Acos(1-float64(maxError)/r)
		n = int(math.Ceil(math.Abs(a.angle) * math.Pi / 180 / step))
	}
	n = max(1, min(n, maxArcSegments))

	lc := NewLineChain()
	for i := 0; i <= n; i++ {
		lc.Append(a.pointAt(a.angle * float64(i) / float64(n)))
	}
	return lc
}

func (a *Arc) Type() ShapeType { return ShapeArc }

// BBox returns the box of the polyline approximation, widened by the chord
// error so the true arc is always enclosed.
func (a *Arc) BBox(clearance int) Box {
	pts := a.ConvertToPolyline(ArcAccuracy).points
	return BoundingBox(pts).Inflate(a.width/2 + ArcAccuracy + clearance)
}

func (a *Arc) Collide(probe Seg, clearance int) (bool, int) {
	return collideProbe(a, probe, clearance)
}

func (a *Arc) Move(v Point) {
	a.center = a.center.Add(v)
	a.start = a.start.Add(v)
}

func (a *Arc) Rotate(angle float64, pivot Point) {
	t := RotationAbout(angle, pivot)
	a.center = t.ApplyPoint(a.center)
	a.start = t.ApplyPoint(a.start)
}

func (a *Arc) Clone() Shape {
	cp := *a
	return &cp
}

func (a *Arc) IsSolid() bool { return true }

func (a *Arc) Centre() Point { return a.Mid() }

// path returns the exact arc through start.
func (a *Arc) path() arcPath {
	off := r2.Sub(a.start.Vec(), a.center.Vec())
	return arcPath{
		c:     a.center.Vec(),
		r:     r2.Norm(off),
		start: math.Atan2(off.Y, off.X),
		sweep: a.angle * math.Pi / 180,
	}
}

func (a *Arc) skeleton() skeleton {
	if a.start == a.center {
		return skeleton{points: []Point{a.start}, offset: a.width / 2}
	}
	return skeleton{arcs: []arcPath{a.path()}, offset: a.width / 2}
}
