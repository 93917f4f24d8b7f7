package geometry

import (
	"math"
)

// OctagonalHull returns a closed octagon around the box (p0, size) grown by
// clearance, with corners cut by chamfer.
func OctagonalHull(p0, size Point, clearance, chamfer int) *LineChain {
	x0, y0 := p0.X-clearance, p0.Y-clearance
	x1, y1 := p0.X+size.X+clearance, p0.Y+size.Y+clearance

	lc := NewLineChain(
		Point{X: x0, Y: y0 + chamfer},
		Point{X: x0 + chamfer, Y: y0},
		Point{X: x1 - chamfer, Y: y0},
		Point{X: x1, Y: y0 + chamfer},
		Point{X: x1, Y: y1 - chamfer},
		Point{X: x1 - chamfer, Y: y1},
		Point{X: x0 + chamfer, Y: y1},
		Point{X: x0, Y: y1 - chamfer},
	)
	lc.SetClosed(true)
	return lc
}

// CircleHull returns the octagonal hull of a circle.
func CircleHull(c *Circle, clearance, walkaroundThickness int) *LineChain {
	cl := clearance + walkaroundThickness/2
	r := c.Radius
	return OctagonalHull(
		c.Center.Sub(Point{X: r, Y: r}),
		Point{X: 2 * r, Y: 2 * r},
		cl+1,
		int(float64(2*cl+2*r)*0.26),
	)
}

// SegmentHull returns an elongated octagon around a segment.
func SegmentHull(seg *Segment, clearance, walkaroundThickness int) *LineChain {
	a, b := seg.Seg.A, seg.Seg.B
	cl := clearance + walkaroundThickness/2
	d := seg.Width/2 + cl

	if a == b {
		return OctagonalHull(a, Point{}, d+1, int(float64(2*d)*0.26))
	}

	x := int(2.0 / (1.0 + math.Sqrt2) * float64(d))
	dir := b.Sub(a)
	p0 := dir.Perpendicular().Resize(d)
	ds := dir.Perpendicular().Resize(x / 2)
	pd := dir.Resize(x / 2)
	dp := dir.Resize(d)

	lc := NewLineChain(
		b.Add(p0).Add(pd),
		b.Add(dp).Add(ds),
		b.Add(dp).Sub(ds),
		b.Sub(p0).Add(pd),
		a.Sub(p0).Sub(pd),
		a.Sub(dp).Sub(ds),
		a.Sub(dp).Add(ds),
		a.Add(p0).Sub(pd),
	)
	lc.SetClosed(true)
	return lc
}

// ArcHull returns a closed outline around an arc: the arc offset outwards and
// inwards by the clearance, joined by chamfered caps at both ends.
func ArcHull(arc *Arc, clearance, walkaroundThickness int) *LineChain {
	cl := clearance + walkaroundThickness/2
	d := arc.Width()/2 + cl
	c := arc.Center()
	r := arc.Radius()
	poly := arc.ConvertToPolyline(ArcAccuracy).Points()

	ccw := arc.CentralAngle() >= 0
	chamfer := int(math.Round(float64(d) * (math.Sqrt2 - 1)))

	hull := NewLineChain()
	for _, p := range poly {
		hull.Append(c.Add(p.Sub(c).Resize(r + d)))
	}
	appendCap(hull, c, poly[len(poly)-1], ccw, d, chamfer, true)
	inner := max(r-d, 0)
	for i := len(poly) - 1; i >= 0; i-- {
		hull.Append(c.Add(poly[i].Sub(c).Resize(inner)))
	}
	appendCap(hull, c, poly[0], !ccw, d, chamfer, false)
	hull.SetClosed(true)
	return hull
}

// appendCap adds a half-octagon around end bulging along the tangent. The
// points run from the outer side to the inner side, or the reverse.
func appendCap(hull *LineChain, center, end Point, ccw bool, d, chamfer int, fromOuter bool) {
	u := end.Sub(center)
	t := u.Perpendicular()
	if !ccw {
		t = t.Neg()
	}
	pts := []Point{
		end.Add(u.Resize(d)).Add(t.Resize(chamfer)),
		end.Add(u.Resize(chamfer)).Add(t.Resize(d)),
		end.Sub(u.Resize(chamfer)).Add(t.Resize(d)),
		end.Sub(u.Resize(d)).Add(t.Resize(chamfer)),
	}
	if !fromOuter {
		pts[0], pts[1], pts[2], pts[3] = pts[3], pts[2], pts[1], pts[0]
	}
	for _, p := range pts {
		hull.Append(p)
	}
}

// InflatedConvexHull returns the convex hull of the points after growing each by
// an octagon of the given clearance.
func InflatedConvexHull(points []Point, clearance int) *LineChain {
	chamfer := int(math.Round(float64(clearance) * (math.Sqrt2 - 1)))
	grown := make([]Point, 0, len(points)*8)
	for _, p := range points {
		oct := OctagonalHull(p, Point{}, clearance, chamfer)
		grown = append(grown, oct.points...)
	}
	lc := NewLineChain(ConvexHull(grown)...)
	lc.SetClosed(true)
	return lc
}
