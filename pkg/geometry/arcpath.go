package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// arcPath is an exact circular arc in float coordinates. start and sweep are
// in radians; a negative sweep runs clockwise.
type arcPath struct {
	c     r2.Vec
	r     float64
	start float64
	sweep float64
}

func (p arcPath) at(theta float64) r2.Vec {
	return r2.Add(p.c, r2.Vec{X: p.r * math.Cos(theta), Y: p.r * math.Sin(theta)})
}

func (p arcPath) ends() (r2.Vec, r2.Vec) {
	return p.at(p.start), p.at(p.start + p.sweep)
}

// covers reports whether the direction theta lies within the sweep.
func (p arcPath) covers(theta float64) bool {
	span := math.Abs(p.sweep)
	if span >= 2*math.Pi {
		return true
	}
	d := theta - p.start
	if p.sweep < 0 {
		d = -d
	}
	d = math.Mod(d, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d <= span+1e-12
}

// coversPoint reports whether the ray from the center through v crosses the arc.
func (p arcPath) coversPoint(v r2.Vec) bool {
	off := r2.Sub(v, p.c)
	if off.X == 0 && off.Y == 0 {
		return false
	}
	return p.covers(math.Atan2(off.Y, off.X))
}

// nearest returns the arc point closest to v.
func (p arcPath) nearest(v r2.Vec) r2.Vec {
	if p.coversPoint(v) {
		off := r2.Sub(v, p.c)
		return r2.Add(p.c, r2.Scale(p.r/r2.Norm(off), off))
	}
	a, b := p.ends()
	if r2.Norm2(r2.Sub(v, a)) <= r2.Norm2(r2.Sub(v, b)) {
		return a
	}
	return b
}

func (p arcPath) pointDistance(v r2.Vec) float64 {
	return r2.Norm(r2.Sub(v, p.nearest(v)))
}

// segDistance returns the exact distance between the arc and s. The minimum is
// reached at an end of either curve, at a crossing, or where the radius
// through the foot of the center on s meets the arc.
func (p arcPath) segDistance(s Seg) float64 {
	a, b := p.ends()
	best := math.Min(r2.Norm(r2.Sub(a, s.nearest(a))), r2.Norm(r2.Sub(b, s.nearest(b))))
	best = math.Min(best, p.pointDistance(s.A.Vec()))
	best = math.Min(best, p.pointDistance(s.B.Vec()))

	for _, x := range circleSegCrossings(p.c, p.r, s) {
		if p.coversPoint(x) {
			return 0
		}
	}
	if q := s.nearest(p.c); p.coversPoint(q) {
		best = math.Min(best, math.Abs(r2.Norm(r2.Sub(q, p.c))-p.r))
	}
	return best
}

// arcDistance returns the exact distance between two arcs. Besides the ends
// and crossings, interior minima lie on the line through both centers.
func (p arcPath) arcDistance(o arcPath) float64 {
	pa, pb := p.ends()
	oa, ob := o.ends()
	best := math.Min(o.pointDistance(pa), o.pointDistance(pb))
	best = math.Min(best, p.pointDistance(oa))
	best = math.Min(best, p.pointDistance(ob))

	d := r2.Sub(o.c, p.c)
	dist := r2.Norm(d)
	if dist == 0 {
		// Concentric: the radial gap applies wherever the sweeps overlap.
		for _, e := range []r2.Vec{pa, pb} {
			if o.coversPoint(e) {
				best = math.Min(best, math.Abs(p.r-o.r))
			}
		}
		for _, e := range []r2.Vec{oa, ob} {
			if p.coversPoint(e) {
				best = math.Min(best, math.Abs(p.r-o.r))
			}
		}
		return best
	}

	u := r2.Scale(1/dist, d)
	for _, x := range circleCrossings(p.c, p.r, o.c, o.r) {
		if p.coversPoint(x) && o.coversPoint(x) {
			return 0
		}
	}
	for _, sp := range []float64{1, -1} {
		qp := r2.Add(p.c, r2.Scale(sp*p.r, u))
		if !p.coversPoint(qp) {
			continue
		}
		for _, so := range []float64{1, -1} {
			qo := r2.Add(o.c, r2.Scale(so*o.r, u))
			if o.coversPoint(qo) {
				best = math.Min(best, r2.Norm(r2.Sub(qp, qo)))
			}
		}
	}
	return best
}

// circleSegCrossings returns the points where s crosses the circle.
func circleSegCrossings(c r2.Vec, r float64, s Seg) []r2.Vec {
	a := s.A.Vec()
	d := r2.Sub(s.B.Vec(), a)
	f := r2.Sub(a, c)
	qa := r2.Dot(d, d)
	if qa == 0 {
		return nil
	}
	qb := 2 * r2.Dot(d, f)
	qc := r2.Dot(f, f) - r*r
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	root := math.Sqrt(disc)
	var out []r2.Vec
	for _, t := range []float64{(-qb - root) / (2 * qa), (-qb + root) / (2 * qa)} {
		if t >= 0 && t <= 1 {
			out = append(out, r2.Add(a, r2.Scale(t, d)))
		}
	}
	return out
}

// circleCrossings returns the intersection points of two circles with
// distinct centers.
func circleCrossings(c1 r2.Vec, r1 float64, c2 r2.Vec, r2v float64) []r2.Vec {
	d := r2.Sub(c2, c1)
	dist := r2.Norm(d)
	if dist == 0 || dist > r1+r2v || dist < math.Abs(r1-r2v) {
		return nil
	}
	along := (r1*r1 - r2v*r2v + dist*dist) / (2 * dist)
	h := math.Sqrt(math.Max(0, r1*r1-along*along))
	u := r2.Scale(1/dist, d)
	m := r2.Add(c1, r2.Scale(along, u))
	perp := r2.Vec{X: -u.Y, Y: u.X}
	return []r2.Vec{r2.Add(m, r2.Scale(h, perp)), r2.Sub(m, r2.Scale(h, perp))}
}
