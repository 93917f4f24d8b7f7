package geometry

import (
	"cmp"

	"golang.org/x/exp/slices"
)

// ConvexHull computes the convex hull of a set of points using Graham scan.
// Returns the points forming the convex hull in counter-clockwise order.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	// Make a copy to avoid modifying the input
	pts := make([]Point, len(points))
	copy(pts, points)

	// Find the point with lowest y (and leftmost if tied)
	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}

	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	// Sort by polar angle with respect to pivot
	sorted := pts[1:]
	slices.SortStableFunc(sorted, func(a, b Point) int {
		if cross := crossProduct(pivot, a, b); cross != 0 {
			return -cmp.Compare(cross, 0)
		}
		return cmp.Compare(distSq(pivot, a), distSq(pivot, b))
	})

	hull := []Point{pivot}
	for _, p := range sorted {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
// Points exactly on an edge count as inside.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		if orientation(pi, pj, p) == 0 && onSegment(Seg{A: pi, B: pj}, p) {
			return true
		}

		// Check if ray from p going right intersects edge pi-pj
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			x := float64(pj.X-pi.X)*float64(p.Y-pi.Y)/float64(pj.Y-pi.Y) + float64(pi.X)
			if float64(p.X) < x {
				inside = !inside
			}
		}
	}

	return inside
}

// polygonEdges returns the closed edge list of a polygon.
func polygonEdges(polygon []Point) []Seg {
	n := len(polygon)
	if n < 2 {
		return nil
	}
	edges := make([]Seg, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Seg{A: polygon[i], B: polygon[(i+1)%n]})
	}
	return edges
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point) int64 {
	return a.Sub(o).Cross(b.Sub(o))
}

// distSq computes the squared distance between two points.
func distSq(a, b Point) int64 {
	return b.Sub(a).SquaredNorm()
}
