package geometry

// Simple is a filled simple (non self-intersecting) polygon.
type Simple struct {
	points []Point
}

// NewSimple creates a polygon from its vertices.
func NewSimple(points ...Point) *Simple {
	s := &Simple{points: make([]Point, len(points))}
	copy(s.points, points)
	return s
}

// Append adds a vertex.
func (s *Simple) Append(p Point) {
	s.points = append(s.points, p)
}

// Vertex returns the i-th vertex.
func (s *Simple) Vertex(i int) Point {
	return s.points[i]
}

// PointCount returns the number of vertices.
func (s *Simple) PointCount() int {
	return len(s.points)
}

// Points returns a copy of the vertices.
func (s *Simple) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

func (s *Simple) Type() ShapeType { return ShapeSimple }

func (s *Simple) BBox(clearance int) Box {
	return BoundingBox(s.points).Inflate(clearance)
}

func (s *Simple) Collide(probe Seg, clearance int) (bool, int) {
	return collideProbe(s, probe, clearance)
}

func (s *Simple) Move(v Point) {
	for i := range s.points {
		s.points[i] = s.points[i].Add(v)
	}
}

// Rotate rotates each vertex about pivot, rounding to the grid.
func (s *Simple) Rotate(angle float64, pivot Point) {
	t := RotationAbout(angle, pivot)
	for i := range s.points {
		s.points[i] = t.ApplyPoint(s.points[i])
	}
}

func (s *Simple) Clone() Shape {
	return NewSimple(s.points...)
}

func (s *Simple) IsSolid() bool { return true }

func (s *Simple) Centre() Point {
	return Centroid(s.points)
}

// Polygons with fewer than three vertices have no area and never collide.
func (s *Simple) skeleton() skeleton {
	if len(s.points) < 3 {
		return skeleton{}
	}
	return skeleton{segs: polygonEdges(s.points), filled: s.points}
}
