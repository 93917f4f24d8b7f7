package geometry

// Segment is a straight track segment with width and round ends.
type Segment struct {
	Seg   Seg `json:"seg"`
	Width int `json:"width"`
}

// NewSegment creates a new Segment.
func NewSegment(a, b Point, width int) *Segment {
	return &Segment{Seg: Seg{A: a, B: b}, Width: width}
}

func (s *Segment) Type() ShapeType { return ShapeSegment }

func (s *Segment) BBox(clearance int) Box {
	return BoundingBox([]Point{s.Seg.A, s.Seg.B}).Inflate(s.Width/2 + clearance)
}

func (s *Segment) Collide(probe Seg, clearance int) (bool, int) {
	return collideProbe(s, probe, clearance)
}

func (s *Segment) Move(v Point) {
	s.Seg.A = s.Seg.A.Add(v)
	s.Seg.B = s.Seg.B.Add(v)
}

func (s *Segment) Rotate(angle float64, pivot Point) {
	t := RotationAbout(angle, pivot)
	s.Seg.A = t.ApplyPoint(s.Seg.A)
	s.Seg.B = t.ApplyPoint(s.Seg.B)
}

func (s *Segment) Clone() Shape {
	cp := *s
	return &cp
}

func (s *Segment) IsSolid() bool { return true }

func (s *Segment) Centre() Point {
	return Point{X: (s.Seg.A.X + s.Seg.B.X) / 2, Y: (s.Seg.A.Y + s.Seg.B.Y) / 2}
}

func (s *Segment) skeleton() skeleton {
	sk := probeSkeleton(s.Seg)
	sk.offset = s.Width / 2
	return sk
}
