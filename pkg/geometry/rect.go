package geometry

// Rect is a filled axis-aligned rectangle with its origin at P0.
type Rect struct {
	P0     Point `json:"p0"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
}

// NewRect creates a new Rect, normalizing negative sizes.
func NewRect(p0 Point, width, height int) *Rect {
	b := NewBox(p0, Point{X: width, Y: height})
	return &Rect{P0: b.Min, Width: b.Width(), Height: b.Height()}
}

// Size returns the rectangle size as a vector.
func (r *Rect) Size() Point {
	return Point{X: r.Width, Y: r.Height}
}

// Outline returns the corners counter-clockwise from P0.
func (r *Rect) Outline() []Point {
	return Box{Min: r.P0, Max: r.P0.Add(r.Size())}.Corners()
}

func (r *Rect) Type() ShapeType { return ShapeRect }

func (r *Rect) BBox(clearance int) Box {
	return Box{Min: r.P0, Max: r.P0.Add(r.Size())}.Inflate(clearance)
}

func (r *Rect) Collide(probe Seg, clearance int) (bool, int) {
	return collideProbe(r, probe, clearance)
}

func (r *Rect) Move(v Point) {
	r.P0 = r.P0.Add(v)
}

// Rotate rotates the corners about pivot and keeps their axis-aligned bounding
// box. This is exact for multiples of 90 degrees.
func (r *Rect) Rotate(angle float64, pivot Point) {
	t := RotationAbout(angle, pivot)
	corners := r.Outline()
	for i := range corners {
		corners[i] = t.ApplyPoint(corners[i])
	}
	b := BoundingBox(corners)
	r.P0 = b.Min
	r.Width = b.Width()
	r.Height = b.Height()
}

func (r *Rect) Clone() Shape {
	cp := *r
	return &cp
}

func (r *Rect) IsSolid() bool { return true }

func (r *Rect) Centre() Point {
	return Point{X: r.P0.X + r.Width/2, Y: r.P0.Y + r.Height/2}
}

func (r *Rect) skeleton() skeleton {
	if r.Width == 0 && r.Height == 0 {
		return skeleton{points: []Point{r.P0}}
	}
	outline := r.Outline()
	return skeleton{segs: polygonEdges(outline), filled: outline}
}
