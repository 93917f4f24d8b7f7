package geometry

// Circle is a filled circle.
type Circle struct {
	Center Point `json:"center"`
	Radius int   `json:"radius"`
}

// NewCircle creates a new Circle.
func NewCircle(center Point, radius int) *Circle {
	return &Circle{Center: center, Radius: radius}
}

func (c *Circle) Type() ShapeType { return ShapeCircle }

// BBox returns the square enclosing the circle, inflated by clearance.
func (c *Circle) BBox(clearance int) Box {
	r := c.Radius + clearance
	return Box{
		Min: Point{X: c.Center.X - r, Y: c.Center.Y - r},
		Max: Point{X: c.Center.X + r, Y: c.Center.Y + r},
	}
}

func (c *Circle) Collide(probe Seg, clearance int) (bool, int) {
	return collideProbe(c, probe, clearance)
}

func (c *Circle) Move(v Point) {
	c.Center = c.Center.Add(v)
}

// Rotate moves the center about pivot; the circle itself is rotation invariant.
func (c *Circle) Rotate(angle float64, pivot Point) {
	c.Center = RotationAbout(angle, pivot).ApplyPoint(c.Center)
}

func (c *Circle) Clone() Shape {
	cp := *c
	return &cp
}

func (c *Circle) IsSolid() bool { return true }

func (c *Circle) Centre() Point { return c.Center }

func (c *Circle) skeleton() skeleton {
	return skeleton{points: []Point{c.Center}, offset: c.Radius}
}
