// Package geometry provides the geometric primitives used by the routing kernel.
//
// Coordinates are integers in board internal units. Projections and rotations are
// computed in float64 and rounded back onto the integer grid.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point represents a 2D point (or vector) with integer coordinates.
type Point struct {
	X int `json:"x" toml:"x" yaml:"x"`
	Y int `json:"y" toml:"y" yaml:"y"`
}

// NewPoint creates a new Point.
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// PointFromVec rounds a float vector onto the integer grid.
func PointFromVec(v r2.Vec) Point {
	return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// Vec converts to a float vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Neg returns the opposite vector.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Scale returns the point scaled by a factor, rounded to the grid.
func (p Point) Scale(factor float64) Point {
	return PointFromVec(r2.Scale(factor, p.Vec()))
}

// Dot returns the dot product.
func (p Point) Dot(other Point) int64 {
	return int64(p.X)*int64(other.X) + int64(p.Y)*int64(other.Y)
}

// Cross returns the z component of the cross product.
func (p Point) Cross(other Point) int64 {
	return int64(p.X)*int64(other.Y) - int64(p.Y)*int64(other.X)
}

// SquaredNorm returns the squared length of the vector.
func (p Point) SquaredNorm() int64 {
	return p.Dot(p)
}

// EuclideanNorm returns the length of the vector.
func (p Point) EuclideanNorm() float64 {
	return r2.Norm(p.Vec())
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	return r2.Norm(r2.Sub(p.Vec(), other.Vec()))
}

// Resize returns a vector with the same direction and the given length.
// The zero vector stays zero.
func (p Point) Resize(length int) Point {
	if p.X == 0 && p.Y == 0 {
		return p
	}
	return p.Scale(float64(length) / p.EuclideanNorm())
}

// Rotate rotates the vector about the origin by angle radians.
func (p Point) Rotate(angle float64) Point {
	return PointFromVec(r2.Rotate(p.Vec(), angle, r2.Vec{}))
}

// Perpendicular returns the vector rotated by +90 degrees.
func (p Point) Perpendicular() Point {
	return Point{X: -p.Y, Y: p.X}
}

// IsZero reports whether both coordinates are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Box is an axis-aligned bounding box. Both corners are inclusive.
type Box struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewBox creates a box from an origin and a size, normalizing negative sizes.
func NewBox(origin, size Point) Box {
	b := Box{Min: origin, Max: origin.Add(size)}
	return b.Normalize()
}

// Normalize swaps corners so that Min <= Max on both axes.
func (b Box) Normalize() Box {
	if b.Min.X > b.Max.X {
		b.Min.X, b.Max.X = b.Max.X, b.Min.X
	}
	if b.Min.Y > b.Max.Y {
		b.Min.Y, b.Max.Y = b.Max.Y, b.Min.Y
	}
	return b
}

// Inflate grows the box by d on every side.
func (b Box) Inflate(d int) Box {
	return Box{
		Min: Point{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: Point{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Merge returns the smallest box containing both boxes.
func (b Box) Merge(other Box) Box {
	return Box{
		Min: Point{X: min(b.Min.X, other.Min.X), Y: min(b.Min.Y, other.Min.Y)},
		Max: Point{X: max(b.Max.X, other.Max.X), Y: max(b.Max.Y, other.Max.Y)},
	}
}

// Contains returns true if the point is inside the box.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ContainsBox returns true if other lies entirely within b.
func (b Box) ContainsBox(other Box) bool {
	return b.Contains(other.Min) && b.Contains(other.Max)
}

// Intersects returns true if the boxes overlap or touch.
func (b Box) Intersects(other Box) bool {
	return b.Min.X <= other.Max.X && other.Min.X <= b.Max.X &&
		b.Min.Y <= other.Max.Y && other.Min.Y <= b.Max.Y
}

// Width returns the horizontal extent.
func (b Box) Width() int {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent.
func (b Box) Height() int {
	return b.Max.Y - b.Min.Y
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Corners returns the four corners counter-clockwise from Min.
func (b Box) Corners() []Point {
	return []Point{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Rotation returns a rotation transform around the origin.
func Rotation(radians float64) AffineTransform {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return AffineTransform{A: cos, B: -sin, C: sin, D: cos}
}

// RotationAbout returns a rotation by radians around pivot.
func RotationAbout(radians float64, pivot Point) AffineTransform {
	px, py := float64(pivot.X), float64(pivot.Y)
	return Translation(px, py).Compose(Rotation(radians)).Compose(Translation(-px, -py))
}

// Apply applies the transform to a vector.
func (t AffineTransform) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyPoint applies the transform to a grid point and rounds the result.
func (t AffineTransform) ApplyPoint(p Point) Point {
	return PointFromVec(t.Apply(p.Vec()))
}

// Compose returns this transform composed with another (this * other).
func (t AffineTransform) Compose(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumX, sumY int64
	for _, p := range points {
		sumX += int64(p.X)
		sumY += int64(p.Y)
	}
	n := int64(len(points))
	return Point{X: int(sumX / n), Y: int(sumY / n)}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
	}
	return b
}
