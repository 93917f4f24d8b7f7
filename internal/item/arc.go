package item

import (
	"fmt"

	"pcb-router/pkg/geometry"
)

// Arc is a circular track.
type Arc struct {
	base
	arc *geometry.Arc
}

// NewArc creates a track arc. The item takes ownership of arc.
func NewArc(arc *geometry.Arc, net int) *Arc {
	return &Arc{base: newBase(net), arc: arc}
}

// Width returns the track width.
func (a *Arc) Width() int { return a.arc.Width() }

// SetWidth sets the track width.
func (a *Arc) SetWidth(width int) { a.arc.SetWidth(width) }

func (a *Arc) Kind() Kind { return KindArc }

func (a *Arc) Shape() geometry.Shape { return a.arc }

func (a *Arc) AlternateShape() geometry.Shape { return nil }

func (a *Arc) Hull(clearance, walkaroundThickness, layer int) *geometry.LineChain {
	if !a.onLayer(layer) {
		return geometry.NewLineChain()
	}
	return geometry.ArcHull(a.arc, clearance, walkaroundThickness)
}

func (a *Arc) Clone() Item {
	return &Arc{base: a.cloneBase(), arc: a.arc.Clone().(*geometry.Arc)}
}

func (a *Arc) Move(v geometry.Point) { a.arc.Move(v) }

func (a *Arc) Rotate(angle float64, pivot geometry.Point) { a.arc.Rotate(angle, pivot) }

func (a *Arc) Anchor(n int) geometry.Point {
	if n == 0 {
		return a.arc.Start()
	}
	return a.arc.End()
}

func (a *Arc) AnchorCount() int { return 2 }

// ChangedArea always covers both arcs.
func (a *Arc) ChangedArea(other Item) (geometry.Box, bool) {
	return mergedArea(a, other)
}

func (a *Arc) String() string {
	c := a.arc.Center()
	return fmt.Sprintf("Arc{net:%d c:(%d,%d) r:%d angle:%.1f w:%d}",
		a.net, c.X, c.Y, a.arc.Radius(), a.arc.CentralAngle(), a.arc.Width())
}
