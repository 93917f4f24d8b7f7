package item

import (
	"fmt"

	"pcb-router/pkg/geometry"
)

// ViaType is the construction of a via.
type ViaType int

const (
	// ViaThrough spans every copper layer.
	ViaThrough ViaType = iota
	// ViaBlindBuried spans a subset of layers.
	ViaBlindBuried
	// ViaMicro connects adjacent layers.
	ViaMicro
)

func (t ViaType) String() string {
	switch t {
	case ViaThrough:
		return "Through"
	case ViaBlindBuried:
		return "BlindBuried"
	case ViaMicro:
		return "Micro"
	default:
		return "Unknown"
	}
}

// viaGeometry is the position-dependent state of a via. It is replaced as a
// whole so the pad and hole circles never disagree with the position.
type viaGeometry struct {
	pos      geometry.Point
	diameter int
	drill    int
	pad      *geometry.Circle
	hole     *geometry.Circle
}

func newViaGeometry(pos geometry.Point, diameter, drill int) viaGeometry {
	return viaGeometry{
		pos:      pos,
		diameter: diameter,
		drill:    drill,
		pad:      geometry.NewCircle(pos, diameter/2),
		hole:     geometry.NewCircle(pos, drill/2),
	}
}

// Via is a plated hole joining layers. Its shape is the pad circle and its
// alternate shape is the drill hole.
type Via struct {
	base
	geom    viaGeometry
	viaType ViaType
}

// NewVia creates a through via spanning all layers.
func NewVia(pos geometry.Point, diameter, drill, net int) *Via {
	return &Via{
		base:    newBase(net),
		geom:    newViaGeometry(pos, diameter, drill),
		viaType: ViaThrough,
	}
}

// Pos returns the via center.
func (v *Via) Pos() geometry.Point { return v.geom.pos }

// SetPos moves the via and both its circles to pos.
func (v *Via) SetPos(pos geometry.Point) {
	v.geom = newViaGeometry(pos, v.geom.diameter, v.geom.drill)
}

// Diameter returns the pad diameter.
func (v *Via) Diameter() int { return v.geom.diameter }

// SetDiameter resizes the pad.
func (v *Via) SetDiameter(diameter int) {
	v.geom = newViaGeometry(v.geom.pos, diameter, v.geom.drill)
}

// Drill returns the hole diameter.
func (v *Via) Drill() int { return v.geom.drill }

// SetDrill resizes the hole.
func (v *Via) SetDrill(drill int) {
	v.geom = newViaGeometry(v.geom.pos, v.geom.diameter, drill)
}

// ViaType returns the via construction.
func (v *Via) ViaType() ViaType { return v.viaType }

// SetViaType sets the via construction.
func (v *Via) SetViaType(t ViaType) { v.viaType = t }

func (v *Via) Kind() Kind { return KindVia }

// Shape returns a copy of the pad circle.
func (v *Via) Shape() geometry.Shape { return v.geom.pad.Clone() }

// AlternateShape returns a copy of the drill circle.
func (v *Via) AlternateShape() geometry.Shape { return v.geom.hole.Clone() }

func (v *Via) Hull(clearance, walkaroundThickness, layer int) *geometry.LineChain {
	if !v.onLayer(layer) {
		return geometry.NewLineChain()
	}
	return geometry.CircleHull(v.geom.pad, clearance, walkaroundThickness)
}

func (v *Via) Clone() Item {
	return v.CloneVia()
}

// CloneVia returns an independent copy typed as a via.
func (v *Via) CloneVia() *Via {
	return &Via{
		base:    v.cloneBase(),
		geom:    newViaGeometry(v.geom.pos, v.geom.diameter, v.geom.drill),
		viaType: v.viaType,
	}
}

func (v *Via) Move(d geometry.Point) {
	v.SetPos(v.geom.pos.Add(d))
}

func (v *Via) Rotate(angle float64, pivot geometry.Point) {
	v.SetPos(geometry.RotationAbout(angle, pivot).ApplyPoint(v.geom.pos))
}

func (v *Via) Anchor(int) geometry.Point { return v.geom.pos }

func (v *Via) AnchorCount() int { return 1 }

// ChangedArea is empty when other is a via at the same position.
func (v *Via) ChangedArea(other Item) (geometry.Box, bool) {
	if ov, ok := other.(*Via); ok && ov.Pos() == v.Pos() {
		return geometry.Box{}, false
	}
	return mergedArea(v, other)
}

func (v *Via) String() string {
	return fmt.Sprintf("Via{net:%d pos:(%d,%d) d:%d drill:%d layers:%s}",
		v.net, v.geom.pos.X, v.geom.pos.Y, v.geom.diameter, v.geom.drill, v.layers)
}

// ViaHandle identifies a via by position, layer span and net.
type ViaHandle struct {
	Valid  bool
	Pos    geometry.Point
	Layers LayerRange
	Net    int
}

// MakeHandle returns a handle that locates this via.
func (v *Via) MakeHandle() ViaHandle {
	return ViaHandle{
		Valid:  true,
		Pos:    v.geom.pos,
		Layers: v.layers,
		Net:    v.net,
	}
}
