package item

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-router/pkg/geometry"
)

func pt(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }

// allItems returns one instance of every item variant.
func allItems() []Item {
	sq := geometry.NewRect(pt(1000, 1000), 400, 400)
	line := NewLine(geometry.NewLineChain(pt(0, 0), pt(1000, 0), pt(1000, 800)), 150, 4)
	line.AppendVia(NewVia(pt(0, 0), 500, 200, 4))
	return []Item{
		NewSolid(sq),
		NewVia(pt(0, 0), 600, 250, 1),
		NewSegment(pt(-500, 0), pt(500, 300), 200, 2),
		NewArc(geometry.NewArc(pt(0, 0), pt(1000, 0), 90, 100), 3),
		line,
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindSolid:   "Solid",
		KindVia:     "Via",
		KindSegment: "Segment",
		KindArc:     "Arc",
		KindLine:    "Line",
		Kind(99):    "Unknown",
	}
	for k, want := range kinds {
		assert.Equal(t, want, k.String())
	}
}

func TestKindMask(t *testing.T) {
	m := Kinds(KindSolid, KindVia)
	assert.True(t, m.Matches(KindSolid))
	assert.True(t, m.Matches(KindVia))
	assert.False(t, m.Matches(KindLine))
	assert.True(t, AnyKind.Matches(KindArc))
}

func TestNetNormalization(t *testing.T) {
	assert.Equal(t, NetOrphaned, NormalizeNet(NetForceOrphaned))
	assert.Equal(t, NetOrphaned, NormalizeNet(-42))
	assert.Equal(t, 7, NormalizeNet(7))

	v := NewVia(pt(0, 0), 600, 250, -5)
	assert.Equal(t, NetOrphaned, v.Net())
	v.SetNet(NetForceOrphaned)
	assert.Equal(t, NetOrphaned, v.Net())

	assert.True(t, SameNet(3, 3))
	assert.False(t, SameNet(3, 4))
	assert.False(t, SameNet(NetOrphaned, NetOrphaned), "orphaned items never share a net")
}

func TestLayerRange(t *testing.T) {
	r := NewLayerRange(5, 2)
	assert.Equal(t, LayerRange{Start: 2, End: 5}, r)
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(6))
	assert.True(t, r.Overlaps(SingleLayer(5)))
	assert.False(t, r.Overlaps(SingleLayer(6)))
	assert.Equal(t, "2-5", r.String())
}

func TestMarkers(t *testing.T) {
	s := NewSegment(pt(0, 0), pt(10, 0), 1, 1)
	s.Mark(MarkerHead | MarkerLocked)
	assert.Equal(t, MarkerHead|MarkerLocked, s.Marker())
	s.Unmark(MarkerHead)
	assert.Equal(t, MarkerLocked, s.Marker())
}

// TestViaSettersKeepShapesInSync verifies the pad and hole follow every setter.
func TestViaSettersKeepShapesInSync(t *testing.T) {
	v := NewVia(pt(0, 0), 600, 250, 1)

	v.SetPos(pt(100, -200))
	pad := v.Shape().(*geometry.Circle)
	hole := v.AlternateShape().(*geometry.Circle)
	assert.Equal(t, pt(100, -200), pad.Center)
	assert.Equal(t, pt(100, -200), hole.Center)
	assert.Equal(t, 300, pad.Radius)
	assert.Equal(t, 125, hole.Radius)

	v.SetDiameter(800)
	assert.Equal(t, 400, v.Shape().(*geometry.Circle).Radius)
	assert.Equal(t, pt(100, -200), v.Shape().(*geometry.Circle).Center)

	v.SetDrill(300)
	assert.Equal(t, 150, v.AlternateShape().(*geometry.Circle).Radius)

	v.Move(pt(-100, 200))
	assert.Equal(t, pt(0, 0), v.Pos())
	assert.Equal(t, pt(0, 0), v.Shape().(*geometry.Circle).Center)

	v.Rotate(math.Pi/2, pt(100, 0))
	assert.Equal(t, pt(100, -100), v.Pos())
	assert.Equal(t, v.Pos(), v.AlternateShape().(*geometry.Circle).Center)
}

func TestViaShapesAreCopies(t *testing.T) {
	v := NewVia(pt(0, 0), 600, 250, 1)
	v.Shape().Move(pt(500, 0))
	v.AlternateShape().Move(pt(500, 0))
	assert.Equal(t, pt(0, 0), v.Shape().(*geometry.Circle).Center)
	assert.Equal(t, pt(0, 0), v.AlternateShape().(*geometry.Circle).Center)
	hit, _ := v.Shape().Collide(geometry.NewSeg(pt(0, 0), pt(0, 0)), 0)
	assert.True(t, hit)
}

// TestViaFootprint is the bare via on an empty board.
func TestViaFootprint(t *testing.T) {
	v := NewVia(pt(0, 0), 600, 250, 1)
	for _, clearance := range []int{0, 1, 100, 299, 300} {
		edge := geometry.NewSeg(pt(700, 0), pt(700, 500))
		hit, _ := v.Shape().Collide(edge, clearance)
		assert.False(t, hit, "clearance %d", clearance)
	}
	for _, clearance := range []int{0, 300, 100000} {
		hit, _ := v.Shape().Collide(geometry.NewSeg(pt(0, 0), pt(0, 0)), clearance)
		assert.True(t, hit, "clearance %d", clearance)
	}
}

func TestViaHandle(t *testing.T) {
	v := NewVia(pt(10, 20), 600, 250, 3)
	v.SetLayers(NewLayerRange(0, 1))
	h := v.MakeHandle()
	assert.Equal(t, ViaHandle{Valid: true, Pos: pt(10, 20), Layers: LayerRange{Start: 0, End: 1}, Net: 3}, h)
	assert.False(t, ViaHandle{}.Valid)
}

// TestCloneIndependence verifies a clone shares no geometry or owner with its source.
func TestCloneIndependence(t *testing.T) {
	owner := new(int)
	parent := uuid.New()
	for _, it := range allItems() {
		t.Run(it.Kind().String(), func(t *testing.T) {
			it.SetOwner(owner)
			it.SetParent(parent)
			it.SetRank(3)
			before := it.Shape().BBox(0)

			c := it.Clone()
			assert.Nil(t, c.Owner())
			assert.Equal(t, parent, c.Parent())
			assert.Equal(t, 3, c.Rank())
			assert.Equal(t, it.Net(), c.Net())
			assert.Equal(t, it.Kind(), c.Kind())

			c.Move(pt(5000, 5000))
			c.SetNet(99)
			assert.Equal(t, before, it.Shape().BBox(0))
			assert.NotEqual(t, it.Net(), c.Net())
			assert.Same(t, owner, it.Owner())
		})
	}
}

// TestChangedAreaWithinBBox checks an item replacing itself touches at most its own box.
func TestChangedAreaWithinBBox(t *testing.T) {
	for _, it := range allItems() {
		t.Run(it.Kind().String(), func(t *testing.T) {
			area, ok := it.ChangedArea(it)
			if !ok {
				return
			}
			assert.True(t, it.Shape().BBox(0).ContainsBox(area))
		})
	}
}

func TestChangedArea(t *testing.T) {
	a := NewVia(pt(0, 0), 600, 250, 1)
	b := a.CloneVia()

	_, ok := a.ChangedArea(b)
	assert.False(t, ok, "unmoved via changes nothing")

	b.SetPos(pt(1000, 0))
	area, ok := a.ChangedArea(b)
	require.True(t, ok)
	assert.Equal(t, geometry.Box{Min: pt(-300, -300), Max: pt(1300, 300)}, area)

	arc := NewArc(geometry.NewArc(pt(0, 0), pt(1000, 0), 90, 100), 1)
	area, ok = arc.ChangedArea(arc.Clone())
	require.True(t, ok)
	assert.Equal(t, arc.Shape().BBox(0), area)
}

// TestHullEnclosesShape verifies every hull contains the item's anchors.
func TestHullEnclosesShape(t *testing.T) {
	for _, it := range allItems() {
		t.Run(it.Kind().String(), func(t *testing.T) {
			h := it.Hull(50, 0, AnyLayer)
			require.True(t, h.IsClosed())
			require.GreaterOrEqual(t, h.PointCount(), 3)
			for n := 0; n < it.AnchorCount(); n++ {
				assert.True(t, h.PointInside(it.Anchor(n)), "anchor %d", n)
			}
		})
	}
}

func TestHullLayerFilter(t *testing.T) {
	v := NewVia(pt(0, 0), 600, 250, 1)
	v.SetLayers(NewLayerRange(0, 1))
	assert.Greater(t, v.Hull(10, 0, 1).PointCount(), 0)
	assert.Zero(t, v.Hull(10, 0, 5).PointCount())
}

func TestCollideHonorsLayers(t *testing.T) {
	a := NewSegment(pt(0, 0), pt(1000, 0), 200, 1)
	b := NewVia(pt(500, 0), 600, 250, 2)
	hit, _ := Collide(a, b, 0)
	assert.True(t, hit)

	a.SetLayers(SingleLayer(0))
	b.SetLayers(NewLayerRange(2, 3))
	hit, _ = Collide(a, b, 0)
	assert.False(t, hit)
}

func TestLine(t *testing.T) {
	l := NewLine(geometry.NewLineChain(pt(0, 0), pt(1000, 0), pt(1000, 1000)), 200, 7)
	assert.Equal(t, 2, l.SegmentCount())
	assert.Equal(t, pt(0, 0), l.Anchor(0))
	assert.Equal(t, pt(1000, 1000), l.Anchor(1))

	segs := l.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, 200, segs[1].Width())
	assert.Equal(t, 7, segs[1].Net())

	v := NewVia(pt(0, 0), 600, 250, 0)
	l.AppendVia(v)
	require.True(t, l.EndsWithVia())
	assert.Equal(t, pt(1000, 1000), l.Via().Pos())
	assert.Equal(t, 7, l.Via().Net())

	l.Move(pt(10, 10))
	assert.Equal(t, pt(1010, 1010), l.Via().Pos())

	l.RemoveVia()
	assert.False(t, l.EndsWithVia())
}

func TestLineSetNetFollowsVia(t *testing.T) {
	l := NewLine(geometry.NewLineChain(pt(0, 0), pt(1000, 0)), 200, 7)
	v := NewVia(pt(0, 0), 600, 250, 0)
	l.AppendVia(v)

	l.SetNet(9)
	assert.Equal(t, 9, l.Net())
	assert.Equal(t, 9, v.Net())

	var it Item = l
	it.SetNet(NetForceOrphaned)
	assert.Equal(t, NetOrphaned, v.Net())

	l.RemoveVia()
	l.SetNet(3)
	assert.Equal(t, NetOrphaned, v.Net(), "detached via keeps its net")
}

func TestSolidHoleFollowsShape(t *testing.T) {
	s := NewSolid(geometry.NewCircle(pt(0, 0), 500))
	s.SetHole(geometry.NewCircle(pt(0, 0), 200))
	s.Move(pt(100, 100))
	assert.Equal(t, pt(100, 100), s.Pos())
	assert.Equal(t, pt(100, 100), s.AlternateShape().Centre())
	assert.Equal(t, NetOrphaned, s.Net())
}
