package pushout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-router/internal/item"
	"pcb-router/internal/node"
	"pcb-router/pkg/geometry"
)

func pt(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }

func rectSolid(x, y, w, h int) *item.Solid {
	return item.NewSolid(geometry.NewRect(pt(x, y), w, h))
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 10, p.MaxIterations)
	assert.True(t, p.SolidsOnly)
	assert.Equal(t, 5, p.MinStep)

	q := p.WithMaxIterations(3).WithSolidsOnly(false).WithMinStep(20)
	assert.Equal(t, Policy{MaxIterations: 3, SolidsOnly: false, MinStep: 20}, q)
	assert.Equal(t, DefaultPolicy(), p, "builders copy")
}

// TestPushoutSingleSolid pushes a via overlapping one solid by 50 units.
func TestPushoutSingleSolid(t *testing.T) {
	n := node.New()
	n.Add(rectSolid(250, -500, 1000, 1000))
	v := item.NewVia(pt(0, 0), 600, 250, 1)

	r := NewResolver(DefaultPolicy(), 0, nil)
	force, ok := r.PushoutForce(n, v, pt(-1, 0))
	require.True(t, ok)
	assert.Equal(t, pt(-51, 0), force)
	assert.Equal(t, pt(0, 0), v.Pos(), "original via untouched")

	moved := v.CloneVia()
	moved.Move(force)
	assert.Empty(t, n.QueryColliding(moved, node.Query{}))
}

// TestPushoutDirectionIsLateBias checks that an early clear result ignores
// the requested direction.
func TestPushoutDirectionIsLateBias(t *testing.T) {
	n := node.New()
	n.Add(rectSolid(250, -500, 1000, 1000))
	v := item.NewVia(pt(0, 0), 600, 250, 1)

	r := NewResolver(DefaultPolicy(), 0, nil)
	for _, dir := range []geometry.Point{pt(1, 0), pt(0, 1), pt(-1, 0), pt(0, 0)} {
		force, ok := r.PushoutForce(n, v, dir)
		require.True(t, ok)
		assert.Equal(t, pt(-51, 0), force, "dir %v", dir)
	}
}

func TestPushoutHonorsClearance(t *testing.T) {
	n := node.New()
	n.Add(rectSolid(250, -500, 1000, 1000))
	v := item.NewVia(pt(0, 0), 600, 250, 1)

	r := NewResolver(DefaultPolicy(), 100, nil)
	force, ok := r.PushoutForce(n, v, pt(-1, 0))
	require.True(t, ok)
	assert.LessOrEqual(t, force.X, -150)

	moved := v.CloneVia()
	moved.Move(force)
	assert.Empty(t, n.QueryColliding(moved, node.Query{Clearance: 100}))
}

func TestPushoutAlreadyClear(t *testing.T) {
	n := node.New()
	n.Add(rectSolid(5000, 5000, 100, 100))
	v := item.NewVia(pt(0, 0), 600, 250, 1)

	force, ok := NewResolver(DefaultPolicy(), 0, nil).PushoutForce(n, v, pt(1, 0))
	require.True(t, ok)
	assert.True(t, force.IsZero())
}

// TestPushoutCaged surrounds the via with walls it cannot fit between.
func TestPushoutCaged(t *testing.T) {
	const wall = 10000
	n := node.New()
	n.Add(rectSolid(-250-wall, -250-wall, wall, 2*wall+500))
	n.Add(rectSolid(250, -250-wall, wall, 2*wall+500))
	n.Add(rectSolid(-250-wall, 250, 2*wall+500, wall))
	n.Add(rectSolid(-250-wall, -250-wall, 2*wall+500, wall))
	v := item.NewVia(pt(0, 0), 600, 250, 1)

	for _, dir := range []geometry.Point{pt(1, 0), pt(0, -1), pt(1, 1), pt(0, 0)} {
		_, ok := NewResolver(DefaultPolicy(), 0, nil).PushoutForce(n, v, dir)
		assert.False(t, ok, "direction %v", dir)
	}
	assert.Equal(t, pt(0, 0), v.Pos())
}

func TestPushoutSolidsOnly(t *testing.T) {
	n := node.New()
	n.Add(item.NewSegment(pt(-1000, 0), pt(1000, 0), 200, 2))
	v := item.NewVia(pt(0, 0), 600, 250, 1)

	force, ok := NewResolver(DefaultPolicy(), 0, nil).PushoutForce(n, v, pt(0, 1))
	require.True(t, ok)
	assert.True(t, force.IsZero(), "traces are ignored")

	force, ok = NewResolver(DefaultPolicy().WithSolidsOnly(false), 0, nil).PushoutForce(n, v, pt(0, 1))
	require.True(t, ok)
	assert.Greater(t, force.EuclideanNorm(), 0.0)
}

func TestPushoutIgnoresOwnNetAndSelf(t *testing.T) {
	n := node.New()
	v := item.NewVia(pt(0, 0), 600, 250, 1)
	n.Add(v)
	n.Add(item.NewVia(pt(100, 0), 600, 250, 1))

	force, ok := NewResolver(DefaultPolicy().WithSolidsOnly(false), 0, nil).PushoutForce(n, v, pt(1, 0))
	require.True(t, ok)
	assert.True(t, force.IsZero())
}

func TestPushoutZeroIterations(t *testing.T) {
	n := node.New()
	n.Add(rectSolid(250, -500, 1000, 1000))
	v := item.NewVia(pt(0, 0), 600, 250, 1)

	force, ok := NewResolver(DefaultPolicy().WithMaxIterations(0), 0, nil).PushoutForce(n, v, pt(-1, 0))
	assert.False(t, ok)
	assert.True(t, force.IsZero())
}
