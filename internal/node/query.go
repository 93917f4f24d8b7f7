package node

import (
	"cmp"
	"time"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"pcb-router/internal/item"
	"pcb-router/internal/metrics"
	"pcb-router/pkg/geometry"
)

// ClearanceResolver supplies the clearance required between two items.
// Unknown rules must yield 0.
type ClearanceResolver interface {
	Clearance(a, b item.Item) int
	MaxClearance() int
}

// Query controls a collision query.
type Query struct {
	// Clearance is the minimum clearance for every pair.
	Clearance int
	// Rules, when set, raises the clearance per pair.
	Rules ClearanceResolver
	// ExcludeNet skips obstacles on the candidate's real net.
	ExcludeNet bool
	// Kinds restricts the obstacle kinds. The zero mask matches all.
	Kinds item.KindMask
	// Layers overrides the candidate's layer span when set.
	Layers *item.LayerRange
	// Ignore lists items that never collide.
	Ignore []item.Item
	// Limit caps the number of results. Zero means no limit.
	Limit int
	// UseAlternate tests alternate shapes (drill holes) where both items have one.
	UseAlternate bool
}

// Obstacle is an item found in collision.
type Obstacle struct {
	Item item.Item
	ID   ItemID
	// Distance is the actual gap between the shapes, zero when they overlap.
	Distance int
}

func (q Query) pairClearance(a, b item.Item) int {
	c := q.Clearance
	if q.Rules != nil {
		c = max(c, q.Rules.Clearance(a, b))
	}
	return max(c, 0)
}

func (q Query) maxClearance() int {
	c := q.Clearance
	if q.Rules != nil {
		c = max(c, q.Rules.MaxClearance())
	}
	return max(c, 0)
}

func (q Query) ignores(candidate, other item.Item) bool {
	if other == candidate || lo.Contains(q.Ignore, other) {
		return true
	}
	if !q.Kinds.Matches(other.Kind()) {
		return true
	}
	if q.ExcludeNet && item.SameNet(candidate.Net(), other.Net()) {
		return true
	}
	return false
}

func (q Query) testShapes(candidate, other item.Item) (geometry.Shape, geometry.Shape) {
	a, b := candidate.Shape(), other.Shape()
	if q.UseAlternate {
		if alt := candidate.AlternateShape(); alt != nil {
			if oalt := other.AlternateShape(); oalt != nil {
				return alt, oalt
			}
		}
	}
	return a, b
}

func sortEntries(es []*entry) {
	slices.SortFunc(es, func(a, b *entry) int { return cmp.Compare(a.id, b.id) })
}

func sortObstacles(obs []Obstacle) {
	slices.SortStableFunc(obs, func(a, b Obstacle) int {
		if c := cmp.Compare(a.Item.Rank(), b.Item.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// QueryColliding returns the items of the effective view colliding with
// candidate, ordered by rank and then insertion order.
func (n *Node) QueryColliding(candidate item.Item, q Query) []Obstacle {
	start := time.Now()
	defer func() {
		metrics.CollisionQueries.WithLabelValues("colliding").Inc()
		metrics.CollisionQueryDuration.Observe(time.Since(start).Seconds())
	}()
	return n.queryColliding(candidate, q)
}

func (n *Node) queryColliding(candidate item.Item, q Query) []Obstacle {
	shape := candidate.Shape()
	if shape == nil {
		return nil
	}
	layers := candidate.Layers()
	if q.Layers != nil {
		layers = *q.Layers
	}

	var obs []Obstacle
	for _, e := range n.search(indexRect(shape.BBox(q.maxClearance()))) {
		other := e.item
		if q.ignores(candidate, other) || !layers.Overlaps(other.Layers()) {
			continue
		}
		a, b := q.testShapes(candidate, other)
		if hit, gap := geometry.CollideShapes(a, b, q.pairClearance(candidate, other)); hit {
			obs = append(obs, Obstacle{Item: other, ID: e.id, Distance: gap})
		}
	}
	sortObstacles(obs)
	if q.Limit > 0 && len(obs) > q.Limit {
		obs = obs[:q.Limit]
	}
	return obs
}

// QueryShape returns the items colliding with a bare shape on no net.
func (n *Node) QueryShape(shape geometry.Shape, q Query) []Obstacle {
	probe := item.NewSolid(shape)
	return n.QueryColliding(probe, q)
}

// CheckColliding returns the first obstacle in query order, if any.
func (n *Node) CheckColliding(candidate item.Item, q Query) (Obstacle, bool) {
	obs := n.QueryColliding(candidate, q)
	if len(obs) == 0 {
		return Obstacle{}, false
	}
	return obs[0], true
}

// HitTest returns the items whose shape contains p.
func (n *Node) HitTest(p geometry.Point) []Obstacle {
	metrics.CollisionQueries.WithLabelValues("hit_test").Inc()
	probe := geometry.NewSeg(p, p)
	var obs []Obstacle
	for _, e := range n.search(indexRect(geometry.Box{Min: p, Max: p})) {
		s := e.item.Shape()
		if s == nil {
			continue
		}
		inside := false
		if lc, ok := s.(*geometry.LineChain); ok && lc.IsClosed() {
			inside = lc.PointInside(p)
		}
		if hit, _ := s.Collide(probe, 0); hit || inside {
			obs = append(obs, Obstacle{Item: e.item, ID: e.id})
		}
	}
	sortObstacles(obs)
	return obs
}

// FindVia resolves a via handle in the effective view.
func (n *Node) FindVia(h item.ViaHandle) (*item.Via, ItemID, bool) {
	if !h.Valid {
		return nil, 0, false
	}
	candidates := n.search(indexRect(geometry.Box{Min: h.Pos, Max: h.Pos}))
	sortEntries(candidates)
	for _, e := range candidates {
		v, ok := e.item.(*item.Via)
		if !ok {
			continue
		}
		if v.Pos() == h.Pos && v.Layers() == h.Layers && v.Net() == item.NormalizeNet(h.Net) {
			return v, e.id, true
		}
	}
	return nil, 0, false
}
