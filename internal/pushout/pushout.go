// Package pushout displaces a via out of collision with nearby obstacles.
package pushout

import (
	"pcb-router/internal/item"
	"pcb-router/internal/metrics"
	"pcb-router/internal/node"
	"pcb-router/pkg/geometry"
)

// Policy bounds the pushout search.
type Policy struct {
	// MaxIterations is the number of nudges attempted before giving up.
	MaxIterations int `json:"max_iterations" toml:"max_iterations" yaml:"max_iterations"`
	// SolidsOnly restricts obstacles to solids, ignoring routed traces and vias.
	SolidsOnly bool `json:"solids_only" toml:"solids_only" yaml:"solids_only"`
	// MinStep is the smallest nudge, in internal units.
	MinStep int `json:"min_step" toml:"min_step" yaml:"min_step"`
}

// DefaultPolicy returns the standard pushout bounds.
func DefaultPolicy() Policy {
	return Policy{
		MaxIterations: 10,
		SolidsOnly:    true,
		MinStep:       5,
	}
}

// WithMaxIterations returns a copy with the iteration bound changed.
func (p Policy) WithMaxIterations(n int) Policy {
	p.MaxIterations = n
	return p
}

// WithSolidsOnly returns a copy with the obstacle restriction changed.
func (p Policy) WithSolidsOnly(solidsOnly bool) Policy {
	p.SolidsOnly = solidsOnly
	return p
}

// WithMinStep returns a copy with the minimum nudge changed.
func (p Policy) WithMinStep(step int) Policy {
	p.MinStep = step
	return p
}

// Resolver computes pushout forces against a node.
type Resolver struct {
	Policy    Policy
	Clearance int
	Rules     node.ClearanceResolver
}

// NewResolver creates a resolver. rules may be nil.
func NewResolver(policy Policy, clearance int, rules node.ClearanceResolver) *Resolver {
	return &Resolver{Policy: policy, Clearance: clearance, Rules: rules}
}

func (r *Resolver) query(v *item.Via) node.Query {
	q := node.Query{
		Clearance:  r.Clearance,
		Rules:      r.Rules,
		ExcludeNet: true,
		Ignore:     []item.Item{v},
	}
	if r.Policy.SolidsOnly {
		q.Kinds = item.Kinds(item.KindSolid)
	}
	return q
}

func (r *Resolver) pairClearance(a, b item.Item) int {
	c := r.Clearance
	if r.Rules != nil {
		c = max(c, r.Rules.Clearance(a, b))
	}
	return max(c, 0)
}

// PushoutForce searches for a translation of v that clears every obstacle in
// n. The via itself is not modified. ok is false when the iteration bound is
// exhausted; the force is then the last attempted offset.
//
// Each step follows the minimum translation out of the first obstacle, not
// dir. dir is only a late bias: from the second half of the iteration budget
// on, half the via diameter along dir is added to every step, and dir is the
// fallback axis when the translation is undefined. A via that clears within
// the first half gets the same force for any dir.
func (r *Resolver) PushoutForce(n *node.Node, v *item.Via, dir geometry.Point) (force geometry.Point, ok bool) {
	trial := v.CloneVia()
	q := r.query(v)
	maxIter := max(r.Policy.MaxIterations, 0)
	minStep := max(r.Policy.MinStep, 1)

	for iter := 0; ; iter++ {
		obs, hit := n.CheckColliding(trial, q)
		if !hit {
			metrics.PushoutIterations.Observe(float64(iter))
			return force, true
		}
		if iter == maxIter {
			metrics.PushoutIterations.Observe(float64(iter))
			metrics.PushoutFailures.Inc()
			return force, false
		}

		step, found := geometry.MinTranslation(obs.Item.Shape(), trial.Shape(), r.pairClearance(trial, obs.Item))
		if !found || step.IsZero() {
			step = fallbackStep(dir, minStep)
		} else if step.EuclideanNorm() < float64(minStep) {
			step = step.Resize(minStep)
		}
		if iter >= maxIter/2 && !dir.IsZero() {
			step = step.Add(dir.Resize(trial.Diameter() / 2))
		}

		force = force.Add(step)
		trial.SetPos(v.Pos().Add(force))
	}
}

func fallbackStep(dir geometry.Point, minStep int) geometry.Point {
	if dir.IsZero() {
		return geometry.Point{X: minStep}
	}
	return dir.Resize(minStep)
}
