// Package metrics holds the Prometheus collectors for the routing kernel.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Branch operation labels.
const (
	OpBranch  = "branch"
	OpCommit  = "commit"
	OpDiscard = "discard"
)

var (
	// CollisionQueries counts node collision queries by kind.
	CollisionQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pns_collision_queries_total",
		Help: "Total number of node collision queries",
	}, []string{"query"})

	// CollisionQueryDuration observes collision query latency.
	CollisionQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pns_collision_query_duration_seconds",
		Help:    "Duration of node collision queries",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.016},
	})

	// BranchOps counts branch lifecycle transitions.
	BranchOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pns_branch_ops_total",
		Help: "Total number of node branch, commit and discard operations",
	}, []string{"op"})

	// PushoutIterations observes iterations spent per pushout attempt.
	PushoutIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pns_pushout_iterations",
		Help:    "Iterations used by via pushout attempts",
		Buckets: prometheus.LinearBuckets(0, 1, 12),
	})

	// PushoutFailures counts pushout attempts that found no clear position.
	PushoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pns_pushout_failures_total",
		Help: "Number of via pushout attempts that exhausted the iteration bound",
	})

	// LoggedEvents counts session logger events by type.
	LoggedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pns_logged_events_total",
		Help: "Total number of routing session events logged",
	}, []string{"event"})
)
