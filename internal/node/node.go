// Package node provides the indexed item collection the router queries for
// collisions, with cheap copy-on-write branches for speculative edits.
//
// A branch stores only its local additions and the IDs of inherited items it
// removed. Queries walk the parent chain, so a trial never copies the board.
package node

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"

	"pcb-router/internal/item"
	"pcb-router/internal/metrics"
	"pcb-router/pkg/geometry"
)

// ErrBranchProtocol is wrapped by the panics raised on branch lifecycle misuse.
var ErrBranchProtocol = errors.New("node: branch protocol violation")

// ItemID identifies an item within a branch chain. IDs are issued in
// insertion order and never reused.
type ItemID uint64

// State is the lifecycle state of a node.
type State int

const (
	// StateRoot is the committed routing state; it has no parent.
	StateRoot State = iota
	// StateBranched is a live trial with a parent.
	StateBranched
	// StateCommitted is a branch folded into its parent.
	StateCommitted
	// StateDiscarded is a dropped branch.
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateRoot:
		return "Root"
	case StateBranched:
		return "Branched"
	case StateCommitted:
		return "Committed"
	case StateDiscarded:
		return "Discarded"
	default:
		return "Unknown"
	}
}

// boxSlack widens index boxes so touching boxes still intersect in the R-tree.
const boxSlack = 1

// entry is an item stored in a node level.
type entry struct {
	id   ItemID
	item item.Item
	box  rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.box }

func indexRect(b geometry.Box) rtreego.Rect {
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{float64(b.Min.X - boxSlack), float64(b.Min.Y - boxSlack)},
		rtreego.Point{float64(b.Max.X + boxSlack), float64(b.Max.Y + boxSlack)},
	)
	if err != nil {
		panic(fmt.Errorf("node: index rect %v: %w", b, err))
	}
	return r
}

// Node is one level of a branch chain.
type Node struct {
	mu       sync.RWMutex
	parent   *Node
	children map[*Node]struct{}
	depth    int
	state    State
	seq      *atomic.Uint64

	entries map[ItemID]*entry
	tree    *rtreego.Rtree
	removed map[ItemID]struct{}
}

func newLevel(parent *Node, seq *atomic.Uint64, state State) *Node {
	n := &Node{
		parent:   parent,
		children: make(map[*Node]struct{}),
		state:    state,
		seq:      seq,
		entries:  make(map[ItemID]*entry),
		tree:     rtreego.NewTree(2, 25, 50),
		removed:  make(map[ItemID]struct{}),
	}
	if parent != nil {
		n.depth = parent.depth + 1
	}
	return n
}

// New creates an empty root node.
func New() *Node {
	return newLevel(nil, new(atomic.Uint64), StateRoot)
}

func protocolPanic(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrBranchProtocol, fmt.Sprintf(format, args...)))
}

func (n *Node) live() bool {
	return n.state == StateRoot || n.state == StateBranched
}

// State returns the lifecycle state.
func (n *Node) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Depth returns the number of ancestors.
func (n *Node) Depth() int { return n.depth }

// Branch creates a child node with an empty diff.
func (n *Node) Branch() *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.live() {
		protocolPanic("branch of %s node", n.state)
	}
	child := newLevel(n, n.seq, StateBranched)
	n.children[child] = struct{}{}
	metrics.BranchOps.WithLabelValues(metrics.OpBranch).Inc()
	return child
}

// Commit folds the branch's local additions and removals into its parent and
// ends the branch. Live descendants of the branch are discarded.
func (n *Node) Commit() {
	p := n.parent
	if p == nil {
		protocolPanic("commit of root node")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != StateBranched {
		protocolPanic("commit of %s node", n.state)
	}
	if !p.live() {
		protocolPanic("commit into %s parent", p.state)
	}

	n.discardChildrenLocked()

	for id := range n.removed {
		if e, ok := p.entries[id]; ok {
			p.unindexLocked(e)
			e.item.SetOwner(nil)
			continue
		}
		p.removed[id] = struct{}{}
	}
	for _, e := range n.sortedEntriesLocked() {
		e.item.SetOwner(p)
		p.indexLocked(e)
	}

	delete(p.children, n)
	n.release(StateCommitted)
	metrics.BranchOps.WithLabelValues(metrics.OpCommit).Inc()
}

// Discard drops the branch, its local diff and all its live descendants.
// The parent is unchanged.
func (n *Node) Discard() {
	p := n.parent
	if p == nil {
		protocolPanic("discard of root node")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != StateBranched {
		protocolPanic("discard of %s node", n.state)
	}
	n.discardLocked()
	delete(p.children, n)
}

// discardLocked discards n and its descendants. n.mu must be held.
func (n *Node) discardLocked() {
	n.discardChildrenLocked()
	for _, e := range n.entries {
		e.item.SetOwner(nil)
	}
	n.release(StateDiscarded)
	metrics.BranchOps.WithLabelValues(metrics.OpDiscard).Inc()
}

func (n *Node) discardChildrenLocked() {
	for c := range n.children {
		c.mu.Lock()
		if c.state == StateBranched {
			c.discardLocked()
		}
		c.mu.Unlock()
	}
	n.children = make(map[*Node]struct{})
}

func (n *Node) release(state State) {
	n.state = state
	n.entries = nil
	n.tree = nil
	n.removed = nil
}

func (n *Node) indexLocked(e *entry) {
	n.entries[e.id] = e
	n.tree.Insert(e)
}

func (n *Node) unindexLocked(e *entry) {
	n.tree.Delete(e)
	delete(n.entries, e.id)
}

func (n *Node) sortedEntriesLocked() []*entry {
	out := lo.Values(n.entries)
	sortEntries(out)
	return out
}

func (n *Node) mustBeLiveLocked(op string) {
	if !n.live() {
		protocolPanic("%s on %s node", op, n.state)
	}
}

// mustBeReadable panics when n no longer has a view of its own.
func (n *Node) mustBeReadable() {
	n.mu.RLock()
	defer n.mu.RUnlock()
	n.mustBeLiveLocked("query")
}

// Add inserts it and returns its new ID. The node takes ownership; adding an
// item owned by another node panics.
func (n *Node) Add(it item.Item) ItemID {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mustBeLiveLocked("add")
	if owner := it.Owner(); owner != nil {
		protocolPanic("add of item owned by another node: %s", it)
	}

	e := &entry{
		id:   ItemID(n.seq.Add(1)),
		item: it,
		box:  indexRect(it.Shape().BBox(0)),
	}
	it.SetOwner(n)
	n.indexLocked(e)
	return e.id
}

// Remove removes an item from the effective view. Local items are deleted;
// inherited items are masked until commit. It reports whether the item was visible.
func (n *Node) Remove(id ItemID) bool {
	n.mu.Lock()
	if !n.live() {
		n.mu.Unlock()
		protocolPanic("remove on %s node", n.state)
	}
	if e, ok := n.entries[id]; ok {
		n.unindexLocked(e)
		e.item.SetOwner(nil)
		n.mu.Unlock()
		return true
	}
	if _, ok := n.removed[id]; ok {
		n.mu.Unlock()
		return false
	}
	n.mu.Unlock()

	if n.parent == nil || n.parent.lookup(id) == nil {
		return false
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.removed[id] = struct{}{}
	return true
}

// Replace removes id and adds it in its place, returning the new ID.
func (n *Node) Replace(id ItemID, it item.Item) ItemID {
	n.Remove(id)
	return n.Add(it)
}

// lookup resolves id in the effective view of n.
func (n *Node) lookup(id ItemID) *entry {
	n.mustBeReadable()
	for level := n; level != nil; level = level.parent {
		level.mu.RLock()
		e, local := level.entries[id]
		_, masked := level.removed[id]
		level.mu.RUnlock()
		if local {
			return e
		}
		if masked {
			return nil
		}
	}
	return nil
}

// Item returns the item with the given ID in the effective view.
func (n *Node) Item(id ItemID) (item.Item, bool) {
	e := n.lookup(id)
	if e == nil {
		return nil, false
	}
	return e.item, true
}

// Contains reports whether id is in the effective view.
func (n *Node) Contains(id ItemID) bool {
	return n.lookup(id) != nil
}

// IDOf returns the ID of an item in the effective view.
func (n *Node) IDOf(it item.Item) (ItemID, bool) {
	var found ItemID
	n.walk(func(e *entry) bool {
		if e.item == it {
			found = e.id
			return false
		}
		return true
	})
	return found, found != 0
}

// walk visits every entry of the effective view, level by level from n up.
// It stops when visit returns false. Walking a committed or discarded node
// panics.
func (n *Node) walk(visit func(e *entry) bool) {
	n.mustBeReadable()
	masked := make(map[ItemID]struct{})
	for level := n; level != nil; level = level.parent {
		level.mu.RLock()
		stop := false
		for id, e := range level.entries {
			if _, ok := masked[id]; ok {
				continue
			}
			if !visit(e) {
				stop = true
				break
			}
		}
		for id := range level.removed {
			masked[id] = struct{}{}
		}
		level.mu.RUnlock()
		if stop {
			return
		}
	}
}

// search collects the entries of the effective view whose index box
// intersects r.
func (n *Node) search(r rtreego.Rect) []*entry {
	n.mustBeReadable()
	var out []*entry
	masked := make(map[ItemID]struct{})
	for level := n; level != nil; level = level.parent {
		level.mu.RLock()
		if level.tree != nil {
			for _, s := range level.tree.SearchIntersect(r) {
				e := s.(*entry)
				if _, ok := masked[e.id]; !ok {
					out = append(out, e)
				}
			}
		}
		for id := range level.removed {
			masked[id] = struct{}{}
		}
		level.mu.RUnlock()
	}
	return out
}

// Items returns the effective view in insertion order.
func (n *Node) Items() []item.Item {
	var all []*entry
	n.walk(func(e *entry) bool {
		all = append(all, e)
		return true
	})
	sortEntries(all)
	return lo.Map(all, func(e *entry, _ int) item.Item { return e.item })
}

// Len returns the size of the effective view.
func (n *Node) Len() int {
	count := 0
	n.walk(func(*entry) bool {
		count++
		return true
	})
	return count
}

// LocalLen returns the number of items added at this level.
func (n *Node) LocalLen() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Bounds returns the box enclosing every item in the effective view.
func (n *Node) Bounds() (geometry.Box, bool) {
	var box geometry.Box
	found := false
	n.walk(func(e *entry) bool {
		b := e.item.Shape().BBox(0)
		if found {
			box = box.Merge(b)
		} else {
			box, found = b, true
		}
		return true
	})
	return box, found
}
