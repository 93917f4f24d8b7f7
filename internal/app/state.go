// Package app ties the routing kernel into an interactive drag session: it
// owns the committed board node, runs one trial branch per pointer event and
// records the session trace.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"pcb-router/internal/config"
	"pcb-router/internal/item"
	"pcb-router/internal/logger"
	"pcb-router/internal/node"
	"pcb-router/internal/pushout"
	"pcb-router/internal/rules"
	"pcb-router/pkg/geometry"
)

var (
	// ErrNoDrag is returned by drag operations outside a drag.
	ErrNoDrag = errors.New("no drag in progress")
	// ErrDragActive is returned when a drag is started twice.
	ErrDragActive = errors.New("drag already in progress")
	// ErrNothingToDrag is returned when no via lies under the start point.
	ErrNothingToDrag = errors.New("no via at start point")
)

// EventType identifies session events.
type EventType int

const (
	EventItemsChanged EventType = iota
	EventDragStarted
	EventDragMoved
	EventDragRejected
	EventDragFixed
	EventDragAborted
	EventTraceSaved
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// MoveResult describes the outcome of one drag step.
type MoveResult struct {
	// Requested is the pointer position.
	Requested geometry.Point
	// Pos is where the via was placed.
	Pos geometry.Point
	// Accepted is false when no clear position was found; the via stays at
	// its previous trial position.
	Accepted bool
	// Pushed is true when the pushout resolver moved the via.
	Pushed bool
	// Force is the pushout displacement applied.
	Force geometry.Point
	// Violations counts obstacles left after pushout that the resolver ignores.
	Violations int
	// ChangedArea covers the old and new via footprints.
	ChangedArea geometry.Box
}

type dragState struct {
	handle   item.ViaHandle
	origin   geometry.Point
	last     geometry.Point
	trial    *node.Node
	trialVia *item.Via
}

// Session holds the committed routing state and the current drag trial.
type Session struct {
	mu sync.RWMutex

	ConfigPath string
	Config     config.Config
	Modified   bool

	root     *node.Node
	rules    *rules.Rules
	resolver *pushout.Resolver
	trace    *logger.Logger
	drag     *dragState

	listeners map[EventType][]EventListener
}

// NewSession creates a session with an empty board.
func NewSession(cfg config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	r, err := cfg.BuildRules()
	if err != nil {
		return nil, fmt.Errorf("build rules: %w", err)
	}
	return &Session{
		Config:    cfg,
		root:      node.New(),
		rules:     r,
		resolver:  pushout.NewResolver(cfg.Pushout, cfg.Clearance, r),
		trace:     logger.New(),
		listeners: make(map[EventType][]EventListener),
	}, nil
}

// LoadSession reads the config at path and creates a session from it.
func LoadSession(path string) (*Session, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	s, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	s.ConfigPath = path
	return s, nil
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Root returns the committed board node.
func (s *Session) Root() *node.Node { return s.root }

// Rules returns the clearance rules.
func (s *Session) Rules() *rules.Rules { return s.rules }

// Trace returns the session logger.
func (s *Session) Trace() *logger.Logger { return s.trace }

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drag != nil
}

// AddItem places it on the committed board.
func (s *Session) AddItem(it item.Item) node.ItemID {
	s.mu.Lock()
	id := s.root.Add(it)
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventItemsChanged, id)
	return id
}

func (s *Session) query() node.Query {
	return node.Query{
		Clearance:  s.Config.Clearance,
		Rules:      s.rules,
		ExcludeNet: true,
	}
}

// StartDrag begins dragging the via under p.
func (s *Session) StartDrag(p geometry.Point) (item.ViaHandle, error) {
	s.mu.Lock()
	if s.drag != nil {
		s.mu.Unlock()
		return item.ViaHandle{}, ErrDragActive
	}
	var v *item.Via
	for _, hit := range s.root.HitTest(p) {
		if hv, ok := hit.Item.(*item.Via); ok {
			v = hv
			break
		}
	}
	if v == nil {
		s.mu.Unlock()
		return item.ViaHandle{}, fmt.Errorf("%w (%d,%d)", ErrNothingToDrag, p.X, p.Y)
	}
	h := v.MakeHandle()
	s.drag = &dragState{handle: h, origin: v.Pos(), last: v.Pos()}
	s.trace.Log(logger.EventStartDrag, p, v)
	s.mu.Unlock()

	s.Emit(EventDragStarted, h)
	return h, nil
}

// Move drags the via to p in a fresh trial branch, pushing it clear of solids.
// A previous trial is discarded first.
func (s *Session) Move(p geometry.Point) (MoveResult, error) {
	s.mu.Lock()
	res, err := s.moveLocked(p)
	s.mu.Unlock()
	if err != nil {
		return res, err
	}

	if res.Accepted {
		s.Emit(EventDragMoved, res)
	} else {
		s.Emit(EventDragRejected, res)
	}
	return res, nil
}

func (s *Session) moveLocked(p geometry.Point) (MoveResult, error) {
	d := s.drag
	if d == nil {
		return MoveResult{}, ErrNoDrag
	}
	res := MoveResult{Requested: p, Pos: d.last}

	branch := s.root.Branch()
	orig, id, ok := branch.FindVia(d.handle)
	if !ok {
		branch.Discard()
		return res, fmt.Errorf("dragged via %v no longer on the board", d.handle.Pos)
	}

	moved := orig.CloneVia()
	moved.SetPos(p)
	branch.Remove(id)

	q := s.query()
	if obs := branch.QueryColliding(moved, q); len(obs) > 0 {
		s.trace.Log(logger.EventCollision, p, obs[0].Item)
		force, ok := s.resolver.PushoutForce(branch, moved, p.Sub(d.last))
		if !ok {
			branch.Discard()
			return res, nil
		}
		if !force.IsZero() {
			moved.Move(force)
			res.Pushed = true
			res.Force = force
			s.trace.Log(logger.EventShove, moved.Pos(), moved)
		}
	}

	res.Violations = len(branch.QueryColliding(moved, q))
	if res.Violations > 0 {
		moved.Mark(item.MarkerViolation)
	}
	branch.Add(moved)

	prev := orig
	if d.trialVia != nil {
		prev = d.trialVia
	}
	res.ChangedArea, _ = moved.ChangedArea(prev)
	if d.trial != nil {
		d.trial.Discard()
	}
	d.trial = branch
	d.trialVia = moved
	d.last = moved.Pos()

	res.Pos = moved.Pos()
	res.Accepted = true
	s.trace.Log(logger.EventMove, res.Pos, moved)
	return res, nil
}

// Fix commits the current trial and ends the drag.
func (s *Session) Fix() (item.ViaHandle, error) {
	s.mu.Lock()
	d := s.drag
	if d == nil {
		s.mu.Unlock()
		return item.ViaHandle{}, ErrNoDrag
	}
	h := d.handle
	if d.trial != nil {
		d.trial.Commit()
		h = d.trialVia.MakeHandle()
		s.Modified = true
		s.trace.Log(logger.EventFix, d.trialVia.Pos(), d.trialVia)
	} else {
		s.trace.Log(logger.EventFix, d.origin, nil)
	}
	s.drag = nil
	s.mu.Unlock()

	s.Emit(EventDragFixed, h)
	return h, nil
}

// Abort discards the current trial and ends the drag.
func (s *Session) Abort() error {
	s.mu.Lock()
	d := s.drag
	if d == nil {
		s.mu.Unlock()
		return ErrNoDrag
	}
	if d.trial != nil {
		d.trial.Discard()
	}
	s.trace.Log(logger.EventAbort, d.last, nil)
	s.drag = nil
	s.mu.Unlock()

	s.Emit(EventDragAborted, d.handle)
	return nil
}

// Track returns the committed view, or the current trial during a drag.
func (s *Session) Track() *node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.drag != nil && s.drag.trial != nil {
		return s.drag.trial
	}
	return s.root
}

// SaveTrace writes the session trace to the configured path. A failure is
// logged and returned; the session keeps running.
func (s *Session) SaveTrace() error {
	s.mu.RLock()
	enabled := s.Config.Log.Enabled
	path := s.Config.LogPath(s.ConfigPath)
	s.mu.RUnlock()

	if !enabled || path == "" {
		return nil
	}
	if err := s.trace.Save(path); err != nil {
		log.Printf("session: trace not saved: %v", err)
		return err
	}
	s.Emit(EventTraceSaved, path)
	return nil
}
