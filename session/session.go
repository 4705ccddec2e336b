// Package session runs one drag gesture from pointer-down to commit or
// cancel. A session snapshots the document at Begin and recomputes every
// update from that snapshot plus the total pointer delta, so re-delivered
// or skipped move events never compound.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gesso/core"
	"gesso/geometry"
	"gesso/history"
	"gesso/paths"
	"gesso/transform"
)

// Kind identifies what a session manipulates.
type Kind string

const (
	KindMove         Kind = "move"
	KindResize       Kind = "resize"
	KindRotate       Kind = "rotate"
	KindGroupResize  Kind = "group-resize"
	KindGroupRotate  Kind = "group-rotate"
	KindEndpoint     Kind = "endpoint"
	KindWaypoint     Kind = "waypoint"
	KindControlPoint Kind = "control-point"
	KindLabel        Kind = "label"
)

func (k Kind) connection() bool {
	switch k {
	case KindEndpoint, KindWaypoint, KindControlPoint, KindLabel:
		return true
	}
	return false
}

func (k Kind) entryType() history.EntryType {
	switch k {
	case KindMove:
		return history.EntryMove
	case KindResize:
		return history.EntryResize
	case KindRotate:
		return history.EntryRotate
	case KindGroupResize:
		return history.EntryGroupResize
	case KindGroupRotate:
		return history.EntryGroupRotate
	case KindEndpoint:
		return history.EntryConnect
	default:
		return history.EntryEditPath
	}
}

var (
	ErrUnknownKind = errors.New("unknown session kind")
	ErrNoTarget    = errors.New("target not found")
)

// Side selects a connection endpoint.
type Side int

const (
	SideStart Side = iota
	SideEnd
)

// ManipulationState describes a gesture in progress. It lives only as long
// as its session.
type ManipulationState struct {
	Kind          Kind
	TargetID      string
	StartPoint    core.Point
	StartBounds   core.Bounds
	StartRotation float64
	Handle        core.Handle
	AspectRatio   float64
}

// Spec says what a new session manipulates.
type Spec struct {
	Kind Kind

	// TargetIDs are the shapes for shape kinds; connection kinds use the
	// first id as the connection.
	TargetIDs []string

	// Start is the pointer-down position in canvas coordinates.
	Start core.Point

	Handle     core.Handle         // resize kinds
	Side       Side                // endpoint drags
	WaypointID string              // empty inserts a new waypoint at Start
	Control    paths.ControlHandle // control-point drags
}

// Options tune a session. Zero values fall back to package defaults.
type Options struct {
	MinSize       float64
	SnapIncrement float64
	SnapRadius    float64
	Zoom          float64

	NewID         func() string // history entry ids
	NewWaypointID func() string
	Now           func() time.Time
	Logger        *slog.Logger

	// Called from input events. Direct calls to Update, End and Cancel do
	// not invoke them.
	OnChange func(history.State)
	OnCommit func(history.State, history.Entry, bool)
	OnCancel func(history.State)
}

func (o *Options) defaults() {
	if o.MinSize <= 0 {
		o.MinSize = transform.DefaultMinSize
	}
	if o.SnapIncrement <= 0 {
		o.SnapIncrement = geometry.DefaultSnapIncrement
	}
	if o.Zoom <= 0 {
		o.Zoom = 1
	}
	if o.NewID == nil {
		n := 0
		o.NewID = func() string {
			n++
			return fmt.Sprintf("entry-%d", n)
		}
	}
	if o.NewWaypointID == nil {
		n := 0
		o.NewWaypointID = func() string {
			n++
			return fmt.Sprintf("wp-%d", n)
		}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Session is one active gesture.
type Session struct {
	spec    Spec
	opts    Options
	manip   ManipulationState
	before  history.State
	current history.State
	mods    Modifiers

	// shape kinds
	members []core.Shape

	// connection kinds
	conn core.Connection

	unsubscribe func()
	detachOnce  sync.Once
	ended       bool
}

// Begin snapshots state and starts a session. When input is non-nil the
// session subscribes to it and drives itself from its events until the
// pointer is released or a cancel arrives.
func Begin(state history.State, spec Spec, input Input, opts Options) (*Session, error) {
	opts.defaults()
	s := &Session{
		spec:    spec,
		opts:    opts,
		before:  state.Clone(),
		current: state.Clone(),
	}
	s.manip = ManipulationState{Kind: spec.Kind, StartPoint: spec.Start, Handle: spec.Handle}

	var err error
	switch {
	case spec.Kind.connection():
		err = s.beginConnection()
	case spec.Kind == KindMove, spec.Kind == KindResize, spec.Kind == KindRotate,
		spec.Kind == KindGroupResize, spec.Kind == KindGroupRotate:
		err = s.beginShapes()
	default:
		err = fmt.Errorf("session: %q: %w", spec.Kind, ErrUnknownKind)
	}
	if err != nil {
		return nil, err
	}

	if input != nil {
		s.unsubscribe = input.Subscribe(s.handle)
	}
	s.opts.Logger.Debug("session: begin", "kind", spec.Kind, "target", s.manip.TargetID)
	return s, nil
}

// Manipulation returns the gesture description captured at Begin.
func (s *Session) Manipulation() ManipulationState {
	return s.manip
}

// Before returns the pre-gesture state.
func (s *Session) Before() history.State {
	return s.before.Clone()
}

// Active reports whether the session has neither ended nor been cancelled.
func (s *Session) Active() bool {
	return !s.ended
}

// Update recomputes the document for pointer position p. The result
// depends only on the snapshot and p, never on earlier updates.
func (s *Session) Update(p core.Point, mods Modifiers) history.State {
	if s.ended {
		return s.current.Clone()
	}
	s.mods = mods
	if s.spec.Kind.connection() {
		s.current = s.updateConnection(p)
	} else {
		s.current = s.updateShapes(p.Sub(s.spec.Start), mods)
	}
	return s.current.Clone()
}

// End finishes the gesture at p and detaches input. It returns the final
// state and the history entry describing it; ok is false when nothing
// changed. The caller pushes the entry.
func (s *Session) End(p core.Point) (history.State, history.Entry, bool) {
	if s.ended {
		return s.current.Clone(), history.Entry{}, false
	}
	final := s.Update(p, s.mods)
	s.finish()

	desc := fmt.Sprintf("%s %s", s.spec.Kind, s.manip.TargetID)
	e, ok := history.NewEntry(s.opts.NewID(), s.spec.Kind.entryType(), desc, s.before, final, s.opts.Now())
	s.opts.Logger.Debug("session: end", "kind", s.spec.Kind, "changed", ok)
	return final, e, ok
}

// Cancel abandons the gesture and returns the pre-gesture state. After End
// it is a no-op returning the committed state.
func (s *Session) Cancel() history.State {
	if s.ended {
		return s.current.Clone()
	}
	s.finish()
	s.opts.Logger.Debug("session: cancel", "kind", s.spec.Kind)
	s.current = s.before.Clone()
	return s.before.Clone()
}

// Detach removes the input subscription. It is safe to call any number of
// times; only the first call has an effect. End and Cancel call it.
func (s *Session) Detach() {
	s.detachOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}

func (s *Session) finish() {
	s.ended = true
	s.Detach()
}

func (s *Session) handle(ev Event) {
	if s.ended {
		return
	}
	switch ev.Type {
	case PointerMove:
		st := s.Update(ev.Point, ev.Mods)
		if s.opts.OnChange != nil {
			s.opts.OnChange(st)
		}
	case PointerUp:
		s.mods = ev.Mods
		st, e, ok := s.End(ev.Point)
		if s.opts.OnCommit != nil {
			s.opts.OnCommit(st, e, ok)
		}
	case Cancel:
		st := s.Cancel()
		if s.opts.OnCancel != nil {
			s.opts.OnCancel(st)
		}
	}
}
