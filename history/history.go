// Package history records every mutation as a before/after delta and
// replays those deltas for undo and redo.
package history

import (
	"log/slog"
	"time"

	"gesso/core"
)

// DefaultLimit is the number of undoable entries kept.
const DefaultLimit = 50

// EntryType classifies a history entry.
type EntryType string

const (
	EntryMove        EntryType = "move"
	EntryResize      EntryType = "resize"
	EntryRotate      EntryType = "rotate"
	EntryGroupResize EntryType = "group-resize"
	EntryGroupRotate EntryType = "group-rotate"
	EntryCreate      EntryType = "create"
	EntryDelete      EntryType = "delete"
	EntryConnect     EntryType = "connect"
	EntryEditPath    EntryType = "edit-path"
	EntryGroup       EntryType = "group"
	EntryUngroup     EntryType = "ungroup"
	EntryAlign       EntryType = "align"
	EntryDistribute  EntryType = "distribute"
)

// State is the part of a document the history tracks.
type State struct {
	Shapes      []core.Shape      `json:"shapes"`
	Connections []core.Connection `json:"connections"`
	Groups      []core.Group      `json:"groups,omitempty"`
	Selection   []string          `json:"selection,omitempty"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{
		Shapes:      append([]core.Shape(nil), s.Shapes...),
		Connections: make([]core.Connection, len(s.Connections)),
		Groups:      make([]core.Group, len(s.Groups)),
		Selection:   append([]string(nil), s.Selection...),
	}
	for i, c := range s.Connections {
		out.Connections[i] = c.Clone()
	}
	for i, g := range s.Groups {
		out.Groups[i] = g.Clone()
	}
	return out
}

func shapeID(s core.Shape) string           { return s.ID }
func connectionID(c core.Connection) string { return c.ID }
func groupID(g core.Group) string           { return g.ID }

// Entry is one undoable action. Entries are not modified after Push.
type Entry struct {
	ID              string                 `json:"id"`
	Type            EntryType              `json:"type"`
	Description     string                 `json:"description"`
	Timestamp       time.Time              `json:"timestamp"`
	Shapes          Delta[core.Shape]      `json:"shapeDelta"`
	Connections     Delta[core.Connection] `json:"connectionDelta"`
	Groups          Delta[core.Group]      `json:"groupDelta"`
	SelectionBefore []string               `json:"selectionBefore"`
	SelectionAfter  []string               `json:"selectionAfter"`
}

// Empty reports whether the entry changes no shape, connection or group.
func (e Entry) Empty() bool {
	return e.Shapes.Empty() && e.Connections.Empty() && e.Groups.Empty()
}

// NewEntry diffs before and after into an entry. It reports false when
// nothing changed, in which case no entry should be pushed.
func NewEntry(id string, typ EntryType, description string, before, after State, now time.Time) (Entry, bool) {
	before, after = before.Clone(), after.Clone()
	e := Entry{
		ID:              id,
		Type:            typ,
		Description:     description,
		Timestamp:       now,
		Shapes:          Diff(before.Shapes, after.Shapes, shapeID),
		Connections:     Diff(before.Connections, after.Connections, connectionID),
		Groups:          Diff(before.Groups, after.Groups, groupID),
		SelectionBefore: before.Selection,
		SelectionAfter:  after.Selection,
	}
	return e, !e.Empty()
}

// Revert returns current with the entry undone.
func (e Entry) Revert(current State) State {
	next := State{
		Shapes:      e.Shapes.Revert(current.Shapes, shapeID),
		Connections: e.Connections.Revert(current.Connections, connectionID),
		Groups:      e.Groups.Revert(current.Groups, groupID),
		Selection:   e.SelectionBefore,
	}
	return next.Clone()
}

// Replay returns current with the entry applied.
func (e Entry) Replay(current State) State {
	next := State{
		Shapes:      e.Shapes.Replay(current.Shapes, shapeID),
		Connections: e.Connections.Replay(current.Connections, connectionID),
		Groups:      e.Groups.Replay(current.Groups, groupID),
		Selection:   e.SelectionAfter,
	}
	return next.Clone()
}

// History is a pair of past/future stacks. The caller owns the document
// state and passes it in; History only holds entries.
type History struct {
	past   []Entry
	future []Entry
	limit  int
	logger *slog.Logger
}

// New creates a history keeping at most limit entries. A non-positive
// limit uses DefaultLimit; a nil logger uses slog.Default.
func New(limit int, logger *slog.Logger) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &History{
		past:   make([]Entry, 0, limit),
		limit:  limit,
		logger: logger,
	}
}

// Push records e as the newest entry and clears the redo stack. The oldest
// entry is dropped once the limit is exceeded.
func (h *History) Push(e Entry) {
	h.past = append(h.past, e)
	h.future = h.future[:0]
	if len(h.past) > h.limit {
		dropped := len(h.past) - h.limit
		h.past = append(h.past[:0], h.past[dropped:]...)
		h.logger.Debug("history: dropped oldest entries", "count", dropped)
	}
	h.logger.Debug("history: push", "id", e.ID, "type", e.Type, "depth", len(h.past))
}

// CanUndo returns true if we can undo
func (h *History) CanUndo() bool {
	return len(h.past) > 0
}

// CanRedo returns true if we can redo
func (h *History) CanRedo() bool {
	return len(h.future) > 0
}

// Undo reverts the newest entry against current and returns the resulting
// state. With nothing to undo it returns current and false.
func (h *History) Undo(current State) (State, bool) {
	if !h.CanUndo() {
		return current, false
	}
	e := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, e)
	h.logger.Debug("history: undo", "id", e.ID, "type", e.Type)
	return e.Revert(current), true
}

// Redo re-applies the most recently undone entry.
func (h *History) Redo(current State) (State, bool) {
	if !h.CanRedo() {
		return current, false
	}
	e := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, e)
	h.logger.Debug("history: redo", "id", e.ID, "type", e.Type)
	return e.Replay(current), true
}

// Peek returns the entry Undo would revert.
func (h *History) Peek() (Entry, bool) {
	if len(h.past) == 0 {
		return Entry{}, false
	}
	return h.past[len(h.past)-1], true
}

// Len returns the number of undoable entries.
func (h *History) Len() int {
	return len(h.past)
}

// Stats returns the undo and redo depths.
func (h *History) Stats() (undo, redo int) {
	return len(h.past), len(h.future)
}

// Clear clears all history
func (h *History) Clear() {
	h.past = h.past[:0]
	h.future = h.future[:0]
}
