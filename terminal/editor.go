package terminal

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"

	"gesso/config"
	"gesso/core"
	"gesso/document"
	"gesso/groups"
	"gesso/history"
	"gesso/hittest"
	"gesso/idgen"
	"gesso/paths"
	"gesso/session"
	"gesso/transform"
)

// Mode selects what dragging a selected shape does.
type Mode int

const (
	ModeMove Mode = iota
	ModeRotate
)

func (m Mode) String() string {
	if m == ModeRotate {
		return "rotate"
	}
	return "move"
}

// Editor is a minimal interactive canvas: drag to move, resize or rotate
// shapes, shift-click or drag a marquee to select several, click connectors
// to add or drag waypoints, undo and redo.
type Editor struct {
	Doc     *document.Document
	Path    string
	History *history.History
	Config  config.Config
	Logger  *slog.Logger
	NewID   func() string

	screen  tcell.Screen
	input   Input
	active  *session.Session
	marquee *marquee
	mode    Mode
	status  string
	quit    bool
}

// marquee is a rubber-band selection dragged across empty canvas.
type marquee struct {
	start, end core.Point
	extend     bool // keep the existing selection
}

func (m *marquee) rect() core.Bounds {
	return core.BoundsFromPoints(m.start, m.end)
}

// NewEditor creates an editor for doc drawing on screen. Path is where 's'
// saves; an empty path disables saving.
func NewEditor(screen tcell.Screen, doc *document.Document, path string, cfg config.Config, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		Doc:     doc,
		Path:    path,
		History: history.New(cfg.HistoryLimit, logger),
		Config:  cfg,
		Logger:  logger,
		NewID:   idgen.Func(idgen.PrefixEntry),
		screen:  screen,
		input:   Input{View: DefaultViewport()},
	}
}

// Run initialises the screen and processes events until the user quits.
func (e *Editor) Run() error {
	if err := e.screen.Init(); err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	defer e.screen.Fini()
	e.screen.EnableMouse(tcell.MouseDragEvents)

	for !e.quit {
		e.Draw()
		ev := e.screen.PollEvent()
		if ev == nil {
			return nil
		}
		e.HandleEvent(ev)
	}
	return nil
}

// HandleEvent processes one terminal event.
func (e *Editor) HandleEvent(ev tcell.Event) {
	t := e.input.Handle(ev)
	switch t.Action {
	case ActionPress:
		e.press(t)
	case ActionMove:
		if e.marquee != nil {
			e.marquee.end = t.Point
		}
	case ActionRelease:
		if e.marquee != nil {
			e.marquee.end = t.Point
			e.selectMarquee()
		}
	case ActionCancel:
		e.marquee = nil
	case ActionKey:
		e.key(t.Rune)
	case ActionResize:
		e.screen.Sync()
	}
}

// Active reports whether a drag is in progress.
func (e *Editor) Active() bool {
	return e.active != nil && e.active.Active()
}

func (e *Editor) zoom() float64 {
	return e.input.View.zoom()
}

func (e *Editor) options() session.Options {
	return session.Options{
		MinSize:       e.Config.MinSize,
		SnapIncrement: e.Config.SnapIncrement,
		SnapRadius:    e.Config.AnchorSnapRadius,
		Zoom:          e.zoom(),
		NewID:         e.NewID,
		NewWaypointID: idgen.Func(idgen.PrefixWaypoint),
		Logger:        e.Logger,
		OnChange:      e.Doc.Apply,
		OnCommit:      e.commit,
		OnCancel:      e.cancelled,
	}
}

func (e *Editor) press(t Translated) {
	if e.Active() {
		e.Doc.Apply(e.active.Cancel())
	}
	e.marquee = nil
	if spec, ok := e.handleAt(t.Point); ok {
		e.begin(spec)
		return
	}
	if t.Mods.Shift {
		if s, ok := hittest.ShapeAt(e.Doc.Shapes, t.Point); ok {
			e.toggle(e.membersOf(s))
			return
		}
	}
	if spec, ok := e.pick(t.Point); ok {
		e.begin(spec)
		return
	}
	if !t.Mods.Shift {
		e.Doc.Selection = nil
	}
	e.marquee = &marquee{start: t.Point, end: t.Point, extend: t.Mods.Shift}
}

func (e *Editor) begin(spec session.Spec) {
	s, err := session.Begin(e.Doc.State(), spec, &e.input, e.options())
	if err != nil {
		e.Logger.Warn("terminal: begin session failed", "kind", spec.Kind, "err", err)
		e.status = err.Error()
		return
	}
	e.active = s
}

func (e *Editor) reach() float64 {
	return hittest.Threshold(e.zoom()) + e.input.View.CellWidth/e.zoom()
}

// handleAt returns a rotate or resize gesture when p is on a handle of the
// current selection.
func (e *Editor) handleAt(p core.Point) (session.Spec, bool) {
	sel := e.selectedShapes()
	if len(sel) == 0 {
		return session.Spec{}, false
	}
	reach := e.reach()
	if len(sel) == 1 && transform.RotationHandle(sel[0], e.rotateOffset()).Distance(p) <= reach {
		return session.Spec{Kind: session.KindRotate, TargetIDs: ids(sel), Start: p}, true
	}
	b := transform.GroupBounds(sel)
	for _, h := range core.Handles {
		if h.Position(b).Distance(p) <= reach {
			kind := session.KindResize
			if len(sel) > 1 {
				kind = session.KindGroupResize
			}
			return session.Spec{Kind: kind, TargetIDs: ids(sel), Start: p, Handle: h}, true
		}
	}
	return session.Spec{}, false
}

// pick decides which gesture a press at p starts and updates the selection.
func (e *Editor) pick(p core.Point) (session.Spec, bool) {
	if s, ok := hittest.ShapeAt(e.Doc.Shapes, p); ok {
		members := e.membersOf(s)
		e.Doc.Selection = members

		kind := session.KindMove
		if e.mode == ModeRotate {
			kind = session.KindRotate
			if len(members) > 1 {
				kind = session.KindGroupRotate
			}
		}
		return session.Spec{Kind: kind, TargetIDs: members, Start: p}, true
	}

	if hit, ok := hittest.ConnectionWithin(e.Doc.Connections, e.Doc, p, e.Config.HitThreshold/e.zoom()); ok {
		conn := hit.Connection
		e.Doc.Selection = []string{conn.ID}
		spec := session.Spec{Kind: session.KindWaypoint, TargetIDs: []string{conn.ID}, Start: p}
		if conn.Curve() == core.CurveOrthogonal {
			spec.Kind = session.KindLabel
		} else {
			spec.WaypointID = e.waypointAt(conn, p)
		}
		return spec, true
	}
	return session.Spec{}, false
}

// waypointAt returns the id of conn's waypoint nearest p within reach, or
// "" so the session inserts a new one.
func (e *Editor) waypointAt(conn core.Connection, p core.Point) string {
	_, ep, ok := paths.ForConnection(conn, e.Doc)
	if !ok {
		return ""
	}
	id, best := "", e.reach()
	for _, wp := range conn.Waypoints {
		if d := paths.WaypointPoint(ep.Start, ep.End, wp).Distance(p); d <= best {
			id, best = wp.ID, d
		}
	}
	return id
}

// membersOf returns s and, when s is grouped, the rest of its top-level
// group.
func (e *Editor) membersOf(s core.Shape) []string {
	if top, ok := groups.Top(e.Doc.Groups, s.ID); ok {
		return groups.Members(e.Doc.Groups, top.ID)
	}
	return []string{s.ID}
}

// toggle adds ids to the selection, or removes them when all are already
// selected.
func (e *Editor) toggle(ids []string) {
	all := true
	for _, id := range ids {
		all = all && slices.Contains(e.Doc.Selection, id)
	}
	if all {
		e.Doc.Selection = slices.DeleteFunc(slices.Clone(e.Doc.Selection), func(id string) bool {
			return slices.Contains(ids, id)
		})
		return
	}
	for _, id := range ids {
		if !slices.Contains(e.Doc.Selection, id) {
			e.Doc.Selection = append(e.Doc.Selection, id)
		}
	}
}

func (e *Editor) selectMarquee() {
	m := e.marquee
	e.marquee = nil
	if !m.extend {
		e.Doc.Selection = nil
	}
	for _, s := range hittest.ShapesInRect(e.Doc.Shapes, m.rect()) {
		for _, id := range e.membersOf(s) {
			if !slices.Contains(e.Doc.Selection, id) {
				e.Doc.Selection = append(e.Doc.Selection, id)
			}
		}
	}
	e.status = fmt.Sprintf("%d selected", len(e.Doc.Selection))
}

// rotateOffset places the rotation handle one row above a shape.
func (e *Editor) rotateOffset() float64 {
	return e.input.View.CellHeight / e.zoom()
}

func (e *Editor) selectedShapes() []core.Shape {
	var out []core.Shape
	for _, s := range e.Doc.Shapes {
		if slices.Contains(e.Doc.Selection, s.ID) {
			out = append(out, s)
		}
	}
	return out
}

func ids(shapes []core.Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = s.ID
	}
	return out
}

func (e *Editor) commit(st history.State, entry history.Entry, ok bool) {
	e.Doc.Apply(st)
	if ok {
		e.History.Push(entry)
		e.status = entry.Description
	}
	e.active = nil
}

func (e *Editor) cancelled(st history.State) {
	e.Doc.Apply(st)
	e.status = "cancelled"
	e.active = nil
}

// record diffs the document against before and pushes an entry when
// something changed.
func (e *Editor) record(typ history.EntryType, desc string, before history.State) {
	entry, ok := history.NewEntry(e.NewID(), typ, desc, before, e.Doc.State(), time.Now())
	if ok {
		e.History.Push(entry)
		e.status = desc
	}
}

func (e *Editor) key(r rune) {
	if e.Active() {
		return
	}
	switch r {
	case 'q':
		e.quit = true
	case 'u':
		if !e.History.CanUndo() {
			e.status = "nothing to undo"
			return
		}
		if st, ok := e.History.Undo(e.Doc.State()); ok {
			e.Doc.Apply(st)
			e.status = "undo"
		}
	case 'r':
		if st, ok := e.History.Redo(e.Doc.State()); ok {
			e.Doc.Apply(st)
			e.status = "redo"
		}
	case 'm':
		e.mode = ModeMove
	case 't':
		e.mode = ModeRotate
	case 'c':
		e.cycleCurve()
	case 'g':
		e.group()
	case 'G':
		e.ungroup()
	case 's':
		e.save()
	}
}

var curveOrder = []core.CurveType{core.CurveStraight, core.CurveOrthogonal, core.CurveBezier}

func (e *Editor) cycleCurve() {
	before := e.Doc.State()
	for i, c := range e.Doc.Connections {
		if !slices.Contains(e.Doc.Selection, c.ID) {
			continue
		}
		next := curveOrder[(slices.Index(curveOrder, c.Curve())+1)%len(curveOrder)]
		e.Doc.Connections[i].CurveType = next
	}
	e.record(history.EntryEditPath, "change curve", before)
}

func (e *Editor) group() {
	before := e.Doc.State()
	gs, g, ok := groups.Create(e.Doc.Groups, e.Doc.Selection, idgen.Func(idgen.PrefixGroup)())
	if !ok {
		e.status = "select at least two shapes to group"
		return
	}
	e.Doc.Groups = gs
	e.Doc.Shapes = groups.Tag(e.Doc.Shapes, gs)
	e.record(history.EntryGroup, "group "+g.ID, before)
}

func (e *Editor) ungroup() {
	if len(e.Doc.Selection) == 0 {
		return
	}
	top, ok := groups.Top(e.Doc.Groups, e.Doc.Selection[0])
	if !ok {
		return
	}
	before := e.Doc.State()
	gs, _ := groups.Ungroup(e.Doc.Groups, top.ID)
	e.Doc.Groups = gs
	e.Doc.Shapes = groups.Tag(e.Doc.Shapes, gs)
	e.record(history.EntryUngroup, "ungroup "+top.ID, before)
}

func (e *Editor) save() {
	if e.Path == "" {
		e.status = "no file to save to"
		return
	}
	if err := document.Save(e.Path, e.Doc); err != nil {
		e.Logger.Error("terminal: save failed", "path", e.Path, "err", err)
		e.status = err.Error()
		return
	}
	e.status = "saved " + e.Path
}
