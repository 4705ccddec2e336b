package terminal

import (
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"gesso/config"
	"gesso/core"
	"gesso/document"
	"gesso/idgen"
)

func testDoc() *document.Document {
	return &document.Document{
		Shapes: []core.Shape{
			{ID: "a", Kind: core.KindRectangle, X: 0, Y: 0, Width: 100, Height: 60, Text: "A"},
			{ID: "b", Kind: core.KindRectangle, X: 300, Y: 0, Width: 100, Height: 60, Text: "B"},
		},
		Connections: []core.Connection{
			{ID: "c", Start: core.Attached("a", core.AnchorRight), End: core.Attached("b", core.AnchorLeft)},
		},
	}
}

func newTestEditor(t *testing.T) (*Editor, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEditor(screen, testDoc(), "", config.Default(), logger), screen
}

func mouse(col, row int, down bool) tcell.Event {
	return mouseMod(col, row, down, tcell.ModNone)
}

func mouseMod(col, row int, down bool, mod tcell.ModMask) tcell.Event {
	btn := tcell.ButtonNone
	if down {
		btn = tcell.Button1
	}
	return tcell.NewEventMouse(col, row, btn, mod)
}

func click(e *Editor, col, row int, mod tcell.ModMask) {
	e.HandleEvent(mouseMod(col, row, true, mod))
	e.HandleEvent(mouseMod(col, row, false, mod))
}

func key(r rune) tcell.Event {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestEditorDragUndoRedo(t *testing.T) {
	e, _ := newTestEditor(t)

	e.HandleEvent(mouse(5, 1, true))
	if !e.Active() {
		t.Fatal("press on shape did not start a session")
	}
	e.HandleEvent(mouse(10, 1, true))
	if x := e.Doc.Shapes[0].X; x != 50 {
		t.Errorf("during drag x = %v, want 50", x)
	}
	e.HandleEvent(mouse(10, 1, false))

	if e.Active() {
		t.Error("session still active after release")
	}
	if e.History.Len() != 1 {
		t.Fatalf("history has %d entries, want 1", e.History.Len())
	}
	if x := e.Doc.Shapes[0].X; x != 50 {
		t.Errorf("after release x = %v, want 50", x)
	}
	if e.input.Subscribers() != 0 {
		t.Errorf("%d subscribers left attached", e.input.Subscribers())
	}

	e.HandleEvent(key('u'))
	if x := e.Doc.Shapes[0].X; x != 0 {
		t.Errorf("after undo x = %v, want 0", x)
	}
	e.HandleEvent(key('r'))
	if x := e.Doc.Shapes[0].X; x != 50 {
		t.Errorf("after redo x = %v, want 50", x)
	}
}

func TestEditorEscapeCancelsDrag(t *testing.T) {
	e, _ := newTestEditor(t)

	e.HandleEvent(mouse(5, 1, true))
	e.HandleEvent(mouse(15, 2, true))
	e.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))

	if e.Active() {
		t.Error("session still active after escape")
	}
	if s := e.Doc.Shapes[0]; s.X != 0 || s.Y != 0 {
		t.Errorf("shape at (%v,%v) after cancel, want origin", s.X, s.Y)
	}
	if e.History.Len() != 0 {
		t.Errorf("cancel pushed %d entries", e.History.Len())
	}
}

func TestEditorResizeHandle(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Doc.Selection = []string{"a"}

	// Cell (9,2) is the canvas point (95,50), within reach of the SE handle
	// at (100,60).
	e.HandleEvent(mouse(9, 2, true))
	e.HandleEvent(mouse(14, 3, true))
	e.HandleEvent(mouse(14, 3, false))

	s := e.Doc.Shapes[0]
	if s.X != 0 || s.Y != 0 || s.Width != 150 || s.Height != 80 {
		t.Errorf("resized to %+v, want 150x80 at origin", s)
	}
}

func TestEditorRotateMode(t *testing.T) {
	e, _ := newTestEditor(t)
	e.HandleEvent(key('t'))
	if e.mode != ModeRotate {
		t.Fatalf("mode = %v, want rotate", e.mode)
	}

	// Shift the view so cell centers line up with a's center at (50,30),
	// then drag from above it to its right: a quarter turn.
	e.input.View.Origin = core.Point{X: -5}
	e.HandleEvent(mouse(5, 0, true))
	e.HandleEvent(mouse(15, 1, true))
	e.HandleEvent(mouse(15, 1, false))

	if r := e.Doc.Shapes[0].Rotation; math.Abs(r-90) > 1e-9 {
		t.Errorf("rotation = %v, want 90", r)
	}
}

func TestEditorRotationHandle(t *testing.T) {
	e, screen := newTestEditor(t)
	e.Doc.Selection = []string{"a"}

	// With this origin, cell (5,0) is the canvas point (50,-30), one
	// threshold from the handle at (50,-20), and cell (15,3) is (150,30).
	e.input.View.Origin = core.Point{X: -5, Y: -40}
	e.Draw()
	if r, _, _, _ := screen.GetContent(5, 1); r != '○' {
		t.Errorf("rotation handle cell = %q, want '○'", r)
	}

	e.HandleEvent(mouse(5, 0, true))
	if !e.Active() {
		t.Fatal("press on rotation handle did not start a session")
	}
	e.HandleEvent(mouse(15, 3, true))
	e.HandleEvent(mouse(15, 3, false))

	if r := e.Doc.Shapes[0].Rotation; math.Abs(r-90) > 1e-9 {
		t.Errorf("rotation = %v, want 90", r)
	}
	if e.mode != ModeMove {
		t.Errorf("mode changed to %v", e.mode)
	}
}

func TestEditorNothingToUndo(t *testing.T) {
	e, _ := newTestEditor(t)
	e.HandleEvent(key('u'))
	if e.status != "nothing to undo" {
		t.Errorf("status = %q", e.status)
	}
}

func TestEditorConnectionWaypoint(t *testing.T) {
	e, _ := newTestEditor(t)

	// (205,30) lies on the connector between a and b.
	e.HandleEvent(mouse(20, 1, true))
	e.HandleEvent(mouse(20, 3, true))
	e.HandleEvent(mouse(20, 3, false))

	wps := e.Doc.Connections[0].Waypoints
	if len(wps) != 1 {
		t.Fatalf("got %d waypoints, want 1", len(wps))
	}
	if math.Abs(wps[0].T-0.525) > 1e-9 || wps[0].Offset != (core.Point{X: 0, Y: 40}) {
		t.Errorf("waypoint = %+v, want t 0.525 offset (0,40)", wps[0])
	}

	if id := wps[0].ID; !strings.HasPrefix(id, idgen.PrefixWaypoint) {
		t.Errorf("waypoint id = %q, want prefix %q", id, idgen.PrefixWaypoint)
	}

	e.HandleEvent(key('u'))
	if n := len(e.Doc.Connections[0].Waypoints); n != 0 {
		t.Errorf("undo left %d waypoints", n)
	}
}

func TestEditorDragExistingWaypoint(t *testing.T) {
	e, _ := newTestEditor(t)

	e.HandleEvent(mouse(20, 1, true))
	e.HandleEvent(mouse(20, 3, true))
	e.HandleEvent(mouse(20, 3, false))
	id := e.Doc.Connections[0].Waypoints[0].ID

	// (205,70) is the waypoint itself; drag it to (225,70).
	e.HandleEvent(mouse(20, 3, true))
	e.HandleEvent(mouse(22, 3, true))
	e.HandleEvent(mouse(22, 3, false))

	wps := e.Doc.Connections[0].Waypoints
	if len(wps) != 1 {
		t.Fatalf("got %d waypoints, want 1: %+v", len(wps), wps)
	}
	if wps[0].ID != id || math.Abs(wps[0].T-0.625) > 1e-9 || wps[0].Offset != (core.Point{X: 0, Y: 40}) {
		t.Errorf("waypoint = %+v, want %s at t 0.625 offset (0,40)", wps[0], id)
	}
	if e.History.Len() != 2 {
		t.Errorf("history has %d entries, want 2", e.History.Len())
	}
}

func TestEditorLabelDrag(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Doc.Connections[0].CurveType = core.CurveOrthogonal

	click(e, 20, 1, tcell.ModNone)
	if got := e.Doc.Connections[0].LabelPosition; got != 0 {
		t.Errorf("click moved the label to %v", got)
	}
	if e.History.Len() != 0 {
		t.Errorf("click recorded %d history entries", e.History.Len())
	}

	// The label sits at (200,30); dragging 50 to the right moves it to t 0.75.
	e.HandleEvent(mouse(20, 1, true))
	e.HandleEvent(mouse(25, 1, true))
	e.HandleEvent(mouse(25, 1, false))
	if got := e.Doc.Connections[0].LabelPosition; math.Abs(got-0.75) > 1e-6 {
		t.Errorf("label position = %v, want 0.75", got)
	}
}

func TestEditorShiftClickSelection(t *testing.T) {
	e, _ := newTestEditor(t)

	click(e, 5, 1, tcell.ModNone)
	click(e, 35, 1, tcell.ModShift)
	if e.Active() {
		t.Error("shift-click started a session")
	}
	if !slices.Equal(e.Doc.Selection, []string{"a", "b"}) {
		t.Fatalf("selection = %v, want [a b]", e.Doc.Selection)
	}

	e.HandleEvent(key('g'))
	if len(e.Doc.Groups) != 1 {
		t.Fatalf("got %d groups, want 1 (status %q)", len(e.Doc.Groups), e.status)
	}

	// b is now grouped with a, so toggling it drops both.
	click(e, 35, 1, tcell.ModShift)
	if len(e.Doc.Selection) != 0 {
		t.Errorf("selection = %v, want empty", e.Doc.Selection)
	}
}

func TestEditorMarqueeSelection(t *testing.T) {
	e, screen := newTestEditor(t)

	// Cell (c,r) is the canvas point (10c-15, 20r-10).
	e.input.View.Origin = core.Point{X: -20, Y: -20}
	e.HandleEvent(mouse(0, 0, true))
	if e.Active() {
		t.Fatal("press on empty canvas started a session")
	}
	e.HandleEvent(mouse(45, 5, true))
	e.Draw()
	if r, _, _, _ := screen.GetContent(10, 0); r != '-' {
		t.Errorf("marquee top edge = %q, want '-'", r)
	}
	e.HandleEvent(mouse(45, 5, false))

	if !slices.Equal(e.Doc.Selection, []string{"a", "b"}) {
		t.Fatalf("selection = %v, want [a b]", e.Doc.Selection)
	}
	if e.marquee != nil {
		t.Error("marquee left open after release")
	}

	e.HandleEvent(key('g'))
	if len(e.Doc.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(e.Doc.Groups))
	}

	// A marquee around a alone still selects its whole group. It starts
	// at (125,90), clear of the selection's handles.
	e.HandleEvent(mouse(14, 5, true))
	e.HandleEvent(mouse(0, 0, true))
	e.HandleEvent(mouse(0, 0, false))
	if len(e.Doc.Selection) != 2 {
		t.Errorf("selection = %v, want both group members", e.Doc.Selection)
	}

	e.HandleEvent(mouse(60, 15, true))
	e.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if e.marquee != nil {
		t.Error("escape did not drop the marquee")
	}
}

func TestEditorPressEmptyClearsSelection(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Doc.Selection = []string{"b"}

	e.HandleEvent(mouse(20, 10, true))
	if e.Active() {
		t.Error("press on empty canvas started a session")
	}
	if len(e.Doc.Selection) != 0 {
		t.Errorf("selection = %v, want empty", e.Doc.Selection)
	}
}

func TestEditorGroupAndUngroup(t *testing.T) {
	e, _ := newTestEditor(t)
	click(e, 5, 1, tcell.ModNone)
	click(e, 35, 1, tcell.ModShift)

	e.HandleEvent(key('g'))
	if len(e.Doc.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(e.Doc.Groups))
	}
	gid := e.Doc.Groups[0].ID
	for _, s := range e.Doc.Shapes {
		if s.GroupID != gid {
			t.Errorf("shape %s group = %q, want %q", s.ID, s.GroupID, gid)
		}
	}

	// Pressing one member selects the whole group.
	e.HandleEvent(mouse(5, 1, true))
	e.HandleEvent(mouse(5, 1, false))
	if len(e.Doc.Selection) != 2 {
		t.Errorf("selection = %v, want both members", e.Doc.Selection)
	}

	e.HandleEvent(key('G'))
	if len(e.Doc.Groups) != 0 {
		t.Errorf("ungroup left %d groups", len(e.Doc.Groups))
	}
	e.HandleEvent(key('u'))
	if len(e.Doc.Groups) != 1 {
		t.Errorf("undo ungroup: %d groups, want 1", len(e.Doc.Groups))
	}
}

func TestEditorCycleCurve(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Doc.Selection = []string{"c"}

	want := []core.CurveType{core.CurveOrthogonal, core.CurveBezier, core.CurveStraight}
	for _, w := range want {
		e.HandleEvent(key('c'))
		if got := e.Doc.Connections[0].Curve(); got != w {
			t.Errorf("curve = %v, want %v", got, w)
		}
	}
	if e.History.Len() != 3 {
		t.Errorf("history has %d entries, want 3", e.History.Len())
	}
}

func TestEditorSave(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Path = filepath.Join(t.TempDir(), "doc.json")

	e.HandleEvent(key('s'))
	d, err := document.Load(e.Path, document.IDs{})
	if err != nil {
		t.Fatalf("load saved file: %v", err)
	}
	if len(d.Shapes) != 2 || len(d.Connections) != 1 {
		t.Errorf("saved %d shapes %d connections", len(d.Shapes), len(d.Connections))
	}
}

func TestEditorQuit(t *testing.T) {
	e, _ := newTestEditor(t)
	e.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	if !e.quit {
		t.Error("ctrl-c did not quit")
	}
}

func TestEditorDraw(t *testing.T) {
	e, screen := newTestEditor(t)
	e.Draw()

	if r, _, _, _ := screen.GetContent(0, 0); r != '┌' {
		t.Errorf("top-left of a = %q, want '┌'", r)
	}
	if r, _, _, _ := screen.GetContent(5, 1); r != 'A' {
		t.Errorf("label of a = %q, want 'A'", r)
	}
	if r, _, _, _ := screen.GetContent(20, 1); r != '-' {
		t.Errorf("connector cell = %q, want '-'", r)
	}
	if r, _, _, _ := screen.GetContent(1, 23); r != 'm' {
		t.Errorf("status line starts with %q, want mode name", r)
	}
}
