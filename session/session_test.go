package session

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"gesso/core"
	"gesso/geometry"
	"gesso/history"
	"gesso/paths"
)

// countingInput records how often subscriptions are attached and removed.
type countingInput struct {
	Broadcast
	subscribed   int
	unsubscribed int
}

func (c *countingInput) Subscribe(l Listener) func() {
	c.subscribed++
	unsub := c.Broadcast.Subscribe(l)
	return func() {
		c.unsubscribed++
		unsub()
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func shapeByID(st history.State, id string) core.Shape {
	for _, s := range st.Shapes {
		if s.ID == id {
			return s
		}
	}
	return core.Shape{}
}

func connByID(st history.State, id string) core.Connection {
	for _, c := range st.Connections {
		if c.ID == id {
			return c
		}
	}
	return core.Connection{}
}

func docState() history.State {
	return history.State{
		Shapes: []core.Shape{
			{ID: "a", X: 100, Y: 100, Width: 200, Height: 100},
			{ID: "b", X: 500, Y: 100, Width: 100, Height: 100},
			{ID: "c", X: 300, Y: 300, Width: 100, Height: 100},
		},
		Connections: []core.Connection{
			{ID: "ab", Start: core.Attached("a", core.AnchorRight), End: core.Attached("b", core.AnchorLeft)},
			{ID: "free", Start: core.Floating(core.Point{X: 0, Y: 600}), End: core.Floating(core.Point{X: 100, Y: 600})},
		},
	}
}

func TestSession_ResizeDrivenByInput(t *testing.T) {
	in := &countingInput{}
	var changed []history.State
	var committed history.Entry
	var commitOK bool

	s, err := Begin(docState(), Spec{
		Kind:      KindResize,
		TargetIDs: []string{"a"},
		Start:     core.Point{X: 300, Y: 200},
		Handle:    core.HandleSE,
	}, in, Options{
		NewID:    sequentialIDs(),
		OnChange: func(st history.State) { changed = append(changed, st) },
		OnCommit: func(_ history.State, e history.Entry, ok bool) { committed, commitOK = e, ok },
	})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if in.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", in.Subscribers())
	}

	in.Emit(Event{Type: PointerMove, Point: core.Point{X: 350, Y: 230}})
	if len(changed) != 1 {
		t.Fatalf("OnChange calls = %d, want 1", len(changed))
	}
	got := shapeByID(changed[0], "a").Bounds()
	want := core.Bounds{X: 100, Y: 100, Width: 250, Height: 130}
	if got != want {
		t.Errorf("resized bounds = %+v, want %+v", got, want)
	}

	in.Emit(Event{Type: PointerUp, Point: core.Point{X: 350, Y: 230}})
	if !commitOK || committed.Type != history.EntryResize {
		t.Errorf("commit = %+v, %v", committed, commitOK)
	}
	if in.Subscribers() != 0 || in.unsubscribed != 1 {
		t.Errorf("after end: subscribers %d, unsubscribed %d", in.Subscribers(), in.unsubscribed)
	}
	if s.Active() {
		t.Error("session still active after pointer up")
	}

	// events after the end are ignored
	in.Emit(Event{Type: PointerMove, Point: core.Point{X: 900, Y: 900}})
	if len(changed) != 1 {
		t.Error("ended session reacted to input")
	}
}

func TestSession_UpdateIsIdempotent(t *testing.T) {
	spec := Spec{Kind: KindMove, TargetIDs: []string{"a", "b"}, Start: core.Point{X: 10, Y: 10}}
	s, _ := Begin(docState(), spec, nil, Options{})
	fresh, _ := Begin(docState(), spec, nil, Options{})

	s.Update(core.Point{X: 40, Y: 90}, Modifiers{})
	s.Update(core.Point{X: 70, Y: 20}, Modifiers{})
	got := s.Update(core.Point{X: 70, Y: 20}, Modifiers{})
	want := fresh.Update(core.Point{X: 70, Y: 20}, Modifiers{})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("update depends on history:\n got %+v\nwant %+v", got.Shapes, want.Shapes)
	}
	if a := shapeByID(got, "a"); a.X != 160 || a.Y != 110 {
		t.Errorf("moved a = (%v,%v), want (160,110)", a.X, a.Y)
	}
}

func TestSession_MoveConstrained(t *testing.T) {
	s, _ := Begin(docState(), Spec{Kind: KindMove, TargetIDs: []string{"a"}}, nil, Options{})
	got := shapeByID(s.Update(core.Point{X: 50, Y: 8}, Modifiers{Shift: true}), "a")
	if got.X != 150 || got.Y != 100 {
		t.Errorf("constrained move = (%v,%v), want (150,100)", got.X, got.Y)
	}
}

func TestSession_CancelRestoresAndDetachesOnce(t *testing.T) {
	in := &countingInput{}
	before := docState()
	var cancelled history.State
	s, err := Begin(before, Spec{Kind: KindMove, TargetIDs: []string{"a"}}, in, Options{
		OnCancel: func(st history.State) { cancelled = st },
	})
	if err != nil {
		t.Fatal(err)
	}
	in.Emit(Event{Type: PointerMove, Point: core.Point{X: 80, Y: 80}})
	in.Emit(Event{Type: Cancel})

	if !reflect.DeepEqual(cancelled, before.Clone()) {
		t.Errorf("cancel state = %+v, want the pre-gesture state", cancelled.Shapes)
	}
	s.Detach()
	s.Cancel()
	if _, _, ok := s.End(core.Point{X: 5, Y: 5}); ok {
		t.Error("End after Cancel produced an entry")
	}
	if in.unsubscribed != 1 {
		t.Errorf("unsubscribe calls = %d, want 1", in.unsubscribed)
	}
}

func TestSession_EndWithoutChange(t *testing.T) {
	s, _ := Begin(docState(), Spec{Kind: KindMove, TargetIDs: []string{"a"}, Start: core.Point{X: 5, Y: 5}}, nil, Options{})
	if _, _, ok := s.End(core.Point{X: 5, Y: 5}); ok {
		t.Error("End without movement should not produce an entry")
	}
}

func TestSession_RotateSnaps(t *testing.T) {
	st := docState()
	center := core.Point{X: 200, Y: 150}
	start := core.Point{X: 200, Y: 50}
	s, _ := Begin(st, Spec{Kind: KindRotate, TargetIDs: []string{"a"}, Start: start}, nil, Options{})

	p := geometry.RotatePoint(start, center, 47)
	if got := shapeByID(s.Update(p, Modifiers{Shift: true}), "a").Rotation; math.Abs(got-45) > 1e-9 {
		t.Errorf("snapped rotation = %v, want 45", got)
	}
	if got := shapeByID(s.Update(p, Modifiers{}), "a").Rotation; math.Abs(got-47) > 1e-6 {
		t.Errorf("free rotation = %v, want 47", got)
	}
}

func TestSession_RotateSnapsAcrossTwelve(t *testing.T) {
	center := core.Point{X: 200, Y: 150}
	top := core.Point{X: 200, Y: 50}
	start := geometry.RotatePoint(top, center, 350)
	s, _ := Begin(docState(), Spec{Kind: KindRotate, TargetIDs: []string{"a"}, Start: start}, nil, Options{SnapIncrement: 25})

	p := geometry.RotatePoint(top, center, 10)
	if got := shapeByID(s.Update(p, Modifiers{Shift: true}), "a").Rotation; math.Abs(got-25) > 1e-9 {
		t.Errorf("snapped rotation = %v, want 25", got)
	}
	if got := shapeByID(s.Update(p, Modifiers{}), "a").Rotation; math.Abs(got-20) > 1e-6 {
		t.Errorf("free rotation = %v, want 20", got)
	}
}

func TestSession_GroupRotateKeepsDistances(t *testing.T) {
	st := docState()
	s, _ := Begin(st, Spec{Kind: KindGroupRotate, TargetIDs: []string{"a", "b", "c"}, Start: core.Point{X: 350, Y: 0}}, nil, Options{})
	m := s.Manipulation()
	p := geometry.RotatePoint(core.Point{X: 350, Y: 0}, m.StartBounds.Center(), 90)
	got := s.Update(p, Modifiers{})

	d0 := shapeByID(st, "a").Center().Distance(shapeByID(st, "c").Center())
	d1 := shapeByID(got, "a").Center().Distance(shapeByID(got, "c").Center())
	if math.Abs(d0-d1) > 1e-6 {
		t.Errorf("distance changed from %v to %v", d0, d1)
	}
	if r := shapeByID(got, "b").Rotation; math.Abs(r-90) > 1e-6 {
		t.Errorf("member rotation = %v, want 90", r)
	}
}

func TestSession_EndpointRetarget(t *testing.T) {
	s, err := Begin(docState(), Spec{Kind: KindEndpoint, TargetIDs: []string{"ab"}, Side: SideEnd}, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := connByID(s.Update(core.Point{X: 305, Y: 350}, Modifiers{}), "ab").End
	if got.ShapeID != "c" || got.Anchor != core.AnchorLeft {
		t.Errorf("retargeted end = %+v, want c/left", got)
	}

	got = connByID(s.Update(core.Point{X: 900, Y: 900}, Modifiers{}), "ab").End
	if got.IsAttached() || got.Point != (core.Point{X: 900, Y: 900}) {
		t.Errorf("end over empty canvas = %+v, want floating", got)
	}
}

func TestSession_WaypointInsertAndDrag(t *testing.T) {
	s, err := Begin(docState(), Spec{Kind: KindWaypoint, TargetIDs: []string{"free"}, Start: core.Point{X: 50, Y: 600}}, nil, Options{NewID: sequentialIDs()})
	if err != nil {
		t.Fatal(err)
	}
	if id := s.WaypointID(); !strings.HasPrefix(id, "wp-") {
		t.Fatalf("inserted waypoint id = %q, want a wp- id", id)
	}
	final, e, ok := s.End(core.Point{X: 50, Y: 640})
	if !ok || e.Type != history.EntryEditPath {
		t.Fatalf("End = %+v, %v", e, ok)
	}
	wps := connByID(final, "free").Waypoints
	if len(wps) != 1 || wps[0].T != 0.5 || wps[0].Offset != (core.Point{X: 0, Y: 40}) {
		t.Errorf("waypoints = %+v, want t=0.5 offset=(0,40)", wps)
	}

	cancelled, _ := Begin(docState(), Spec{Kind: KindWaypoint, TargetIDs: []string{"free"}, Start: core.Point{X: 50, Y: 600}}, nil, Options{})
	if wps := connByID(cancelled.Cancel(), "free").Waypoints; len(wps) != 0 {
		t.Errorf("cancelled insertion left waypoints %+v", wps)
	}
}

func TestSession_ControlPointAndLabel(t *testing.T) {
	st := docState()
	st.Connections[1].CurveType = core.CurveBezier

	s, _ := Begin(st, Spec{Kind: KindControlPoint, TargetIDs: []string{"free"}, Control: paths.ControlEnd}, nil, Options{})
	cp := connByID(s.Update(core.Point{X: 120, Y: 500}, Modifiers{}), "free").ControlPoints
	if cp == nil || cp.CP2 != (core.Point{X: 20, Y: -100}) {
		t.Errorf("control points = %+v, want cp2 offset (20,-100)", cp)
	}

	// The label starts at the midpoint (50,600); drags move it by the
	// pointer delta.
	s, _ = Begin(docState(), Spec{Kind: KindLabel, TargetIDs: []string{"free"}, Start: core.Point{X: 60, Y: 610}}, nil, Options{})
	if got := connByID(s.Update(core.Point{X: 80, Y: 590}, Modifiers{}), "free").LabelPosition; math.Abs(got-0.7) > 1e-9 {
		t.Errorf("label position = %v, want 0.7", got)
	}
	if got := connByID(s.Update(core.Point{X: 2, Y: 603}, Modifiers{}), "free").LabelPosition; got != paths.LabelMin {
		t.Errorf("label position = %v, want %v", got, paths.LabelMin)
	}
	if _, _, ok := s.End(core.Point{X: 60, Y: 610}); ok {
		t.Error("a click without movement should leave the label and history alone")
	}
}

func TestBegin_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"missing shape", Spec{Kind: KindResize, TargetIDs: []string{"nope"}}, ErrNoTarget},
		{"no targets", Spec{Kind: KindMove}, ErrNoTarget},
		{"missing connection", Spec{Kind: KindLabel, TargetIDs: []string{"nope"}}, ErrNoTarget},
		{"unknown kind", Spec{Kind: "spin", TargetIDs: []string{"a"}}, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &countingInput{}
			if _, err := Begin(docState(), tt.spec, in, Options{}); !errors.Is(err, tt.want) {
				t.Errorf("Begin error = %v, want %v", err, tt.want)
			}
			if in.subscribed != 0 {
				t.Error("failed Begin subscribed to input")
			}
		})
	}
}
