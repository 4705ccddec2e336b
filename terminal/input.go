// Package terminal drives the geometry core from a terminal. Mouse and key
// events from tcell are mapped to canvas coordinates and fed to manipulation
// sessions through their input subscriptions.
package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"gesso/core"
	"gesso/session"
)

// Viewport maps terminal cells to canvas coordinates. A cell is CellWidth
// by CellHeight canvas units at zoom 1.
type Viewport struct {
	Origin     core.Point // Canvas point shown in the top-left cell
	CellWidth  float64
	CellHeight float64
	Zoom       float64
}

// DefaultViewport shows the canvas from the origin with cells twice as tall
// as they are wide.
func DefaultViewport() Viewport {
	return Viewport{CellWidth: 10, CellHeight: 20, Zoom: 1}
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ToCanvas returns the canvas point at the center of cell (col, row).
func (v Viewport) ToCanvas(col, row int) core.Point {
	z := v.zoom()
	return core.Point{
		X: v.Origin.X + (float64(col)+0.5)*v.CellWidth/z,
		Y: v.Origin.Y + (float64(row)+0.5)*v.CellHeight/z,
	}
}

// ToCell returns the cell containing canvas point p.
func (v Viewport) ToCell(p core.Point) (int, int) {
	z := v.zoom()
	col := math.Floor((p.X - v.Origin.X) * z / v.CellWidth)
	row := math.Floor((p.Y - v.Origin.Y) * z / v.CellHeight)
	return int(col), int(row)
}

// Action is what a terminal event means to the editor.
type Action int

const (
	ActionNone Action = iota
	ActionPress
	ActionMove
	ActionRelease
	ActionCancel
	ActionKey
	ActionResize
)

// Translated is a decoded terminal event.
type Translated struct {
	Action Action
	Point  core.Point
	Mods   session.Modifiers
	Rune   rune
}

// Input turns tcell events into session events. It implements
// session.Input: moves, releases and Escape are delivered to subscribed
// sessions, while presses and other keys are returned to the caller.
type Input struct {
	View Viewport

	bus     session.Broadcast
	pressed bool
}

// Subscribe implements session.Input.
func (in *Input) Subscribe(l session.Listener) func() {
	return in.bus.Subscribe(l)
}

// Subscribers returns the number of attached sessions.
func (in *Input) Subscribers() int {
	return in.bus.Subscribers()
}

// Handle decodes ev and forwards pointer and cancel events to subscribers.
func (in *Input) Handle(ev tcell.Event) Translated {
	t := in.translate(ev)
	switch t.Action {
	case ActionMove:
		in.bus.Emit(session.Event{Type: session.PointerMove, Point: t.Point, Mods: t.Mods})
	case ActionRelease:
		in.bus.Emit(session.Event{Type: session.PointerUp, Point: t.Point, Mods: t.Mods})
	case ActionCancel:
		in.bus.Emit(session.Event{Type: session.Cancel})
	}
	return t
}

func (in *Input) translate(ev tcell.Event) Translated {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		col, row := ev.Position()
		t := Translated{Point: in.View.ToCanvas(col, row), Mods: modifiers(ev.Modifiers())}
		down := ev.Buttons()&tcell.Button1 != 0
		switch {
		case down && !in.pressed:
			t.Action = ActionPress
		case down:
			t.Action = ActionMove
		case in.pressed:
			t.Action = ActionRelease
		}
		in.pressed = down
		return t

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape {
			in.pressed = false
			return Translated{Action: ActionCancel}
		}
		if ev.Key() == tcell.KeyRune {
			return Translated{Action: ActionKey, Rune: ev.Rune(), Mods: modifiers(ev.Modifiers())}
		}
		if ev.Key() == tcell.KeyCtrlC {
			return Translated{Action: ActionKey, Rune: 'q'}
		}

	case *tcell.EventResize:
		return Translated{Action: ActionResize}
	}
	return Translated{}
}

func modifiers(m tcell.ModMask) session.Modifiers {
	return session.Modifiers{
		Shift: m&tcell.ModShift != 0,
		Alt:   m&tcell.ModAlt != 0,
	}
}
