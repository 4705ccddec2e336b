package terminal

import (
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"gesso/core"
	"gesso/hittest"
	"gesso/paths"
	"gesso/transform"
)

var (
	styleShape    = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleConn     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// Draw renders the document and a status line.
func (e *Editor) Draw() {
	e.screen.Clear()

	shapes := slices.Clone(e.Doc.Shapes)
	slices.SortStableFunc(shapes, func(a, b core.Shape) int { return a.ZIndex - b.ZIndex })

	for _, c := range e.Doc.Connections {
		curve, _, ok := paths.ForConnection(c, e.Doc)
		if !ok {
			continue
		}
		st := styleConn
		if slices.Contains(e.Doc.Selection, c.ID) {
			st = styleSelected
		}
		e.polyline(curve.Points(), st, false)
		if c.Label != "" {
			col, row := e.input.View.ToCell(paths.LabelPoint(curve, c))
			e.text(col-runewidth.StringWidth(c.Label)/2, row, c.Label, st)
		}
	}

	for _, s := range shapes {
		if s.Hidden {
			continue
		}
		st := styleShape
		if slices.Contains(e.Doc.Selection, s.ID) {
			st = styleSelected
		}
		e.shape(s, st)
	}
	if m := e.marquee; m != nil {
		r := m.rect()
		e.polyline([]core.Point{
			{X: r.X, Y: r.Y}, {X: r.Right(), Y: r.Y},
			{X: r.Right(), Y: r.Bottom()}, {X: r.X, Y: r.Bottom()}, {X: r.X, Y: r.Y},
		}, styleSelected, false)
	}
	if sel := e.selectedShapes(); len(sel) == 1 {
		col, row := e.input.View.ToCell(transform.RotationHandle(sel[0], e.rotateOffset()))
		e.screen.SetContent(col, row, '○', nil, styleSelected)
	}

	_, h := e.screen.Size()
	status := fmt.Sprintf(" %s | undo %d | %s", e.mode, e.History.Len(), e.status)
	e.text(0, h-1, status, styleStatus)
	e.screen.Show()
}

func (e *Editor) shape(s core.Shape, st tcell.Style) {
	c := hittest.Corners(s)
	e.polyline([]core.Point{c[0], c[1], c[2], c[3], c[0]}, st, true)

	if s.Rotation == 0 {
		for i, r := range []rune{'┌', '┐', '┘', '└'} {
			col, row := e.input.View.ToCell(c[i])
			e.screen.SetContent(col, row, r, nil, st)
		}
	}
	if s.Text != "" {
		col, row := e.input.View.ToCell(s.Center())
		e.text(col-runewidth.StringWidth(s.Text)/2, row, s.Text, st)
	}
}

// polyline rasterizes pts by stepping one cell at a time along each segment.
func (e *Editor) polyline(pts []core.Point, st tcell.Style, box bool) {
	for i := 1; i < len(pts); i++ {
		c0, r0 := e.input.View.ToCell(pts[i-1])
		c1, r1 := e.input.View.ToCell(pts[i])
		ch := lineRune(c1-c0, r1-r0, box)

		n := max(abs(c1-c0), abs(r1-r0))
		for k := 0; k <= n; k++ {
			col, row := c0, r0
			if n > 0 {
				col = c0 + (c1-c0)*k/n
				row = r0 + (r1-r0)*k/n
			}
			e.screen.SetContent(col, row, ch, nil, st)
		}
	}
}

func lineRune(dc, dr int, box bool) rune {
	switch {
	case dr == 0 && box:
		return '─'
	case dc == 0 && box:
		return '│'
	case dr == 0:
		return '-'
	case dc == 0:
		return '|'
	}
	return '·'
}

func (e *Editor) text(col, row int, s string, st tcell.Style) {
	for _, r := range s {
		e.screen.SetContent(col, row, r, nil, st)
		col += runewidth.RuneWidth(r)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
