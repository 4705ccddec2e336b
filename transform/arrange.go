package transform

import (
	"sort"

	"gesso/core"
)

// AlignEdge selects the line shapes are aligned to.
type AlignEdge string

const (
	AlignLeft   AlignEdge = "left"
	AlignCenter AlignEdge = "center"
	AlignRight  AlignEdge = "right"
	AlignTop    AlignEdge = "top"
	AlignMiddle AlignEdge = "middle"
	AlignBottom AlignEdge = "bottom"
)

// Axis selects horizontal or vertical distribution.
type Axis string

const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
)

// Align lines shapes up against the selection's bounding box. Fewer than
// two shapes produce no updates.
func Align(shapes []core.Shape, edge AlignEdge) []core.Shape {
	if len(shapes) < 2 {
		return nil
	}
	box := GroupBounds(shapes)
	out := make([]core.Shape, len(shapes))
	for i, s := range shapes {
		switch edge {
		case AlignLeft:
			s.X = box.X
		case AlignCenter:
			s.X = box.Center().X - s.Width/2
		case AlignRight:
			s.X = box.Right() - s.Width
		case AlignTop:
			s.Y = box.Y
		case AlignMiddle:
			s.Y = box.Center().Y - s.Height/2
		case AlignBottom:
			s.Y = box.Bottom() - s.Height
		}
		out[i] = s
	}
	return out
}

// Distribute spaces shapes so the gaps between neighbours along axis are
// equal, keeping the two outermost shapes in place. Fewer than three
// shapes produce no updates. Results keep the input order.
func Distribute(shapes []core.Shape, axis Axis) []core.Shape {
	if len(shapes) < 3 {
		return nil
	}
	order := make([]int, len(shapes))
	for i := range order {
		order[i] = i
	}
	pos := func(s core.Shape) float64 {
		if axis == AxisVertical {
			return s.Y
		}
		return s.X
	}
	size := func(s core.Shape) float64 {
		if axis == AxisVertical {
			return s.Height
		}
		return s.Width
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pos(shapes[order[a]]) < pos(shapes[order[b]])
	})

	first, last := shapes[order[0]], shapes[order[len(order)-1]]
	span := pos(last) + size(last) - pos(first)
	total := 0.0
	for _, s := range shapes {
		total += size(s)
	}
	gap := (span - total) / float64(len(shapes)-1)

	out := make([]core.Shape, len(shapes))
	copy(out, shapes)
	cursor := pos(first)
	for _, idx := range order {
		s := out[idx]
		if axis == AxisVertical {
			s.Y = cursor
		} else {
			s.X = cursor
		}
		out[idx] = s
		cursor += size(s) + gap
	}
	return out
}
