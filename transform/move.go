package transform

import (
	"gesso/core"
	"gesso/geometry"
)

// Move translates start by delta. With constrain set the move is locked to
// the dominant axis.
func Move(start core.Bounds, delta core.Point, constrain bool) core.Bounds {
	if constrain {
		delta = geometry.ConstrainToAxis(delta)
	}
	start.X += delta.X
	start.Y += delta.Y
	return start
}

// MoveShapes translates every snapshotted shape by the same total delta.
// The input slice is not modified.
func MoveShapes(snapshot []core.Shape, delta core.Point, constrain bool) []core.Shape {
	if constrain {
		delta = geometry.ConstrainToAxis(delta)
	}
	out := make([]core.Shape, len(snapshot))
	for i, s := range snapshot {
		s.X += delta.X
		s.Y += delta.Y
		out[i] = s
	}
	return out
}
