package transform

import (
	"math"

	"gesso/core"
	"gesso/geometry"
)

// MinGroupMemberSize is the floor applied to member width and height while
// scaling a group.
const MinGroupMemberSize = 10.0

// Snapshot copies the shapes at gesture start. Group operations always read
// from a snapshot so repeated pointer moves never compound.
func Snapshot(shapes []core.Shape) []core.Shape {
	out := make([]core.Shape, len(shapes))
	copy(out, shapes)
	return out
}

// GroupBounds returns the axis-aligned box around the members' unrotated
// bounds. An empty slice yields zero bounds.
func GroupBounds(members []core.Shape) core.Bounds {
	if len(members) == 0 {
		return core.Bounds{}
	}
	b := members[0].Bounds()
	for _, m := range members[1:] {
		b = b.Union(m.Bounds())
	}
	return b
}

// ScaleGroup maps members from oldBounds onto newBounds. The point opposite
// the dragged handle is the fixed anchor: each member center is expressed
// relative to it, scaled component-wise and re-anchored on the new box.
func ScaleGroup(members []core.Shape, oldBounds, newBounds core.Bounds, handle core.Handle) []core.Shape {
	fixed := handle.Opposite()
	return scaleAbout(members, oldBounds, newBounds, fixed.Position(oldBounds), fixed.Position(newBounds))
}

// ScaleGroupFromCenter is ScaleGroup anchored on the group center.
func ScaleGroupFromCenter(members []core.Shape, oldBounds, newBounds core.Bounds) []core.Shape {
	return scaleAbout(members, oldBounds, newBounds, oldBounds.Center(), newBounds.Center())
}

func scaleAbout(members []core.Shape, oldBounds, newBounds core.Bounds, oldAnchor, newAnchor core.Point) []core.Shape {
	sx, sy := 1.0, 1.0
	if oldBounds.Width != 0 {
		sx = newBounds.Width / oldBounds.Width
	}
	if oldBounds.Height != 0 {
		sy = newBounds.Height / oldBounds.Height
	}

	out := make([]core.Shape, len(members))
	for i, m := range members {
		rel := m.Center().Sub(oldAnchor)
		c := core.Point{X: newAnchor.X + rel.X*sx, Y: newAnchor.Y + rel.Y*sy}
		w := math.Max(m.Width*math.Abs(sx), MinGroupMemberSize)
		h := math.Max(m.Height*math.Abs(sy), MinGroupMemberSize)
		out[i] = m.WithBounds(core.Bounds{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h})
	}
	return out
}

// ResizeGroup runs the resize engine on the group's bounding box and scales
// the members into the result.
func ResizeGroup(members []core.Shape, handle core.Handle, delta core.Point, opts ResizeOptions) ([]core.Shape, core.Bounds) {
	old := GroupBounds(members)
	nb := Resize(old, handle, delta, opts)
	if opts.ResizeFromCenter {
		return ScaleGroupFromCenter(members, old, nb), nb
	}
	return ScaleGroup(members, old, nb, handle), nb
}

// RotateGroup orbits every member center around the group center by
// angleDelta and spins each member in place by the same amount.
func RotateGroup(members []core.Shape, angleDelta float64) []core.Shape {
	pivot := GroupBounds(members).Center()
	out := make([]core.Shape, len(members))
	for i, m := range members {
		c := geometry.RotatePoint(m.Center(), pivot, angleDelta)
		m.X = c.X - m.Width/2
		m.Y = c.Y - m.Height/2
		m.Rotation = geometry.NormalizeAngle(m.Rotation + angleDelta)
		out[i] = m
	}
	return out
}
