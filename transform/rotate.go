package transform

import (
	"gesso/core"
	"gesso/geometry"
)

// Rotate returns the normalized rotation after applying angleDelta to
// startRotation. With snap enabled the delta, not the absolute angle, is
// rounded to the nearest 15 degrees so snapping is relative to the gesture
// start.
func Rotate(startRotation, angleDelta float64, snap bool) float64 {
	inc := 0.0
	if snap {
		inc = geometry.DefaultSnapIncrement
	}
	return RotateBy(startRotation, angleDelta, inc)
}

// RotateBy is Rotate with a configurable snap increment; increment <= 0
// disables snapping.
func RotateBy(startRotation, angleDelta, increment float64) float64 {
	return geometry.NormalizeAngle(startRotation + geometry.SnapAngle(angleDelta, increment))
}

// RotationDelta returns the angle swept around center by the pointer moving
// from startPoint to current, in (-180, 180].
func RotationDelta(center, startPoint, current core.Point) float64 {
	d := geometry.NormalizeAngle(geometry.AngleFromCenter(center, current) - geometry.AngleFromCenter(center, startPoint))
	if d > 180 {
		d -= 360
	}
	return d
}

// RotationHandle returns where the rotation handle sits for a shape: offset
// above the top edge midpoint, then rotated with the shape.
func RotationHandle(s core.Shape, offset float64) core.Point {
	top := core.Point{X: s.X + s.Width/2, Y: s.Y - offset}
	return geometry.RotatePoint(top, s.Center(), s.Rotation)
}
