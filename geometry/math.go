// Package geometry holds the angle and projection primitives used by the
// transform, anchor, path and hit-testing packages.
package geometry

import (
	"math"

	"gesso/core"
)

// DefaultSnapIncrement is the rotation snapping step in degrees.
const DefaultSnapIncrement = 15.0

const angleResolution = 1e9

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle maps any angle in degrees onto [0, 360).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// Round away float noise from Mod so a and a+360 land on the same value
	a = math.Round(a*angleResolution) / angleResolution
	// -0 and values that round up to 360 both collapse to 0
	if a == 0 || a >= 360 {
		return 0
	}
	return a
}

// SnapAngle rounds a to the nearest multiple of increment. A non-positive
// increment disables snapping.
func SnapAngle(a, increment float64) float64 {
	if increment <= 0 {
		return a
	}
	return math.Round(a/increment) * increment
}

// AngleFromCenter returns the angle of p around center in degrees, where 0
// points up (12 o'clock) and angles grow clockwise.
func AngleFromCenter(center, p core.Point) float64 {
	rad := math.Atan2(p.Y-center.Y, p.X-center.X)
	return NormalizeAngle(Degrees(rad) + 90)
}

// RotatePoint rotates p about center by deg degrees, clockwise on screen.
func RotatePoint(p, center core.Point, deg float64) core.Point {
	if deg == 0 {
		return p
	}
	rad := Radians(deg)
	cos, sin := math.Cos(rad), math.Sin(rad)
	dx, dy := p.X-center.X, p.Y-center.Y
	return core.Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// ConstrainToAxis zeroes the smaller component of delta so a drag moves
// along a single axis.
func ConstrainToAxis(delta core.Point) core.Point {
	if math.Abs(delta.X) >= math.Abs(delta.Y) {
		return core.Point{X: delta.X}
	}
	return core.Point{Y: delta.Y}
}

// ProjectOntoSegment returns the point on segment a-b closest to p and its
// parameter t in [0, 1].
func ProjectOntoSegment(p, a, b core.Point) (core.Point, float64) {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return a, 0
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = Clamp(t, 0, 1)
	return a.Lerp(b, t), t
}

// ProjectOntoLine is ProjectOntoSegment without clamping t.
func ProjectOntoLine(p, a, b core.Point) (core.Point, float64) {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return a, 0
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	return a.Lerp(b, t), t
}

// DistanceToSegment returns the perpendicular distance from p to segment a-b.
func DistanceToSegment(p, a, b core.Point) float64 {
	q, _ := ProjectOntoSegment(p, a, b)
	return p.Distance(q)
}

// AngleBetween returns the unsigned angle between vectors u and v in
// radians, in [0, π]. Zero vectors yield 0.
func AngleBetween(u, v core.Point) float64 {
	lu, lv := u.Len(), v.Len()
	if lu == 0 || lv == 0 {
		return 0
	}
	cos := (u.X*v.X + u.Y*v.Y) / (lu * lv)
	return math.Acos(Clamp(cos, -1, 1))
}

// Normalize returns v scaled to unit length, or the zero vector.
func Normalize(v core.Point) core.Point {
	l := v.Len()
	if l == 0 {
		return core.Point{}
	}
	return v.Scale(1 / l)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
