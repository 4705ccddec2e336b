// Package hittest answers which shape or connector lies under a point.
package hittest

import (
	"math"

	"gesso/anchors"
	"gesso/core"
	"gesso/geometry"
	"gesso/paths"
)

// BaseThreshold is the connector pick distance at 100% zoom.
const BaseThreshold = 8.0

// Threshold scales BaseThreshold so the pick distance stays constant on
// screen.
func Threshold(zoom float64) float64 {
	if zoom <= 0 {
		return BaseThreshold
	}
	return BaseThreshold / zoom
}

// local maps p into s's unrotated frame, relative to its center.
func local(s core.Shape, p core.Point) core.Point {
	c := s.Center()
	if s.Rotation != 0 {
		p = geometry.RotatePoint(p, c, -s.Rotation)
	}
	return p.Sub(c)
}

// ShapeContains reports whether p hits s. Outlines are inflated by half the
// stroke width.
func ShapeContains(s core.Shape, p core.Point) bool {
	d := local(s, p)
	half := s.StrokeWidth / 2
	rx, ry := s.Width/2+half, s.Height/2+half
	if rx <= 0 || ry <= 0 {
		return false
	}
	switch s.Kind {
	case core.KindEllipse:
		nx, ny := d.X/rx, d.Y/ry
		return nx*nx+ny*ny <= 1
	case core.KindDiamond:
		return math.Abs(d.X)/rx+math.Abs(d.Y)/ry <= 1
	default:
		return math.Abs(d.X) <= rx && math.Abs(d.Y) <= ry
	}
}

// ShapeAt returns the topmost visible shape under p. Higher ZIndex wins;
// equal ZIndex goes to the later shape in the slice.
func ShapeAt(shapes []core.Shape, p core.Point) (core.Shape, bool) {
	best := -1
	for i, s := range shapes {
		if s.Hidden || !ShapeContains(s, p) {
			continue
		}
		if best < 0 || s.ZIndex >= shapes[best].ZIndex {
			best = i
		}
	}
	if best < 0 {
		return core.Shape{}, false
	}
	return shapes[best], true
}

// NearCurve reports whether p is within threshold of c, returning the
// closest path parameter.
func NearCurve(c paths.Curve, p core.Point, threshold float64) (float64, bool) {
	t, dist := c.Nearest(p)
	return t, dist <= threshold
}

// ConnectionHit is a connector picked at a point.
type ConnectionHit struct {
	Connection core.Connection
	T          float64 // Path parameter of the closest point
	Distance   float64
}

// ConnectionAt returns the connector closest to p within the zoom-scaled
// threshold. Connectors whose shapes are missing are skipped.
func ConnectionAt(conns []core.Connection, lookup anchors.ShapeLookup, p core.Point, zoom float64) (ConnectionHit, bool) {
	return ConnectionWithin(conns, lookup, p, Threshold(zoom))
}

// ConnectionWithin is ConnectionAt with an explicit canvas-unit limit.
func ConnectionWithin(conns []core.Connection, lookup anchors.ShapeLookup, p core.Point, limit float64) (ConnectionHit, bool) {
	var hit ConnectionHit
	found := false
	for _, conn := range conns {
		c, _, ok := paths.ForConnection(conn, lookup)
		if !ok {
			continue
		}
		t, dist := c.Nearest(p)
		if dist > limit+conn.StrokeWidth/2 {
			continue
		}
		if !found || dist < hit.Distance {
			hit = ConnectionHit{Connection: conn, T: t, Distance: dist}
			found = true
		}
	}
	return hit, found
}

// Corners returns s's four corners after rotation, clockwise from top-left.
func Corners(s core.Shape) [4]core.Point {
	b := s.Bounds()
	c := b.Center()
	pts := [4]core.Point{
		{X: b.X, Y: b.Y},
		{X: b.Right(), Y: b.Y},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.X, Y: b.Bottom()},
	}
	if s.Rotation != 0 {
		for i := range pts {
			pts[i] = geometry.RotatePoint(pts[i], c, s.Rotation)
		}
	}
	return pts
}

// VisualBounds is the axis-aligned box around s as drawn.
func VisualBounds(s core.Shape) core.Bounds {
	pts := Corners(s)
	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP.X, minP.Y = min(minP.X, p.X), min(minP.Y, p.Y)
		maxP.X, maxP.Y = max(maxP.X, p.X), max(maxP.Y, p.Y)
	}
	return core.BoundsFromPoints(minP, maxP)
}

// ShapesInRect returns the visible shapes whose drawn box lies entirely
// inside rect, for marquee selection.
func ShapesInRect(shapes []core.Shape, rect core.Bounds) []core.Shape {
	var out []core.Shape
	for _, s := range shapes {
		if !s.Hidden && rect.ContainsBounds(VisualBounds(s)) {
			out = append(out, s)
		}
	}
	return out
}
