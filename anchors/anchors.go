// Package anchors maps shape sides to absolute attachment points and
// resolves the live endpoints of connections.
package anchors

import (
	"math"

	"gesso/core"
	"gesso/geometry"
)

// ShapeLookup resolves a shape by id from the caller's shape collection.
type ShapeLookup interface {
	Shape(id string) (core.Shape, bool)
}

// ShapeMap is a ShapeLookup backed by a map.
type ShapeMap map[string]core.Shape

// Shape returns the shape with the given id.
func (m ShapeMap) Shape(id string) (core.Shape, bool) {
	s, ok := m[id]
	return s, ok
}

// NewShapeMap indexes shapes by id.
func NewShapeMap(shapes []core.Shape) ShapeMap {
	m := make(ShapeMap, len(shapes))
	for _, s := range shapes {
		m[s.ID] = s
	}
	return m
}

// Point returns the absolute position of an anchor: the midpoint of that
// side of the unrotated box, rotated about the shape center by the shape's
// rotation.
func Point(s core.Shape, a core.Anchor) core.Point {
	b := s.Bounds()
	c := b.Center()
	var p core.Point
	switch a {
	case core.AnchorTop:
		p = core.Point{X: c.X, Y: b.Y}
	case core.AnchorRight:
		p = core.Point{X: b.Right(), Y: c.Y}
	case core.AnchorBottom:
		p = core.Point{X: c.X, Y: b.Bottom()}
	case core.AnchorLeft:
		p = core.Point{X: b.X, Y: c.Y}
	default:
		return c
	}
	return geometry.RotatePoint(p, c, s.Rotation)
}

// Normal returns the outward direction of an anchor on a possibly rotated
// shape.
func Normal(s core.Shape, a core.Anchor) core.Point {
	return geometry.RotatePoint(a.Normal(), core.Point{}, s.Rotation)
}

// All returns the four anchor points of s in enumeration order.
func All(s core.Shape) [4]core.Point {
	var pts [4]core.Point
	for i, a := range core.Anchors {
		pts[i] = Point(s, a)
	}
	return pts
}

// Nearest returns the anchor of s closest to p and its distance.
func Nearest(s core.Shape, p core.Point) (core.Anchor, float64) {
	best, bestDist := core.AnchorTop, math.Inf(1)
	for _, a := range core.Anchors {
		if d := Point(s, a).Distance(p); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best, bestDist
}

// Endpoints holds a connection's resolved absolute endpoints, the side each
// one exits from and the outward direction of that side.
type Endpoints struct {
	Start, End             core.Point
	StartAnchor, EndAnchor core.Anchor
	StartDir, EndDir       core.Point
}

// ResolveEndpoints returns the live start and end of conn. Attached ends
// follow their shape's anchor; floating ends use the stored point. It
// reports false when an attached shape no longer exists.
func ResolveEndpoints(conn core.Connection, lookup ShapeLookup) (Endpoints, bool) {
	start, startShape, ok := resolve(conn.Start, lookup)
	if !ok {
		return Endpoints{}, false
	}
	end, endShape, ok := resolve(conn.End, lookup)
	if !ok {
		return Endpoints{}, false
	}
	ep := Endpoints{
		Start:       start,
		End:         end,
		StartAnchor: EffectiveAnchor(conn.Start, start, end),
		EndAnchor:   EffectiveAnchor(conn.End, end, start),
	}
	ep.StartDir = direction(startShape, ep.StartAnchor)
	ep.EndDir = direction(endShape, ep.EndAnchor)
	return ep, true
}

func resolve(e core.Endpoint, lookup ShapeLookup) (core.Point, *core.Shape, bool) {
	if !e.IsAttached() {
		return e.Point, nil, true
	}
	s, ok := lookup.Shape(e.ShapeID)
	if !ok {
		return core.Point{}, nil, false
	}
	return Point(s, e.Anchor), &s, true
}

func direction(s *core.Shape, a core.Anchor) core.Point {
	if s == nil {
		return a.Normal()
	}
	return Normal(*s, a)
}

// FromPoints builds Endpoints for two bare points, inferring the sides.
func FromPoints(start, end core.Point) Endpoints {
	sa, ea := Facing(start, end), Facing(end, start)
	return Endpoints{
		Start: start, End: end,
		StartAnchor: sa, EndAnchor: ea,
		StartDir: sa.Normal(), EndDir: ea.Normal(),
	}
}

// EffectiveAnchor returns the side an endpoint exits from. Attached ends use
// their anchor; floating ends face the other end along the dominant axis.
func EffectiveAnchor(e core.Endpoint, self, other core.Point) core.Anchor {
	if e.IsAttached() && e.Anchor.Valid() {
		return e.Anchor
	}
	return Facing(self, other)
}

// Facing returns the side of a point that faces toward target.
func Facing(from, target core.Point) core.Anchor {
	d := target.Sub(from)
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if d.X >= 0 {
			return core.AnchorRight
		}
		return core.AnchorLeft
	}
	if d.Y >= 0 {
		return core.AnchorBottom
	}
	return core.AnchorTop
}
