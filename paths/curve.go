// Package paths builds connector geometry for the three curve families
// (straight, orthogonal, bezier) behind one Curve capability, so label
// placement and hit-testing treat every family the same way.
package paths

import (
	"gesso/anchors"
	"gesso/core"
)

// Curve is a built connector path parameterised over t in [0, 1].
type Curve interface {
	// PointAt returns the point at path parameter t.
	PointAt(t float64) core.Point

	// Nearest returns the path parameter closest to p and the distance to it.
	Nearest(p core.Point) (t, dist float64)

	// Points returns the path as a polyline; curves are flattened.
	Points() []core.Point

	// Bounds returns the axis-aligned box around Points.
	Bounds() core.Bounds
}

// Build constructs the curve for conn between already-resolved endpoints.
func Build(conn core.Connection, ep anchors.Endpoints) Curve {
	switch conn.Curve() {
	case core.CurveOrthogonal:
		return Orthogonal(ep.Start, ep.StartAnchor, ep.End, ep.EndAnchor).Polyline()
	case core.CurveBezier:
		return BuildBezier(ep, conn.ControlPoints, conn.Waypoints)
	default:
		return Straight(ep.Start, ep.End, conn.Waypoints)
	}
}

// ForConnection resolves conn's endpoints and builds its curve. It reports
// false when an attached shape is missing.
func ForConnection(conn core.Connection, lookup anchors.ShapeLookup) (Curve, anchors.Endpoints, bool) {
	ep, ok := anchors.ResolveEndpoints(conn, lookup)
	if !ok {
		return nil, anchors.Endpoints{}, false
	}
	return Build(conn, ep), ep, true
}

func boundsOf(pts []core.Point) core.Bounds {
	if len(pts) == 0 {
		return core.Bounds{}
	}
	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP.X = min(minP.X, p.X)
		minP.Y = min(minP.Y, p.Y)
		maxP.X = max(maxP.X, p.X)
		maxP.Y = max(maxP.Y, p.Y)
	}
	return core.BoundsFromPoints(minP, maxP)
}
