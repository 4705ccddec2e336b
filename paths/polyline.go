package paths

import (
	"math"

	"gesso/core"
	"gesso/geometry"
)

// Polyline is a path of straight segments parameterised by arc length.
// Straight and orthogonal connectors are polylines.
type Polyline struct {
	pts []core.Point
	cum []float64 // cum[i] is the length from pts[0] to pts[i]
}

// NewPolyline builds a polyline through pts.
func NewPolyline(pts ...core.Point) Polyline {
	p := Polyline{
		pts: append([]core.Point(nil), pts...),
		cum: make([]float64, len(pts)),
	}
	for i := 1; i < len(pts); i++ {
		p.cum[i] = p.cum[i-1] + pts[i-1].Distance(pts[i])
	}
	return p
}

// Length returns the total arc length.
func (p Polyline) Length() float64 {
	if len(p.cum) == 0 {
		return 0
	}
	return p.cum[len(p.cum)-1]
}

// Points returns a copy of the vertices.
func (p Polyline) Points() []core.Point {
	return append([]core.Point(nil), p.pts...)
}

// Bounds returns the box around the vertices.
func (p Polyline) Bounds() core.Bounds {
	return boundsOf(p.pts)
}

// PointAt returns the point at fraction t of the arc length.
func (p Polyline) PointAt(t float64) core.Point {
	switch len(p.pts) {
	case 0:
		return core.Point{}
	case 1:
		return p.pts[0]
	}
	total := p.Length()
	if total == 0 {
		return p.pts[0]
	}
	target := geometry.Clamp(t, 0, 1) * total
	for i := 1; i < len(p.pts); i++ {
		if target <= p.cum[i] {
			seg := p.cum[i] - p.cum[i-1]
			if seg == 0 {
				return p.pts[i]
			}
			return p.pts[i-1].Lerp(p.pts[i], (target-p.cum[i-1])/seg)
		}
	}
	return p.pts[len(p.pts)-1]
}

// Nearest projects q onto every segment exactly and returns the closest
// arc-length parameter.
func (p Polyline) Nearest(q core.Point) (float64, float64) {
	switch len(p.pts) {
	case 0:
		return 0, math.Inf(1)
	case 1:
		return 0, q.Distance(p.pts[0])
	}
	total := p.Length()
	bestT, bestDist := 0.0, math.Inf(1)
	for i := 1; i < len(p.pts); i++ {
		proj, u := geometry.ProjectOntoSegment(q, p.pts[i-1], p.pts[i])
		if d := q.Distance(proj); d < bestDist {
			bestDist = d
			if total > 0 {
				bestT = (p.cum[i-1] + u*(p.cum[i]-p.cum[i-1])) / total
			}
		}
	}
	return bestT, bestDist
}

// Segment returns the index of the segment closest to q.
func (p Polyline) Segment(q core.Point) int {
	best, bestDist := 0, math.Inf(1)
	for i := 1; i < len(p.pts); i++ {
		if d := geometry.DistanceToSegment(q, p.pts[i-1], p.pts[i]); d < bestDist {
			best, bestDist = i-1, d
		}
	}
	return best
}
