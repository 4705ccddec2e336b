package paths

import (
	"math"

	"gesso/anchors"
	"gesso/core"
	"gesso/geometry"
)

// Bezier defaults.
const (
	ControlRatio       = 0.4   // Control arm as a fraction of endpoint distance
	MaxControlDistance = 100.0 // Cap on the default control arm
	Tension            = 0.3   // Catmull-Rom tension through waypoints
	DefaultSamples     = 20    // Samples per cubic segment for hit-testing
)

// ControlHandle names one of a connection's two control points.
type ControlHandle int

const (
	ControlStart ControlHandle = iota + 1 // cp1, stored relative to the start
	ControlEnd                            // cp2, stored relative to the end
)

// Cubic is one cubic bezier segment.
type Cubic struct {
	P0, C1, C2, P3 core.Point
}

// At evaluates the segment at t using de Casteljau's construction.
func (c Cubic) At(t float64) core.Point {
	a := c.P0.Lerp(c.C1, t)
	b := c.C1.Lerp(c.C2, t)
	d := c.C2.Lerp(c.P3, t)
	ab := a.Lerp(b, t)
	bd := b.Lerp(d, t)
	return ab.Lerp(bd, t)
}

// BezierPath is a chain of cubic segments. The path parameter is split
// evenly between segments.
type BezierPath struct {
	Segments []Cubic
	Samples  int
}

func (b BezierPath) samples() int {
	if b.Samples <= 0 {
		return DefaultSamples
	}
	return b.Samples
}

// PointAt returns the point at path parameter t.
func (b BezierPath) PointAt(t float64) core.Point {
	n := len(b.Segments)
	if n == 0 {
		return core.Point{}
	}
	x := geometry.Clamp(t, 0, 1) * float64(n)
	i := int(x)
	if i >= n {
		i = n - 1
	}
	return b.Segments[i].At(x - float64(i))
}

// Nearest samples every segment and returns the closest sampled parameter.
func (b BezierPath) Nearest(p core.Point) (float64, float64) {
	n := len(b.Segments)
	if n == 0 {
		return 0, math.Inf(1)
	}
	steps := b.samples()
	bestT, bestDist := 0.0, math.Inf(1)
	for i, seg := range b.Segments {
		for k := 0; k <= steps; k++ {
			u := float64(k) / float64(steps)
			if d := p.Distance(seg.At(u)); d < bestDist {
				bestDist = d
				bestT = (float64(i) + u) / float64(n)
			}
		}
	}
	return bestT, bestDist
}

// Points flattens the path.
func (b BezierPath) Points() []core.Point {
	if len(b.Segments) == 0 {
		return nil
	}
	steps := b.samples()
	pts := []core.Point{b.Segments[0].P0}
	for _, seg := range b.Segments {
		for k := 1; k <= steps; k++ {
			pts = append(pts, seg.At(float64(k)/float64(steps)))
		}
	}
	return pts
}

// Bounds returns the box around the flattened path.
func (b BezierPath) Bounds() core.Bounds {
	return boundsOf(b.Points())
}

// DefaultControlPoints extends each end outward along its anchor direction
// by ControlRatio of the endpoint distance, at most MaxControlDistance.
func DefaultControlPoints(ep anchors.Endpoints) (core.Point, core.Point) {
	ext := math.Min(ControlRatio*ep.Start.Distance(ep.End), MaxControlDistance)
	return ep.Start.Add(ep.StartDir.Scale(ext)), ep.End.Add(ep.EndDir.Scale(ext))
}

// ControlPointsFor returns absolute control points. Stored offsets are
// applied to their endpoints; without them the defaults are used.
func ControlPointsFor(ep anchors.Endpoints, stored *core.ControlPoints) (core.Point, core.Point) {
	if stored == nil {
		return DefaultControlPoints(ep)
	}
	return ep.Start.Add(stored.CP1), ep.End.Add(stored.CP2)
}

// BuildBezier constructs the bezier path for resolved endpoints. Waypoints
// split the path into one cubic per span, smoothed with Catmull-Rom
// tangents; the outer arms at the true endpoints keep the anchor direction
// or the stored control points.
func BuildBezier(ep anchors.Endpoints, stored *core.ControlPoints, wps []core.Waypoint) BezierPath {
	cp1, cp2 := ControlPointsFor(ep, stored)
	if len(wps) == 0 {
		return BezierPath{Segments: []Cubic{{P0: ep.Start, C1: cp1, C2: cp2, P3: ep.End}}}
	}

	pts := make([]core.Point, 0, len(wps)+2)
	pts = append(pts, ep.Start)
	for _, wp := range SortWaypoints(wps) {
		pts = append(pts, WaypointPoint(ep.Start, ep.End, wp))
	}
	pts = append(pts, ep.End)

	last := len(pts) - 1
	segs := make([]Cubic, last)
	for i := 0; i < last; i++ {
		p0, p3 := pts[i], pts[i+1]
		prev := pts[max(i-1, 0)]
		next := pts[min(i+2, last)]
		segs[i] = Cubic{
			P0: p0,
			C1: p0.Add(p3.Sub(prev).Scale(Tension / 2)),
			C2: p3.Sub(next.Sub(p0).Scale(Tension / 2)),
			P3: p3,
		}
	}
	segs[0].C1 = cp1
	segs[last-1].C2 = cp2
	return BezierPath{Segments: segs}
}

// SetControlPoint moves one control point to canvas point p and returns the
// new relative offsets. A connection without stored offsets starts from its
// defaults so the other handle stays where it was drawn.
func SetControlPoint(ep anchors.Endpoints, stored *core.ControlPoints, h ControlHandle, p core.Point) *core.ControlPoints {
	cp1, cp2 := ControlPointsFor(ep, stored)
	out := &core.ControlPoints{CP1: cp1.Sub(ep.Start), CP2: cp2.Sub(ep.End)}
	switch h {
	case ControlStart:
		out.CP1 = p.Sub(ep.Start)
	case ControlEnd:
		out.CP2 = p.Sub(ep.End)
	}
	return out
}
