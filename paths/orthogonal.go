package paths

import (
	"math"

	"gesso/core"
)

// Strategy defines how an orthogonal connector joins its exit points.
type Strategy int

const (
	// StrategyDirect is a one-turn L path between perpendicular anchors.
	StrategyDirect Strategy = iota
	// StrategyUShape loops outward around both ends.
	StrategyUShape
	// StrategyZShape makes two turns through the midpoint between exits.
	StrategyZShape
)

// Orthogonal routing constants.
const (
	ExitOffset = 20.0 // Perpendicular stub length out of each anchor
	MinLoop    = 50.0 // Smallest u-shape detour
	loopFactor = 0.3  // U-shape detour as a fraction of the endpoint spread
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyUShape:
		return "u-shape"
	case StrategyZShape:
		return "z-shape"
	default:
		return "unknown"
	}
}

// Route is an orthogonal connector path.
type Route struct {
	Strategy Strategy
	Points   []core.Point
}

// Polyline returns the route as a Curve.
func (r Route) Polyline() Polyline {
	return NewPolyline(r.Points...)
}

// Orthogonal routes from start to end using only horizontal and vertical
// segments. Each end first leaves its anchor perpendicular to the side by
// ExitOffset. The first and last points are always exactly start and end.
func Orthogonal(start core.Point, startAnchor core.Anchor, end core.Point, endAnchor core.Anchor) Route {
	if start == end {
		return Route{Strategy: StrategyDirect, Points: []core.Point{start, end}}
	}
	s1 := start.Add(startAnchor.Normal().Scale(ExitOffset))
	e1 := end.Add(endAnchor.Normal().Scale(ExitOffset))

	strategy := SelectStrategy(startAnchor, endAnchor, s1, e1)

	var mid []core.Point
	switch strategy {
	case StrategyDirect:
		mid = directPath(startAnchor, s1, e1)
	case StrategyZShape:
		mid = zShapePath(startAnchor, s1, e1)
	default:
		mid = uShapePath(start, startAnchor, end, endAnchor, s1, e1)
	}

	pts := make([]core.Point, 0, len(mid)+4)
	pts = append(pts, start, s1)
	pts = append(pts, mid...)
	pts = append(pts, e1, end)
	return Route{Strategy: strategy, Points: Simplify(pts)}
}

// SelectStrategy picks the routing strategy from the anchor pair and the
// exit points.
func SelectStrategy(startAnchor, endAnchor core.Anchor, startExit, endExit core.Point) Strategy {
	if startAnchor.IsHorizontal() != endAnchor.IsHorizontal() {
		return StrategyDirect
	}
	if startAnchor == endAnchor {
		return StrategyUShape
	}
	if Facing(startAnchor, startExit, endExit) {
		return StrategyZShape
	}
	return StrategyUShape
}

// Facing reports whether an exit leaving startAnchor heads toward the
// other exit, i.e. the two ends face each other across the gap.
func Facing(startAnchor core.Anchor, startExit, endExit core.Point) bool {
	switch startAnchor {
	case core.AnchorRight:
		return startExit.X <= endExit.X
	case core.AnchorLeft:
		return startExit.X >= endExit.X
	case core.AnchorBottom:
		return startExit.Y <= endExit.Y
	case core.AnchorTop:
		return startExit.Y >= endExit.Y
	default:
		return false
	}
}

// directPath turns once, continuing along the start exit's axis first.
func directPath(startAnchor core.Anchor, s1, e1 core.Point) []core.Point {
	if startAnchor.IsHorizontal() {
		return []core.Point{{X: e1.X, Y: s1.Y}}
	}
	return []core.Point{{X: s1.X, Y: e1.Y}}
}

// zShapePath crosses over at the midpoint between the exits.
func zShapePath(startAnchor core.Anchor, s1, e1 core.Point) []core.Point {
	if startAnchor.IsHorizontal() {
		midX := (s1.X + e1.X) / 2
		return []core.Point{{X: midX, Y: s1.Y}, {X: midX, Y: e1.Y}}
	}
	midY := (s1.Y + e1.Y) / 2
	return []core.Point{{X: s1.X, Y: midY}, {X: e1.X, Y: midY}}
}

// uShapePath detours outward. Identical anchors loop past the farther end
// along the anchor axis. Opposite anchors that point away from each other
// cross over on the perpendicular axis, between the exits when they are far
// enough apart, otherwise beyond both.
func uShapePath(start core.Point, startAnchor core.Anchor, end core.Point, endAnchor core.Anchor, s1, e1 core.Point) []core.Point {
	d := math.Max(math.Max(loopFactor*math.Abs(end.X-start.X), loopFactor*math.Abs(end.Y-start.Y)), MinLoop)

	if startAnchor == endAnchor {
		switch startAnchor {
		case core.AnchorRight:
			x := math.Max(start.X, end.X) + d
			return []core.Point{{X: x, Y: s1.Y}, {X: x, Y: e1.Y}}
		case core.AnchorLeft:
			x := math.Min(start.X, end.X) - d
			return []core.Point{{X: x, Y: s1.Y}, {X: x, Y: e1.Y}}
		case core.AnchorBottom:
			y := math.Max(start.Y, end.Y) + d
			return []core.Point{{X: s1.X, Y: y}, {X: e1.X, Y: y}}
		default:
			y := math.Min(start.Y, end.Y) - d
			return []core.Point{{X: s1.X, Y: y}, {X: e1.X, Y: y}}
		}
	}

	if startAnchor.IsHorizontal() {
		y := (s1.Y + e1.Y) / 2
		if math.Abs(s1.Y-e1.Y) < MinLoop {
			y = math.Max(s1.Y, e1.Y) + d
		}
		return []core.Point{{X: s1.X, Y: y}, {X: e1.X, Y: y}}
	}
	x := (s1.X + e1.X) / 2
	if math.Abs(s1.X-e1.X) < MinLoop {
		x = math.Max(s1.X, e1.X) + d
	}
	return []core.Point{{X: x, Y: s1.Y}, {X: x, Y: e1.Y}}
}

// Simplify drops repeated points and any intermediate point that shares an
// x or y with both neighbours. The first and last points are kept as-is.
func Simplify(pts []core.Point) []core.Point {
	if len(pts) <= 2 {
		return append([]core.Point(nil), pts...)
	}
	out := []core.Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		p := pts[i]
		if p == out[len(out)-1] {
			continue
		}
		for len(out) >= 2 && collinear(out[len(out)-2], out[len(out)-1], p) {
			out = out[:len(out)-1]
		}
		out = append(out, p)
	}
	if len(out) == 1 {
		out = append(out, pts[len(pts)-1])
	}
	return out
}

func collinear(a, b, c core.Point) bool {
	return (a.X == b.X && b.X == c.X) || (a.Y == b.Y && b.Y == c.Y)
}
