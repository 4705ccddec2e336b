package anchors

import (
	"math"

	"gesso/core"
	"gesso/geometry"
)

// Scoring constants for Predict.
const (
	SnapRadius      = 25.0  // Direct proximity snap distance
	MinNormalizer   = 100.0 // Floor for the closeness normalizer
	closenessWeight = 50.0
	alignmentWeight = 30.0
	oppositeBonus   = 20.0
)

// Opposite describes the connection end that is not being dragged.
type Opposite struct {
	Point  core.Point
	Anchor core.Anchor // AnchorNone when the other end floats
}

// Prediction is the anchor chosen on a target shape.
type Prediction struct {
	Anchor  core.Anchor
	Point   core.Point
	Snapped bool    // Chosen by direct proximity rather than scoring
	Score   float64 // Zero when Snapped
}

// Predict picks the best anchor on target for a connector end dragged to
// drag, given the other end of the connector.
//
// Any anchor within SnapRadius of the drag point wins outright. Otherwise
// each anchor scores up to 50 points for closeness to the drag point, up to
// 30 for how well its outward direction points back at the other end, and a
// flat 20 when it is the geometric opposite of the other end's anchor. Ties
// keep the earlier anchor in enumeration order.
func Predict(target core.Shape, drag core.Point, other Opposite) Prediction {
	for _, a := range core.Anchors {
		p := Point(target, a)
		if p.Distance(drag) <= SnapRadius {
			return Prediction{Anchor: a, Point: p, Snapped: true}
		}
	}

	norm := math.Max(math.Max(target.Width, target.Height), MinNormalizer)
	best := Prediction{Anchor: core.AnchorTop, Score: math.Inf(-1)}
	for _, a := range core.Anchors {
		p := Point(target, a)
		score := Score(target, a, drag, other, norm)
		if score > best.Score {
			best = Prediction{Anchor: a, Point: p, Score: score}
		}
	}
	return best
}

// Score rates a single anchor. norm is the closeness normalizer.
func Score(target core.Shape, a core.Anchor, drag core.Point, other Opposite, norm float64) float64 {
	p := Point(target, a)

	closeness := 1 - math.Min(p.Distance(drag)/norm, 1)
	score := closenessWeight * closeness

	back := other.Point.Sub(p)
	diff := geometry.AngleBetween(Normal(target, a), back)
	score += alignmentWeight * (1 - diff/math.Pi)

	if other.Anchor.Valid() && other.Anchor.Opposite() == a {
		score += oppositeBonus
	}
	return score
}
