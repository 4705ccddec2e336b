package session

import (
	"fmt"

	"gesso/anchors"
	"gesso/core"
	"gesso/history"
	"gesso/hittest"
	"gesso/paths"
)

func (s *Session) beginConnection() error {
	if len(s.spec.TargetIDs) == 0 {
		return fmt.Errorf("session: %s: no connection: %w", s.spec.Kind, ErrNoTarget)
	}
	id := s.spec.TargetIDs[0]
	found := false
	for _, c := range s.before.Connections {
		if c.ID == id {
			s.conn = c.Clone()
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("session: connection %q: %w", id, ErrNoTarget)
	}
	s.manip.TargetID = id

	if s.spec.Kind == KindEndpoint {
		return nil
	}
	ep, ok := anchors.ResolveEndpoints(s.conn, s.lookup())
	if !ok {
		return fmt.Errorf("session: connection %q has a missing shape: %w", id, ErrNoTarget)
	}
	s.manip.StartBounds = paths.Build(s.conn, ep).Bounds()

	if s.spec.Kind == KindWaypoint && s.spec.WaypointID == "" {
		wps, idx := paths.InsertWaypoint(ep.Start, ep.End, s.conn.Waypoints, s.spec.Start, s.opts.NewWaypointID())
		s.conn.Waypoints = wps
		s.spec.WaypointID = wps[idx].ID
	}
	return nil
}

func (s *Session) lookup() anchors.ShapeMap {
	return anchors.NewShapeMap(s.before.Shapes)
}

// WaypointID returns the waypoint a waypoint session is dragging, including
// one inserted at Begin.
func (s *Session) WaypointID() string {
	return s.spec.WaypointID
}

func (s *Session) updateConnection(p core.Point) history.State {
	conn := s.conn.Clone()
	lookup := s.lookup()

	switch s.spec.Kind {
	case KindEndpoint:
		other := conn.End
		if s.spec.Side == SideEnd {
			other = conn.Start
		}
		moved := s.retarget(p, s.opposite(other, lookup))
		if s.spec.Side == SideEnd {
			conn.End = moved
		} else {
			conn.Start = moved
		}

	case KindWaypoint:
		if ep, ok := anchors.ResolveEndpoints(s.conn, lookup); ok {
			conn.Waypoints = paths.MoveWaypoint(ep.Start, ep.End, s.conn.Waypoints, s.spec.WaypointID, p)
		}

	case KindControlPoint:
		if ep, ok := anchors.ResolveEndpoints(s.conn, lookup); ok {
			conn.ControlPoints = paths.SetControlPoint(ep, s.conn.ControlPoints, s.spec.Control, p)
		}

	case KindLabel:
		delta := p.Sub(s.spec.Start)
		if delta == (core.Point{}) {
			break
		}
		if curve, _, ok := paths.ForConnection(s.conn, lookup); ok {
			conn.LabelPosition = paths.DragLabel(curve, paths.LabelPoint(curve, s.conn).Add(delta))
		}
	}

	next := s.before.Clone()
	for i, c := range next.Connections {
		if c.ID == conn.ID {
			next.Connections[i] = conn
		}
	}
	return next
}

func (s *Session) opposite(e core.Endpoint, lookup anchors.ShapeLookup) anchors.Opposite {
	if !e.IsAttached() {
		return anchors.Opposite{Point: e.Point, Anchor: core.AnchorNone}
	}
	sh, ok := lookup.Shape(e.ShapeID)
	if !ok {
		return anchors.Opposite{Point: e.Point, Anchor: core.AnchorNone}
	}
	return anchors.Opposite{Point: anchors.Point(sh, e.Anchor), Anchor: e.Anchor}
}

// retarget attaches the dragged end to the shape under p, or to a shape
// with an anchor within the snap radius, choosing the anchor with the
// predictor. Elsewhere the end floats at p.
func (s *Session) retarget(p core.Point, other anchors.Opposite) core.Endpoint {
	target, ok := hittest.ShapeAt(s.before.Shapes, p)
	if !ok {
		target, ok = s.nearbyShape(p)
	}
	if !ok {
		return core.Floating(p)
	}
	pred := anchors.Predict(target, p, other)
	return core.Attached(target.ID, pred.Anchor)
}

func (s *Session) nearbyShape(p core.Point) (core.Shape, bool) {
	radius := s.opts.SnapRadius
	if radius <= 0 {
		radius = anchors.SnapRadius
	}
	radius /= s.opts.Zoom

	var best core.Shape
	bestDist := radius
	found := false
	for _, sh := range s.before.Shapes {
		if sh.Hidden {
			continue
		}
		if _, d := anchors.Nearest(sh, p); d <= bestDist {
			best, bestDist, found = sh, d, true
		}
	}
	return best, found
}
