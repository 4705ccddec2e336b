package paths

import (
	"sort"

	"gesso/core"
	"gesso/geometry"
)

// WaypointPoint returns the absolute position of wp: the baseline point at
// wp.T plus wp.Offset.
func WaypointPoint(start, end core.Point, wp core.Waypoint) core.Point {
	return start.Lerp(end, wp.T).Add(wp.Offset)
}

// SortWaypoints returns a copy of wps ordered by T.
func SortWaypoints(wps []core.Waypoint) []core.Waypoint {
	out := append([]core.Waypoint(nil), wps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}

// Straight returns the polyline from start through the waypoints (in T
// order) to end. With no waypoints it is the direct segment.
func Straight(start, end core.Point, wps []core.Waypoint) Polyline {
	pts := make([]core.Point, 0, len(wps)+2)
	pts = append(pts, start)
	for _, wp := range SortWaypoints(wps) {
		pts = append(pts, WaypointPoint(start, end, wp))
	}
	pts = append(pts, end)
	return NewPolyline(pts...)
}

// NewWaypoint stores canvas point p relative to the current baseline.
func NewWaypoint(start, end, p core.Point, id string) core.Waypoint {
	return waypointBetween(start, end, p, id, 0, 1)
}

func waypointBetween(start, end, p core.Point, id string, lo, hi float64) core.Waypoint {
	_, t := geometry.ProjectOntoSegment(p, start, end)
	t = geometry.Clamp(t, lo, hi)
	return core.Waypoint{ID: id, T: t, Offset: p.Sub(start.Lerp(end, t))}
}

// InsertWaypoint adds a waypoint at canvas point p into the segment of the
// current path nearest to p. The new waypoint's T is kept between its
// neighbours' so the T order matches the path order. It returns the new
// sorted list and the index of the inserted waypoint.
func InsertWaypoint(start, end core.Point, existing []core.Waypoint, p core.Point, id string) ([]core.Waypoint, int) {
	sorted := SortWaypoints(existing)
	idx := Straight(start, end, sorted).Segment(p)

	lo, hi := 0.0, 1.0
	if idx > 0 {
		lo = sorted[idx-1].T
	}
	if idx < len(sorted) {
		hi = sorted[idx].T
	}
	wp := waypointBetween(start, end, p, id, lo, hi)

	out := make([]core.Waypoint, 0, len(sorted)+1)
	out = append(out, sorted[:idx]...)
	out = append(out, wp)
	out = append(out, sorted[idx:]...)
	return out, idx
}

// MoveWaypoint re-stores waypoint id at canvas point p, keeping it between
// its neighbours. Unknown ids return the list unchanged.
func MoveWaypoint(start, end core.Point, wps []core.Waypoint, id string, p core.Point) []core.Waypoint {
	sorted := SortWaypoints(wps)
	for i, wp := range sorted {
		if wp.ID != id {
			continue
		}
		lo, hi := 0.0, 1.0
		if i > 0 {
			lo = sorted[i-1].T
		}
		if i < len(sorted)-1 {
			hi = sorted[i+1].T
		}
		sorted[i] = waypointBetween(start, end, p, id, lo, hi)
		return sorted
	}
	return sorted
}

// RemoveWaypoint drops waypoint id.
func RemoveWaypoint(wps []core.Waypoint, id string) []core.Waypoint {
	out := make([]core.Waypoint, 0, len(wps))
	for _, wp := range wps {
		if wp.ID != id {
			out = append(out, wp)
		}
	}
	return out
}
