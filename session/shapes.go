package session

import (
	"fmt"

	"gesso/core"
	"gesso/geometry"
	"gesso/history"
	"gesso/transform"
)

func (s *Session) beginShapes() error {
	if len(s.spec.TargetIDs) == 0 {
		return fmt.Errorf("session: %s: no shapes: %w", s.spec.Kind, ErrNoTarget)
	}
	byID := make(map[string]core.Shape, len(s.before.Shapes))
	for _, sh := range s.before.Shapes {
		byID[sh.ID] = sh
	}
	for _, id := range s.spec.TargetIDs {
		sh, ok := byID[id]
		if !ok {
			return fmt.Errorf("session: shape %q: %w", id, ErrNoTarget)
		}
		s.members = append(s.members, sh)
	}
	s.members = transform.Snapshot(s.members)

	s.manip.TargetID = s.spec.TargetIDs[0]
	switch s.spec.Kind {
	case KindResize, KindRotate:
		s.members = s.members[:1]
		s.manip.StartBounds = s.members[0].Bounds()
		s.manip.StartRotation = s.members[0].Rotation
	default:
		s.manip.StartBounds = transform.GroupBounds(s.members)
	}
	s.manip.AspectRatio = s.manip.StartBounds.AspectRatio()
	return nil
}

func (s *Session) resizeOptions(mods Modifiers) transform.ResizeOptions {
	return transform.ResizeOptions{
		MaintainAspectRatio: mods.Shift,
		ResizeFromCenter:    mods.Alt,
		OriginalAspectRatio: s.manip.AspectRatio,
		MinSize:             s.opts.MinSize,
	}
}

func (s *Session) snapIncrement(mods Modifiers) float64 {
	if mods.Shift {
		return s.opts.SnapIncrement
	}
	return 0
}

func (s *Session) updateShapes(delta core.Point, mods Modifiers) history.State {
	var updated []core.Shape
	switch s.spec.Kind {
	case KindMove:
		updated = transform.MoveShapes(s.members, delta, mods.Shift)

	case KindResize:
		b := transform.Resize(s.manip.StartBounds, s.spec.Handle, delta, s.resizeOptions(mods))
		updated = []core.Shape{s.members[0].WithBounds(b)}

	case KindRotate:
		angle := transform.RotationDelta(s.manip.StartBounds.Center(), s.spec.Start, s.spec.Start.Add(delta))
		sh := s.members[0]
		sh.Rotation = transform.RotateBy(s.manip.StartRotation, angle, s.snapIncrement(mods))
		updated = []core.Shape{sh}

	case KindGroupResize:
		updated, _ = transform.ResizeGroup(s.members, s.spec.Handle, delta, s.resizeOptions(mods))

	case KindGroupRotate:
		angle := transform.RotationDelta(s.manip.StartBounds.Center(), s.spec.Start, s.spec.Start.Add(delta))
		updated = transform.RotateGroup(s.members, geometry.SnapAngle(angle, s.snapIncrement(mods)))
	}

	next := s.before.Clone()
	next.Shapes = replaceShapes(next.Shapes, updated)
	return next
}

// replaceShapes swaps in updated shapes by id, building one new slice so
// the whole collection changes at once.
func replaceShapes(shapes, updated []core.Shape) []core.Shape {
	byID := make(map[string]core.Shape, len(updated))
	for _, u := range updated {
		byID[u.ID] = u
	}
	out := make([]core.Shape, len(shapes))
	for i, sh := range shapes {
		if u, ok := byID[sh.ID]; ok {
			sh = u
		}
		out[i] = sh
	}
	return out
}
