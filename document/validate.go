package document

import (
	"errors"
	"fmt"

	"gesso/groups"
)

// Validate checks that d has a consistent structure.
func Validate(d *Document) error {
	// Check for duplicate shape IDs
	shapeIDs := make(map[string]bool)
	for _, s := range d.Shapes {
		if s.ID == "" {
			return errors.New("shape without id")
		}
		if shapeIDs[s.ID] {
			return fmt.Errorf("duplicate shape ID: %s", s.ID)
		}
		shapeIDs[s.ID] = true
		if s.Width < 0 || s.Height < 0 {
			return fmt.Errorf("shape %s has negative size", s.ID)
		}
	}

	// Check that connections reference valid shapes
	connIDs := make(map[string]bool)
	for _, c := range d.Connections {
		if connIDs[c.ID] {
			return fmt.Errorf("duplicate connection ID: %s", c.ID)
		}
		connIDs[c.ID] = true
		if c.Start.IsAttached() && !shapeIDs[c.Start.ShapeID] {
			return fmt.Errorf("connection %s references non-existent start shape: %s", c.ID, c.Start.ShapeID)
		}
		if c.End.IsAttached() && !shapeIDs[c.End.ShapeID] {
			return fmt.Errorf("connection %s references non-existent end shape: %s", c.ID, c.End.ShapeID)
		}
		for _, wp := range c.Waypoints {
			if wp.T < 0 || wp.T > 1 {
				return fmt.Errorf("connection %s waypoint %s: t %v outside [0,1]", c.ID, wp.ID, wp.T)
			}
		}
		if c.LabelPosition < 0 || c.LabelPosition > 1 {
			return fmt.Errorf("connection %s: label position %v outside [0,1]", c.ID, c.LabelPosition)
		}
	}

	groupIDs := make(map[string]bool)
	for _, g := range d.Groups {
		if groupIDs[g.ID] {
			return fmt.Errorf("duplicate group ID: %s", g.ID)
		}
		groupIDs[g.ID] = true
		if len(g.MemberIDs) < groups.MinMembers {
			return fmt.Errorf("group %s has %d members, need at least %d", g.ID, len(g.MemberIDs), groups.MinMembers)
		}
		for _, m := range g.MemberIDs {
			if !shapeIDs[m] {
				return fmt.Errorf("group %s references non-existent shape: %s", g.ID, m)
			}
		}
	}
	for _, g := range d.Groups {
		if g.ParentGroupID != "" && !groupIDs[g.ParentGroupID] {
			return fmt.Errorf("group %s references non-existent parent: %s", g.ID, g.ParentGroupID)
		}
	}

	return nil
}
