package document

import (
	"gesso/idgen"
)

// IDs generates ids for objects loaded without one.
type IDs struct {
	Shape      func() string
	Connection func() string
	Waypoint   func() string
	Group      func() string
}

// DefaultIDs returns nanoid-backed generators.
func DefaultIDs() IDs {
	return IDs{
		Shape:      idgen.Func(idgen.PrefixShape),
		Connection: idgen.Func(idgen.PrefixConnection),
		Waypoint:   idgen.Func(idgen.PrefixWaypoint),
		Group:      idgen.Func(idgen.PrefixGroup),
	}
}

func (ids *IDs) defaults() {
	def := DefaultIDs()
	if ids.Shape == nil {
		ids.Shape = def.Shape
	}
	if ids.Connection == nil {
		ids.Connection = def.Connection
	}
	if ids.Waypoint == nil {
		ids.Waypoint = def.Waypoint
	}
	if ids.Group == nil {
		ids.Group = def.Group
	}
}

// EnsureIDs assigns ids to shapes, connections, groups and waypoints that
// have none. Duplicate connection, group and waypoint ids are reassigned
// after their first use. Duplicate shape ids are left for Validate to
// report, since connections may refer to either shape. It returns the
// number of ids assigned.
func EnsureIDs(d *Document, ids IDs) int {
	if d == nil {
		return 0
	}
	ids.defaults()
	assigned := 0

	for i := range d.Shapes {
		if d.Shapes[i].ID == "" {
			d.Shapes[i].ID = ids.Shape()
			assigned++
		}
	}

	used := make(map[string]bool)
	for i := range d.Connections {
		c := &d.Connections[i]
		if c.ID == "" || used[c.ID] {
			c.ID = ids.Connection()
			assigned++
		}
		used[c.ID] = true

		seen := make(map[string]bool)
		for j := range c.Waypoints {
			wp := &c.Waypoints[j]
			if wp.ID == "" || seen[wp.ID] {
				wp.ID = ids.Waypoint()
				assigned++
			}
			seen[wp.ID] = true
		}
	}

	used = make(map[string]bool)
	for i := range d.Groups {
		g := &d.Groups[i]
		if g.ID == "" || used[g.ID] {
			g.ID = ids.Group()
			assigned++
		}
		used[g.ID] = true
	}
	return assigned
}
