// Package groups manages named sets of shapes. Groups nest through
// ParentGroupID; every function returns a new slice and leaves its input
// untouched.
package groups

import (
	"slices"

	"gesso/core"
)

// MinMembers is the smallest group that can be created.
const MinMembers = 2

// Create groups memberIDs under id. Duplicate ids are ignored. Existing
// top-level groups whose members are all included become children of the
// new group. It reports false, creating nothing, when fewer than
// MinMembers distinct members are given or id is already taken.
func Create(groups []core.Group, memberIDs []string, id string) ([]core.Group, core.Group, bool) {
	members := dedupe(memberIDs)
	if len(members) < MinMembers || id == "" {
		return groups, core.Group{}, false
	}
	if _, taken := Find(groups, id); taken {
		return groups, core.Group{}, false
	}

	g := core.Group{ID: id, MemberIDs: members}
	out := make([]core.Group, 0, len(groups)+1)
	for _, existing := range groups {
		existing = existing.Clone()
		if existing.ParentGroupID == "" && containsAll(members, Members(groups, existing.ID)) {
			existing.ParentGroupID = id
		}
		out = append(out, existing)
	}
	out = append(out, g)
	return out, g, true
}

// Ungroup removes group id and clears its children's parent link.
func Ungroup(groups []core.Group, id string) ([]core.Group, bool) {
	if _, ok := Find(groups, id); !ok {
		return groups, false
	}
	out := make([]core.Group, 0, len(groups)-1)
	for _, g := range groups {
		if g.ID == id {
			continue
		}
		g = g.Clone()
		if g.ParentGroupID == id {
			g.ParentGroupID = ""
		}
		out = append(out, g)
	}
	return out, true
}

// Find returns group id.
func Find(groups []core.Group, id string) (core.Group, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return core.Group{}, false
}

// Children returns the groups nested directly under id.
func Children(groups []core.Group, id string) []core.Group {
	var out []core.Group
	for _, g := range groups {
		if g.ParentGroupID == id {
			out = append(out, g)
		}
	}
	return out
}

// Members returns every shape id in group id, including nested groups'.
func Members(groups []core.Group, id string) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(gid string, depth int)
	walk = func(gid string, depth int) {
		// guard against parent cycles in hand-edited documents
		if depth > len(groups) {
			return
		}
		g, ok := Find(groups, gid)
		if !ok {
			return
		}
		for _, m := range g.MemberIDs {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
		for _, child := range Children(groups, gid) {
			walk(child.ID, depth+1)
		}
	}
	walk(id, 0)
	return out
}

// GroupOf returns the innermost group containing shapeID.
func GroupOf(groups []core.Group, shapeID string) (core.Group, bool) {
	var best core.Group
	bestDepth := -1
	for _, g := range groups {
		if !g.Has(shapeID) {
			continue
		}
		if d := depth(groups, g); d > bestDepth {
			best, bestDepth = g, d
		}
	}
	return best, bestDepth >= 0
}

// Top returns the outermost group containing shapeID. Selecting a grouped
// shape selects this group.
func Top(groups []core.Group, shapeID string) (core.Group, bool) {
	g, ok := GroupOf(groups, shapeID)
	if !ok {
		return core.Group{}, false
	}
	for i := 0; g.ParentGroupID != "" && i < len(groups); i++ {
		parent, ok := Find(groups, g.ParentGroupID)
		if !ok {
			break
		}
		g = parent
	}
	return g, true
}

// Tag returns shapes with GroupID set to each shape's innermost group, or
// cleared when it belongs to none.
func Tag(shapes []core.Shape, groups []core.Group) []core.Shape {
	out := make([]core.Shape, len(shapes))
	for i, s := range shapes {
		s.GroupID = ""
		if g, ok := GroupOf(groups, s.ID); ok {
			s.GroupID = g.ID
		}
		out[i] = s
	}
	return out
}

func depth(groups []core.Group, g core.Group) int {
	d := 0
	for g.ParentGroupID != "" && d < len(groups) {
		parent, ok := Find(groups, g.ParentGroupID)
		if !ok {
			break
		}
		g = parent
		d++
	}
	return d
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func containsAll(set, ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !slices.Contains(set, id) {
			return false
		}
	}
	return true
}
