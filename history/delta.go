package history

import (
	"reflect"
	"slices"
)

// Placed is an item together with its index in the collection it was
// added to or removed from.
type Placed[T any] struct {
	Index int `json:"index"`
	Value T   `json:"value"`
}

// Change is an item whose fields changed in place.
type Change[T any] struct {
	ID     string `json:"id"`
	Before T      `json:"before"`
	After  T      `json:"after"`
}

// Delta records how one collection changed.
type Delta[T any] struct {
	Added    []Placed[T] `json:"added,omitempty"`
	Removed  []Placed[T] `json:"removed,omitempty"`
	Modified []Change[T] `json:"modified,omitempty"`
}

// Empty reports whether the delta changes nothing.
func (d Delta[T]) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// Diff compares two versions of a collection keyed by id. When the items
// present in both are reordered, they are recorded as removed and re-added
// so replaying the delta restores the exact order.
func Diff[T any](before, after []T, id func(T) string) Delta[T] {
	var d Delta[T]

	beforeIdx := make(map[string]int, len(before))
	for i, v := range before {
		beforeIdx[id(v)] = i
	}
	afterIdx := make(map[string]int, len(after))
	for i, v := range after {
		afterIdx[id(v)] = i
	}

	var commonBefore, commonAfter []string
	for _, v := range before {
		if _, ok := afterIdx[id(v)]; ok {
			commonBefore = append(commonBefore, id(v))
		}
	}
	for _, v := range after {
		if _, ok := beforeIdx[id(v)]; ok {
			commonAfter = append(commonAfter, id(v))
		}
	}
	reordered := !slices.Equal(commonBefore, commonAfter)

	for i, v := range before {
		_, kept := afterIdx[id(v)]
		if !kept || reordered {
			d.Removed = append(d.Removed, Placed[T]{Index: i, Value: v})
		}
	}
	for i, v := range after {
		j, existed := beforeIdx[id(v)]
		switch {
		case !existed || reordered:
			d.Added = append(d.Added, Placed[T]{Index: i, Value: v})
		case !reflect.DeepEqual(before[j], v):
			d.Modified = append(d.Modified, Change[T]{ID: id(v), Before: before[j], After: v})
		}
	}
	return d
}

// Revert applies the delta backwards to current.
func (d Delta[T]) Revert(current []T, id func(T) string) []T {
	return replay(current, id, d.Added, d.Removed, d.Modified, func(c Change[T]) T { return c.Before })
}

// Replay applies the delta forwards to current.
func (d Delta[T]) Replay(current []T, id func(T) string) []T {
	return replay(current, id, d.Removed, d.Added, d.Modified, func(c Change[T]) T { return c.After })
}

// replay drops the drop set, overwrites changed items and inserts the
// insert set at its recorded indexes, always into a fresh slice.
func replay[T any](current []T, id func(T) string, drop, insert []Placed[T], changes []Change[T], pick func(Change[T]) T) []T {
	dropped := make(map[string]bool, len(drop))
	for _, p := range drop {
		dropped[id(p.Value)] = true
	}
	changed := make(map[string]T, len(changes))
	for _, c := range changes {
		changed[c.ID] = pick(c)
	}

	out := make([]T, 0, len(current)+len(insert))
	for _, v := range current {
		if dropped[id(v)] {
			continue
		}
		if nv, ok := changed[id(v)]; ok {
			v = nv
		}
		out = append(out, v)
	}

	ordered := slices.Clone(insert)
	slices.SortStableFunc(ordered, func(a, b Placed[T]) int { return a.Index - b.Index })
	for _, p := range ordered {
		i := min(max(p.Index, 0), len(out))
		out = slices.Insert(out, i, p.Value)
	}
	return out
}
