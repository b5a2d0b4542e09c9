// Package mapx provides generic map operations: set construction and
// sorted-key extraction for deterministic iteration.
package mapx

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in sorted order.
// Returns nil for a nil map.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	if m == nil {
		return nil
	}

	keys := make([]K, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// SetOf builds a membership set from the given elements.
// Returns nil for an empty input so callers can cheaply test `m == nil`.
func SetOf[K comparable](elems []K) map[K]struct{} {
	if len(elems) == 0 {
		return nil
	}

	set := make(map[K]struct{}, len(elems))

	for _, e := range elems {
		set[e] = struct{}{}
	}

	return set
}
