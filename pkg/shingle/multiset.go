package shingle

import "slices"

// Multiset counts shingle occurrences across a whole document. One entry is
// recorded per (canonical string occurrence, distinct shingle) pair.
type Multiset struct {
	counts map[uint32]uint32
}

// NewMultiset creates an empty multiset.
func NewMultiset() *Multiset {
	return &Multiset{counts: make(map[uint32]uint32)}
}

// AddSet records one occurrence of every hash in the set.
func (m *Multiset) AddSet(hashes []uint32) {
	for _, h := range hashes {
		m.counts[h]++
	}
}

// Count returns the recorded occurrence count for a hash.
func (m *Multiset) Count(h uint32) uint32 {
	return m.counts[h]
}

// Len returns the number of distinct hashes recorded.
func (m *Multiset) Len() int {
	return len(m.counts)
}

// Filter returns every hash whose occurrence count is at least threshold,
// in ascending order. A threshold of 1 (or lower) keeps every observed
// hash, so a caller holding only set membership gets identical results.
func (m *Multiset) Filter(threshold uint32) []uint32 {
	result := make([]uint32, 0, len(m.counts))

	for h, c := range m.counts {
		if c >= threshold {
			result = append(result, h)
		}
	}

	slices.Sort(result)

	return result
}
