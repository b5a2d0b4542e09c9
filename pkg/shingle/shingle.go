// Package shingle turns canonical node strings into 32-bit k-shingle
// hashes using a Rabin–Karp rolling polynomial hash with an avalanche
// finalizer, and accumulates them into a frequency-filtered feature set.
package shingle

import (
	"errors"
	"slices"

	"github.com/Sumatoshi-tech/treesketch/pkg/internal/hashutil"
)

// Rolling hash parameters. Base must exceed the byte alphabet; the modulus
// is the Mersenne prime 2^31 - 1, keeping every intermediate product well
// inside uint64 range.
const (
	Base    = 257
	Modulus = 2147483647
)

// ErrInvalidSize is returned when the shingle length is less than one.
var ErrInvalidSize = errors.New("shingle: size must be at least 1")

// Hasher computes the k-shingle hashes of strings. A Hasher is immutable
// and safe for concurrent use.
type Hasher struct {
	k      int
	outPow uint64 // Base^(k-1) mod Modulus, the outgoing byte's weight.
}

// NewHasher creates a Hasher for k-length shingles.
func NewHasher(k int) (*Hasher, error) {
	if k < 1 {
		return nil, ErrInvalidSize
	}

	outPow := uint64(1)
	for range k - 1 {
		outPow = outPow * Base % Modulus
	}

	return &Hasher{k: k, outPow: outPow}, nil
}

// Size returns the shingle length k.
func (h *Hasher) Size() int {
	return h.k
}

// Each calls emit with the finalized hash of every k-length window of s:
// nothing for an empty string, one degenerate whole-string shingle when
// 0 < len(s) < k, and exactly len(s)-k+1 window hashes otherwise. The
// finalizer depends only on the rolled polynomial value, so equal windows
// from different strings always collide as the same shingle.
func (h *Hasher) Each(s string, emit func(uint32)) {
	if len(s) == 0 {
		return
	}

	if len(s) < h.k {
		emit(finalize(polynomial(s)))

		return
	}

	rolled := polynomial(s[:h.k])
	emit(finalize(rolled))

	for i := h.k; i < len(s); i++ {
		out := uint64(s[i-h.k])
		in := uint64(s[i])

		rolled = (rolled + Modulus - out*h.outPow%Modulus) % Modulus
		rolled = (rolled*Base + in) % Modulus

		emit(finalize(rolled))
	}
}

// Set returns the deduplicated shingle hashes of s in ascending order.
// A window repeated within one string counts once, which keeps memoized
// replay exactly equivalent to direct extraction.
func (h *Hasher) Set(s string) []uint32 {
	var hashes []uint32

	h.Each(s, func(v uint32) {
		hashes = append(hashes, v)
	})

	slices.Sort(hashes)

	return slices.Compact(hashes)
}

// polynomial computes the full polynomial hash of s:
// Σ s[i] · Base^(len-1-i) mod Modulus.
func polynomial(s string) uint64 {
	var acc uint64
	for i := range len(s) {
		acc = (acc*Base + uint64(s[i])) % Modulus
	}

	return acc
}

// finalize applies the 32-bit avalanche step to a rolled hash value.
func finalize(rolled uint64) uint32 {
	return hashutil.Mix32(uint32(rolled))
}
