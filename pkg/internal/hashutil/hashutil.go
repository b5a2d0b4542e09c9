// Package hashutil provides shared hash mixing constants and functions for
// the sketching pipeline (shingle finalization, MinHash seed derivation,
// LSH band hashing).
//
// 64-bit mixing uses the splitmix64 finalizer by Vigna (2014); 32-bit
// finalization uses the MurmurHash3 fmix32 avalanche step.
package hashutil

import "hash/fnv"

// Splitmix64 constants from the splitmix64 finalizer by Vigna (2014).
const (
	// BaseSeed is the starting seed for deterministic seed generation.
	BaseSeed = 0x517cc1b727220a95

	// MixShift1 is the first right-shift in the splitmix64 finalizer.
	MixShift1 = 30

	// MixMul1 is the first multiplier in the splitmix64 finalizer.
	MixMul1 = 0xbf58476d1ce4e5b9

	// MixShift2 is the second right-shift in the splitmix64 finalizer.
	MixShift2 = 27

	// MixMul2 is the second multiplier in the splitmix64 finalizer.
	MixMul2 = 0x94d049bb133111eb

	// MixShift3 is the third right-shift in the splitmix64 finalizer.
	MixShift3 = 31

	// splitmix64Increment is the golden-ratio-derived increment
	// used in the Splitmix64 state-advance function.
	splitmix64Increment = 0x9e3779b97f4a7c15
)

// MurmurHash3 fmix32 constants.
const (
	fmix32Shift1 = 16
	fmix32Mul1   = 0x85ebca6b
	fmix32Shift2 = 13
	fmix32Mul2   = 0xc2b2ae35
	fmix32Shift3 = 16
)

// Mix32 applies the fmix32 avalanche finalizer to a 32-bit value.
// It is a pure function of its input: equal inputs always finalize to the
// same output, so identical rolling-hash values collide as the same shingle
// no matter where they were produced.
func Mix32(v uint32) uint32 {
	v ^= v >> fmix32Shift1
	v *= fmix32Mul1
	v ^= v >> fmix32Shift2
	v *= fmix32Mul2
	v ^= v >> fmix32Shift3

	return v
}

// Splitmix64 advances the state by the golden-ratio increment and applies
// the mix64 finalizer. This is a full PRNG step that both advances state
// and produces output.
func Splitmix64(state uint64) uint64 {
	state += splitmix64Increment
	z := state
	z = (z ^ (z >> MixShift1)) * MixMul1
	z = (z ^ (z >> MixShift2)) * MixMul2
	z ^= z >> MixShift3

	return z
}

// MixHash combines a base hash with a seed using XOR and the splitmix64
// finalizer. This produces a deterministic hash variation for a given
// (base, seed) pair.
func MixHash(base, seed uint64) uint64 {
	x := base ^ seed
	x = (x ^ (x >> MixShift1)) * MixMul1
	x = (x ^ (x >> MixShift2)) * MixMul2
	x ^= x >> MixShift3

	return x
}

// FNV64a computes a 64-bit FNV-1a hash of the given data.
func FNV64a(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)

	return h.Sum64()
}

// GenerateSeeds creates n deterministic seeds from the splitmix64 chain.
func GenerateSeeds(n int) []uint64 {
	seeds := make([]uint64, n)
	state := uint64(BaseSeed)

	for i := range n {
		state = Splitmix64(state)
		seeds[i] = state
	}

	return seeds
}
