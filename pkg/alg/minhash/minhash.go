// Package minhash generates fixed-length MinHash sketches from feature
// sets and estimates Jaccard similarity between them.
//
// A sketch holds k minima of per-hash-function values derived from one
// base value per feature, mixed with k deterministic splitmix64 seeds.
// The estimated Jaccard index of two sets is the fraction of positions
// where their sketches agree. Signatures are partitioned into equal
// groups; bounded estimation walks the groups in order and short-circuits
// once the remaining positions cannot move the verdict across the
// requested similarity threshold.
package minhash

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/Sumatoshi-tech/treesketch/pkg/internal/hashutil"
	"github.com/Sumatoshi-tech/treesketch/pkg/safeconv"
)

const (
	// HeaderSize is the number of bytes for the numHashes uint32 in serialization.
	HeaderSize = 4

	// BytesPerHash is the number of bytes per uint64 hash value in serialization.
	BytesPerHash = 8
)

var (
	// ErrZeroNumHashes is returned when numHashes is not positive.
	ErrZeroNumHashes = errors.New("minhash: numHashes must be positive")

	// ErrZeroNumGroups is returned when numGroups is not positive.
	ErrZeroNumGroups = errors.New("minhash: numGroups must be positive")

	// ErrGroupMismatch is returned when numHashes is not divisible by numGroups.
	ErrGroupMismatch = errors.New("minhash: numHashes must be divisible by numGroups")

	// ErrNilSignature is returned when a nil signature is provided.
	ErrNilSignature = errors.New("minhash: signature must not be nil")

	// ErrSizeMismatch is returned when comparing signatures of different shapes.
	ErrSizeMismatch = errors.New("minhash: signature sizes do not match")

	// ErrInvalidData is returned when deserialization data is invalid.
	ErrInvalidData = errors.New("minhash: invalid serialized data")
)

// Signature is an immutable MinHash sketch. Once generated it is safe for
// concurrent reads.
type Signature struct {
	values []uint64
	groups int
}

// validateShape checks the numHashes/numGroups pair.
func validateShape(numHashes, numGroups int) error {
	if numHashes <= 0 {
		return ErrZeroNumHashes
	}

	if numGroups <= 0 {
		return ErrZeroNumGroups
	}

	if numHashes%numGroups != 0 {
		return ErrGroupMismatch
	}

	return nil
}

// Generate computes the sketch of a feature set. An empty feature set
// yields all-maximum sentinel values. The same feature set always produces
// the same sketch regardless of feature order.
func Generate(features []uint32, numHashes, numGroups int) (*Signature, error) {
	err := validateShape(numHashes, numGroups)
	if err != nil {
		return nil, err
	}

	values := make([]uint64, numHashes)
	for i := range values {
		values[i] = math.MaxUint64
	}

	seeds := hashutil.GenerateSeeds(numHashes)

	for _, f := range features {
		base := uint64(f)

		for i, seed := range seeds {
			h := hashutil.MixHash(base, seed)
			if h < values[i] {
				values[i] = h
			}
		}
	}

	return &Signature{values: values, groups: numGroups}, nil
}

// FromValues wraps externally held sketch values (for example, loaded from
// a report) into a Signature. The slice is copied.
func FromValues(values []uint64, numGroups int) (*Signature, error) {
	err := validateShape(len(values), numGroups)
	if err != nil {
		return nil, err
	}

	copied := make([]uint64, len(values))
	copy(copied, values)

	return &Signature{values: copied, groups: numGroups}, nil
}

// Values returns a copy of the sketch values.
func (s *Signature) Values() []uint64 {
	out := make([]uint64, len(s.values))
	copy(out, s.values)

	return out
}

// Len returns the number of hash functions in the signature.
func (s *Signature) Len() int {
	return len(s.values)
}

// Groups returns the number of estimation groups.
func (s *Signature) Groups() int {
	return s.groups
}

// Estimate returns the estimated Jaccard index between this signature and
// another: the fraction of positions holding equal values.
func (s *Signature) Estimate(other *Signature) (float64, error) {
	if other == nil {
		return 0, ErrNilSignature
	}

	if len(s.values) != len(other.values) {
		return 0, ErrSizeMismatch
	}

	matches := 0

	for i := range s.values {
		if s.values[i] == other.values[i] {
			matches++
		}
	}

	return float64(matches) / float64(len(s.values)), nil
}

// EstimateBounded estimates similarity group by group and short-circuits
// to exactly 0.0 or 1.0 as soon as the final match fraction is provably on
// one side of threshold, with tolerance as safety margin: 0.0 when even
// counting all unexamined positions as matches stays below
// threshold - tolerance, and 1.0 when the matches already seen put the
// fraction at or above threshold + tolerance.
func (s *Signature) EstimateBounded(other *Signature, threshold, tolerance float64) (float64, error) {
	if other == nil {
		return 0, ErrNilSignature
	}

	if len(s.values) != len(other.values) || s.groups != other.groups {
		return 0, ErrSizeMismatch
	}

	total := len(s.values)
	groupSize := total / s.groups
	matches := 0

	for g := 0; g < s.groups; g++ {
		start := g * groupSize
		for i := start; i < start+groupSize; i++ {
			if s.values[i] == other.values[i] {
				matches++
			}
		}

		examined := start + groupSize
		upper := float64(matches+total-examined) / float64(total)
		lower := float64(matches) / float64(total)

		if upper < threshold-tolerance {
			return 0.0, nil
		}

		if lower >= threshold+tolerance {
			return 1.0, nil
		}
	}

	return float64(matches) / float64(total), nil
}

// Bytes serializes the signature to a compact binary format.
// Format: [numHashes as uint32 big-endian (4 bytes)] + [values as []uint64 big-endian].
func (s *Signature) Bytes() []byte {
	data := make([]byte, HeaderSize+len(s.values)*BytesPerHash)
	binary.BigEndian.PutUint32(data[:HeaderSize], safeconv.MustIntToUint32(len(s.values)))

	for i, v := range s.values {
		offset := HeaderSize + i*BytesPerHash
		binary.BigEndian.PutUint64(data[offset:offset+BytesPerHash], v)
	}

	return data
}

// FromBytes reconstructs a signature serialized by Bytes.
func FromBytes(data []byte, numGroups int) (*Signature, error) {
	if len(data) < HeaderSize {
		return nil, ErrInvalidData
	}

	numHashes := int(binary.BigEndian.Uint32(data[:HeaderSize]))
	if len(data) != HeaderSize+numHashes*BytesPerHash {
		return nil, ErrInvalidData
	}

	err := validateShape(numHashes, numGroups)
	if err != nil {
		return nil, err
	}

	values := make([]uint64, numHashes)
	for i := range values {
		offset := HeaderSize + i*BytesPerHash
		values[i] = binary.BigEndian.Uint64(data[offset : offset+BytesPerHash])
	}

	return &Signature{values: values, groups: numGroups}, nil
}
