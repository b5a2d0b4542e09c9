// Package lsh provides a banded Locality-Sensitive Hashing index over
// MinHash sketches for approximate-nearest-neighbor retrieval.
//
// Signatures are split into numBands bands of numRows values; sketches
// sharing at least one band hash become mutual candidates. This replaces
// O(N^2) pairwise comparison with O(N) indexing and sublinear candidate
// retrieval. More bands lower the effective similarity threshold for
// candidacy.
package lsh

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/Sumatoshi-tech/treesketch/pkg/alg/minhash"
)

// bytesPerUint64 is the size of one signature value in band hashing.
const bytesPerUint64 = 8

var (
	// ErrInvalidParams is returned when numBands or numRows is not positive.
	ErrInvalidParams = errors.New("lsh: numBands and numRows must be positive")

	// ErrNilSignature is returned when a nil signature is provided.
	ErrNilSignature = errors.New("lsh: signature must not be nil")

	// ErrSizeMismatch is returned when signature size does not match numBands * numRows.
	ErrSizeMismatch = errors.New("lsh: signature size must equal numBands * numRows")
)

// Index is a thread-safe LSH index over MinHash sketches.
type Index struct {
	mu       sync.RWMutex
	numBands int
	numRows  int
	buckets  []map[uint64][]string
	sigs     map[string]*minhash.Signature
}

// Pair is one near-duplicate candidate pair with its estimated similarity.
// A is lexicographically smaller than B.
type Pair struct {
	A          string
	B          string
	Similarity float64
}

// New creates an LSH index expecting signatures of numBands * numRows values.
func New(numBands, numRows int) (*Index, error) {
	if numBands <= 0 || numRows <= 0 {
		return nil, ErrInvalidParams
	}

	buckets := make([]map[uint64][]string, numBands)
	for i := range buckets {
		buckets[i] = make(map[uint64][]string)
	}

	return &Index{
		numBands: numBands,
		numRows:  numRows,
		buckets:  buckets,
		sigs:     make(map[string]*minhash.Signature),
	}, nil
}

// Len returns the number of indexed signatures.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.sigs)
}

// Insert adds a signature under the given identifier, replacing any
// previous signature with the same id.
func (idx *Index) Insert(id string, sig *minhash.Signature) error {
	if sig == nil {
		return ErrNilSignature
	}

	if sig.Len() != idx.numBands*idx.numRows {
		return ErrSizeMismatch
	}

	hashes := idx.bandHashes(sig)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, exists := idx.sigs[id]; exists {
		idx.removeLocked(id, old)
	}

	idx.sigs[id] = sig

	for band, h := range hashes {
		idx.buckets[band][h] = append(idx.buckets[band][h], id)
	}

	return nil
}

// Query returns the ids of indexed signatures sharing at least one band
// hash with sig, sorted for deterministic output. The queried id itself is
// included when indexed.
func (idx *Index) Query(sig *minhash.Signature) ([]string, error) {
	if sig == nil {
		return nil, ErrNilSignature
	}

	if sig.Len() != idx.numBands*idx.numRows {
		return nil, ErrSizeMismatch
	}

	hashes := idx.bandHashes(sig)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[string]bool)

	for band, h := range hashes {
		for _, id := range idx.buckets[band][h] {
			seen[id] = true
		}
	}

	result := make([]string, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}

	sort.Strings(result)

	return result, nil
}

// QueryThreshold returns candidate ids whose estimated similarity with sig
// is at or above threshold, sorted.
func (idx *Index) QueryThreshold(sig *minhash.Signature, threshold float64) ([]string, error) {
	candidates, err := idx.Query(sig)
	if err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := make([]string, 0, len(candidates))

	for _, id := range candidates {
		stored := idx.sigs[id]
		if stored == nil {
			continue
		}

		sim, simErr := sig.Estimate(stored)
		if simErr != nil {
			continue
		}

		if sim >= threshold {
			result = append(result, id)
		}
	}

	return result, nil
}

// SimilarPairs enumerates every indexed candidate pair whose estimated
// similarity is at or above threshold, ordered by id for deterministic
// reports.
func (idx *Index) SimilarPairs(threshold float64) ([]Pair, error) {
	idx.mu.RLock()

	ids := make([]string, 0, len(idx.sigs))
	for id := range idx.sigs {
		ids = append(ids, id)
	}

	idx.mu.RUnlock()
	sort.Strings(ids)

	var pairs []Pair

	for _, id := range ids {
		idx.mu.RLock()
		sig := idx.sigs[id]
		idx.mu.RUnlock()

		if sig == nil {
			continue
		}

		candidates, err := idx.Query(sig)
		if err != nil {
			return nil, err
		}

		for _, other := range candidates {
			// Emit each unordered pair once.
			if other <= id {
				continue
			}

			idx.mu.RLock()
			otherSig := idx.sigs[other]
			idx.mu.RUnlock()

			if otherSig == nil {
				continue
			}

			sim, simErr := sig.Estimate(otherSig)
			if simErr != nil {
				continue
			}

			if sim >= threshold {
				pairs = append(pairs, Pair{A: id, B: other, Similarity: sim})
			}
		}
	}

	return pairs, nil
}

// removeLocked detaches id from every band bucket. Caller holds mu.
func (idx *Index) removeLocked(id string, sig *minhash.Signature) {
	for band, h := range idx.bandHashes(sig) {
		bucket := idx.buckets[band][h]

		for i, stored := range bucket {
			if stored == id {
				idx.buckets[band][h] = append(bucket[:i], bucket[i+1:]...)

				break
			}
		}

		if len(idx.buckets[band][h]) == 0 {
			delete(idx.buckets[band], h)
		}
	}

	delete(idx.sigs, id)
}

// bandHashes computes one FNV-1a hash per band, domain-separated by the
// band index.
func (idx *Index) bandHashes(sig *minhash.Signature) []uint64 {
	data := sig.Bytes()[minhash.HeaderSize:]
	hashes := make([]uint64, idx.numBands)
	buf := make([]byte, bytesPerUint64)

	for band := range idx.numBands {
		h := fnv.New64a()

		binary.BigEndian.PutUint64(buf, uint64(band))
		_, _ = h.Write(buf)

		start := band * idx.numRows * bytesPerUint64
		_, _ = h.Write(data[start : start+idx.numRows*bytesPerUint64])

		hashes[band] = h.Sum64()
	}

	return hashes
}
