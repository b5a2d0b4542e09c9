// Package sketch converts JSON-shaped documents into fixed-length MinHash
// fingerprints whose estimated Jaccard similarity tracks structural and
// content similarity of the source trees.
//
// The pipeline per document: flatten the value into a dense node table
// with CSR adjacency, extract a bounded-depth BFS subtree from every node,
// shingle each member node's path[:value] canonical string with a rolling
// hash, frequency-filter the accumulated multiset, and hand the surviving
// feature set to the MinHash engine. Processing is synchronous and total:
// the only failure mode is configuration validation at construction.
package sketch

import (
	"fmt"

	"github.com/Sumatoshi-tech/treesketch/pkg/alg/lru"
	"github.com/Sumatoshi-tech/treesketch/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/treesketch/pkg/alg/minhash"
	"github.com/Sumatoshi-tech/treesketch/pkg/jsonval"
	"github.com/Sumatoshi-tech/treesketch/pkg/shingle"
	"github.com/Sumatoshi-tech/treesketch/pkg/tree"
)

// Sketcher converts documents into sketches under one fixed configuration.
// A Sketcher may be reused across many documents sequentially; concurrent
// calls require external synchronization when the node string cache is
// enabled.
type Sketcher struct {
	opts   Options
	hasher *shingle.Hasher
	ignore map[string]struct{}
	cache  *lru.Cache[string, []uint32]
}

// New validates the configuration and creates a Sketcher. No partially
// constructed instance escapes: any validation failure returns before
// allocation.
func New(opts Options) (*Sketcher, error) {
	err := opts.Validate()
	if err != nil {
		return nil, err
	}

	opts = opts.normalized()

	hasher, err := shingle.NewHasher(opts.ShingleSize)
	if err != nil {
		// Unreachable: Validate already rejected ShingleSize < 1.
		return nil, fmt.Errorf("sketch: new hasher: %w", err)
	}

	s := &Sketcher{
		opts:   opts,
		hasher: hasher,
		ignore: mapx.SetOf(opts.IgnoreKeys),
	}

	if opts.EnableNodeStringCache {
		s.cache = lru.New[string, []uint32](opts.NodeStringCacheSize)
	}

	return s, nil
}

// Options returns the normalized configuration in effect.
func (s *Sketcher) Options() Options {
	return s.opts
}

// GenerateSketch converts a document into its fixed-length sketch of
// NumHashFunctions values. Identical input and configuration always yield
// a bit-identical sketch.
func (s *Sketcher) GenerateSketch(v jsonval.Value) []uint64 {
	sig, err := minhash.Generate(s.GenerateShingleSet(v), s.opts.NumHashFunctions, s.opts.NumGroups)
	if err != nil {
		// Structurally impossible: the shape was validated at construction.
		panic("sketch: signature generation failed: " + err.Error())
	}

	return sig.Values()
}

// GenerateSketchJSON parses raw JSON and sketches it.
func (s *Sketcher) GenerateSketchJSON(data []byte) ([]uint64, error) {
	v, err := jsonval.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sketch: %w", err)
	}

	return s.GenerateSketch(v), nil
}

// GenerateShingleSet returns the frequency-filtered feature set of a
// document in ascending order: the exact input the signature engine sees.
func (s *Sketcher) GenerateShingleSet(v jsonval.Value) []uint32 {
	t := tree.Build(v, tree.Options{
		IgnoreKeys:         s.ignore,
		PreserveArrayOrder: s.opts.PreserveArrayOrder,
	})

	extractor := tree.NewExtractor(t.Adj)
	multiset := shingle.NewMultiset()

	// Every node is a candidate subtree root: N bounded traversals per
	// document, capturing each node's local context.
	for id := range t.Nodes {
		for _, member := range extractor.From(int32(id), s.opts.SubtreeDepth) {
			canonical := t.Nodes[member].CanonicalString()
			if canonical == tree.RootPath {
				// The bare root path is identical in every document and
				// would make all feature sets overlap.
				continue
			}

			multiset.AddSet(s.shingleSetOf(canonical))
		}
	}

	return multiset.Filter(uint32(s.opts.FrequencyThreshold))
}

// GenerateShingleSetJSON parses raw JSON and extracts its feature set.
func (s *Sketcher) GenerateShingleSetJSON(data []byte) ([]uint32, error) {
	v, err := jsonval.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sketch: %w", err)
	}

	return s.GenerateShingleSet(v), nil
}

// shingleSetOf computes (or replays) the shingle set of one canonical
// string. Cached and direct paths return the same set, so memoization is
// invisible in every output.
func (s *Sketcher) shingleSetOf(canonical string) []uint32 {
	if s.cache == nil {
		return s.hasher.Set(canonical)
	}

	if cached, ok := s.cache.Get(canonical); ok {
		return cached
	}

	set := s.hasher.Set(canonical)
	s.cache.Put(canonical, set)

	return set
}

// CompareOptions tunes sketch comparison. Supplying it enables bounded
// estimation, which may short-circuit to exactly 0.0 or 1.0 once the
// engine can place the similarity relative to SimilarityThreshold within
// ErrorTolerance.
type CompareOptions struct {
	SimilarityThreshold float64
	ErrorTolerance      float64
}

// CompareSketches estimates the Jaccard similarity of two sketches
// produced under this configuration. A nil opts requests the exact
// position-match fraction.
func (s *Sketcher) CompareSketches(sketchA, sketchB []uint64, opts *CompareOptions) (float64, error) {
	sigA, err := minhash.FromValues(sketchA, s.opts.NumGroups)
	if err != nil {
		return 0, fmt.Errorf("sketch: sketch A: %w", err)
	}

	sigB, err := minhash.FromValues(sketchB, s.opts.NumGroups)
	if err != nil {
		return 0, fmt.Errorf("sketch: sketch B: %w", err)
	}

	if opts == nil {
		sim, err := sigA.Estimate(sigB)
		if err != nil {
			return 0, fmt.Errorf("sketch: %w", err)
		}

		return sim, nil
	}

	sim, err := sigA.EstimateBounded(sigB, opts.SimilarityThreshold, opts.ErrorTolerance)
	if err != nil {
		return 0, fmt.Errorf("sketch: %w", err)
	}

	return sim, nil
}

// ClearNodeStringCache drops every memoized shingle set. It is a no-op
// when caching is disabled.
func (s *Sketcher) ClearNodeStringCache() {
	if s.cache == nil {
		return
	}

	s.cache.Clear()
}

// CacheStats reports memoization counters; the zero Stats when caching is
// disabled.
func (s *Sketcher) CacheStats() lru.Stats {
	if s.cache == nil {
		return lru.Stats{}
	}

	return s.cache.Stats()
}
