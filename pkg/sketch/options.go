package sketch

import "errors"

// Default configuration values.
const (
	// DefaultSubtreeDepth is the BFS hop bound per extracted subtree.
	DefaultSubtreeDepth = 2

	// DefaultFrequencyThreshold is the minimum occurrence count to keep a shingle.
	DefaultFrequencyThreshold = 1

	// DefaultNumHashFunctions is the sketch length.
	DefaultNumHashFunctions = 128

	// DefaultNumGroups is the estimation grouping parameter.
	DefaultNumGroups = 4

	// DefaultShingleSize is the k-gram window size for shingling.
	DefaultShingleSize = 5

	// DefaultNodeStringCacheSize is the memoization capacity when caching
	// is enabled.
	DefaultNodeStringCacheSize = 1000
)

// Construction validation errors.
var (
	// ErrShingleSize is returned when ShingleSize is less than 1.
	ErrShingleSize = errors.New("sketch: shingleSize must be at least 1")

	// ErrNumHashFunctions is returned when NumHashFunctions is not positive.
	ErrNumHashFunctions = errors.New("sketch: numHashFunctions must be a positive integer")

	// ErrNumGroups is returned when NumGroups is not positive.
	ErrNumGroups = errors.New("sketch: numGroups must be a positive integer")

	// ErrGroupDivisibility is returned when NumHashFunctions is not
	// divisible by NumGroups.
	ErrGroupDivisibility = errors.New("sketch: numHashFunctions must be divisible by numGroups")
)

// Options configures a Sketcher. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// SubtreeDepth is the BFS hop bound for each node's extracted
	// neighborhood. Depth 0 extracts each node alone.
	SubtreeDepth int

	// FrequencyThreshold is the minimum multiset occurrence count for a
	// shingle to survive into the feature set.
	FrequencyThreshold int

	// NumHashFunctions is the sketch length. Must be divisible by NumGroups.
	NumHashFunctions int

	// NumGroups is the estimation grouping parameter.
	NumGroups int

	// PreserveArrayOrder selects index-qualified element paths; when
	// false, array elements become an order-insensitive bag.
	PreserveArrayOrder bool

	// ShingleSize is the k-gram window length over canonical strings.
	ShingleSize int

	// IgnoreKeys lists object keys skipped entirely, including their
	// subtrees.
	IgnoreKeys []string

	// EnableNodeStringCache toggles canonical-string memoization.
	EnableNodeStringCache bool

	// NodeStringCacheSize bounds the memoization cache when enabled.
	NodeStringCacheSize int
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		SubtreeDepth:          DefaultSubtreeDepth,
		FrequencyThreshold:    DefaultFrequencyThreshold,
		NumHashFunctions:      DefaultNumHashFunctions,
		NumGroups:             DefaultNumGroups,
		PreserveArrayOrder:    true,
		ShingleSize:           DefaultShingleSize,
		EnableNodeStringCache: false,
		NodeStringCacheSize:   DefaultNodeStringCacheSize,
	}
}

// Validate checks the construction-time constraints. All other fields are
// normalized rather than rejected, keeping per-document processing total.
func (o Options) Validate() error {
	if o.ShingleSize < 1 {
		return ErrShingleSize
	}

	if o.NumHashFunctions < 1 {
		return ErrNumHashFunctions
	}

	if o.NumGroups < 1 {
		return ErrNumGroups
	}

	if o.NumHashFunctions%o.NumGroups != 0 {
		return ErrGroupDivisibility
	}

	return nil
}

// normalized clamps the unvalidated knobs into their sane ranges.
func (o Options) normalized() Options {
	if o.SubtreeDepth < 0 {
		o.SubtreeDepth = 0
	}

	if o.FrequencyThreshold < 1 {
		o.FrequencyThreshold = 1
	}

	if o.NodeStringCacheSize < 1 {
		o.NodeStringCacheSize = DefaultNodeStringCacheSize
	}

	return o
}
