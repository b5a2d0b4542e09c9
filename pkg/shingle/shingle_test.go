package shingle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treesketch/pkg/internal/hashutil"
)

func collect(t *testing.T, h *Hasher, s string) []uint32 {
	t.Helper()

	var out []uint32

	h.Each(s, func(v uint32) {
		out = append(out, v)
	})

	return out
}

func TestNewHasher_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewHasher(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewHasher(-3)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestEach_Empty(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(3)
	require.NoError(t, err)

	assert.Empty(t, collect(t, h, ""))
}

func TestEach_ShortString(t *testing.T) {
	t.Parallel()

	// Strings shorter than k hash once as a single degenerate shingle.
	h, err := NewHasher(5)
	require.NoError(t, err)

	got := collect(t, h, "ab")
	assert.Len(t, got, 1)
}

func TestEach_WindowCount(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(3)
	require.NoError(t, err)

	// len(S) >= k produces exactly len(S)-k+1 shingles.
	assert.Len(t, collect(t, h, "abc"), 1)
	assert.Len(t, collect(t, h, "abcd"), 2)
	assert.Len(t, collect(t, h, "abcdefgh"), 6)
}

func TestEach_RollingMatchesDirect(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(4)
	require.NoError(t, err)

	s := "path.to.node:value-17"
	rolled := collect(t, h, s)

	require.Len(t, rolled, len(s)-4+1)

	// Every rolled window must equal the direct polynomial recomputation.
	for i := range rolled {
		direct := hashutil.Mix32(uint32(polynomial(s[i : i+4])))
		assert.Equal(t, direct, rolled[i], "window %d", i)
	}
}

func TestEach_EqualWindowsCollide(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(3)
	require.NoError(t, err)

	// The same 3-byte run in different strings and positions yields the
	// same shingle identity.
	a := collect(t, h, "xxabcxx")
	b := collect(t, h, "abc")

	assert.Contains(t, a, b[0])
}

func TestEach_Deterministic(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(5)
	require.NoError(t, err)

	s := "users[3].address.city:Berlin"
	assert.Equal(t, collect(t, h, s), collect(t, h, s))
}

func TestSet_SortedAndDeduplicated(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(2)
	require.NoError(t, err)

	// "ababab" repeats the windows "ab" and "ba".
	set := h.Set("ababab")

	assert.Len(t, set, 2)
	assert.IsIncreasing(t, set)
}

func TestSet_Empty(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(3)
	require.NoError(t, err)

	assert.Empty(t, h.Set(""))
}

func TestMultiset_Counting(t *testing.T) {
	t.Parallel()

	m := NewMultiset()
	m.AddSet([]uint32{1, 2})
	m.AddSet([]uint32{2, 3})
	m.AddSet([]uint32{2})

	assert.Equal(t, uint32(1), m.Count(1))
	assert.Equal(t, uint32(3), m.Count(2))
	assert.Equal(t, uint32(1), m.Count(3))
	assert.Equal(t, uint32(0), m.Count(99))
	assert.Equal(t, 3, m.Len())
}

func TestMultiset_FilterThresholdOne(t *testing.T) {
	t.Parallel()

	m := NewMultiset()
	m.AddSet([]uint32{5, 9, 1})

	// Threshold 1 keeps everything, sorted.
	assert.Equal(t, []uint32{1, 5, 9}, m.Filter(1))
}

func TestMultiset_FilterDropsRare(t *testing.T) {
	t.Parallel()

	m := NewMultiset()
	m.AddSet([]uint32{1, 2})
	m.AddSet([]uint32{2})

	assert.Equal(t, []uint32{2}, m.Filter(2))
	assert.Empty(t, m.Filter(3))
}

func BenchmarkEach(b *testing.B) {
	h, err := NewHasher(5)
	if err != nil {
		b.Fatal(err)
	}

	s := "orders[17].items[4].product.name:wireless keyboard with numpad"

	b.ResetTimer()

	for range b.N {
		h.Each(s, func(uint32) {})
	}
}

func BenchmarkSet(b *testing.B) {
	h, err := NewHasher(5)
	if err != nil {
		b.Fatal(err)
	}

	s := "orders[17].items[4].product.name:wireless keyboard with numpad"

	b.ResetTimer()

	for range b.N {
		_ = h.Set(s)
	}
}
