package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treesketch/pkg/jsonval"
)

func mustParse(t *testing.T, src string) jsonval.Value {
	t.Helper()

	v, err := jsonval.Parse([]byte(src))
	require.NoError(t, err)

	return v
}

// pathSet collects every node's canonical string for order-free assertions.
func pathSet(tr *Tree) map[string]bool {
	set := make(map[string]bool, len(tr.Nodes))
	for _, n := range tr.Nodes {
		set[n.CanonicalString()] = true
	}

	return set
}

func TestBuild_ScalarRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "null", src: `null`, want: "$root:null"},
		{name: "number", src: `7`, want: "$root:7"},
		{name: "string", src: `"x"`, want: "$root:x"},
		{name: "bool", src: `true`, want: "$root:true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := Build(mustParse(t, tt.src), Options{})

			require.Len(t, tr.Nodes, 1)
			assert.Equal(t, tt.want, tr.Nodes[0].CanonicalString())
			assert.Empty(t, tr.Adj.Cols)
			assert.Equal(t, []int32{0, 0}, tr.Adj.RowPtr)
		})
	}
}

func TestBuild_CompositeRootHasNoValue(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":1}`), Options{})

	require.Len(t, tr.Nodes, 2)
	assert.Equal(t, RootPath, tr.Nodes[0].Path)
	assert.False(t, tr.Nodes[0].HasValue)
}

func TestBuild_ObjectPaths(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":{"b":1},"c":2}`), Options{PreserveArrayOrder: true})

	paths := pathSet(tr)
	assert.Contains(t, paths, "$root")
	assert.Contains(t, paths, "a")
	assert.Contains(t, paths, "a.b:1")
	assert.Contains(t, paths, "c:2")
	assert.Len(t, paths, 4)
}

func TestBuild_ArrayPathsOrdered(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"xs":[10,20]}`), Options{PreserveArrayOrder: true})

	paths := pathSet(tr)
	assert.Contains(t, paths, "xs[0]:10")
	assert.Contains(t, paths, "xs[1]:20")
}

func TestBuild_ArrayPathsBag(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"xs":[10,20]}`), Options{PreserveArrayOrder: false})

	paths := pathSet(tr)
	assert.Contains(t, paths, "xs:10")
	assert.Contains(t, paths, "xs:20")
	assert.NotContains(t, paths, "xs[0]:10")
}

func TestBuild_RootArray(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `[1,2]`), Options{PreserveArrayOrder: true})

	paths := pathSet(tr)
	assert.Contains(t, paths, "$root[0]:1")
	assert.Contains(t, paths, "$root[1]:2")
}

func TestBuild_IgnoreKeysSkipSubtree(t *testing.T) {
	t.Parallel()

	opts := Options{
		IgnoreKeys:         map[string]struct{}{"meta": {}},
		PreserveArrayOrder: true,
	}

	tr := Build(mustParse(t, `{"a":1,"meta":{"huge":[1,2,3]}}`), opts)

	paths := pathSet(tr)
	assert.Contains(t, paths, "a:1")
	assert.NotContains(t, paths, "meta")
	assert.Len(t, tr.Nodes, 2)
}

func TestBuild_IgnoreKeysTransitive(t *testing.T) {
	t.Parallel()

	// An ignored key inside a nested object is skipped there too.
	opts := Options{IgnoreKeys: map[string]struct{}{"skip": {}}, PreserveArrayOrder: true}

	tr := Build(mustParse(t, `{"outer":{"skip":1,"keep":2}}`), opts)

	paths := pathSet(tr)
	assert.Contains(t, paths, "outer.keep:2")
	assert.NotContains(t, paths, "outer.skip:1")
}

func TestBuild_DenseIDs(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":[1,2],"b":{"c":null}}`), Options{PreserveArrayOrder: true})

	for i, n := range tr.Nodes {
		assert.Equal(t, int32(i), n.ID)
	}
}

func TestBuild_CSRInvariants(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":[1,{"b":2}],"c":"x","d":[[],[3]]}`), Options{PreserveArrayOrder: true})

	adj := tr.Adj
	n := adj.NumNodes()

	require.Equal(t, len(tr.Nodes), n)
	assert.Equal(t, int32(0), adj.RowPtr[0])
	assert.Equal(t, int32(len(adj.Cols)), adj.RowPtr[n])
	assert.Len(t, adj.Cols, n-1)

	for i := range n {
		assert.LessOrEqual(t, adj.RowPtr[i], adj.RowPtr[i+1])
	}

	// Every non-root node appears exactly once as someone's child.
	seen := make(map[int32]int)
	for _, c := range adj.Cols {
		seen[c]++
	}

	for id := 1; id < n; id++ {
		assert.Equal(t, 1, seen[int32(id)], "node %d parent edges", id)
	}
}

func TestBuild_EveryNodeReachableFromRoot(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":{"b":{"c":[1,2,3]}},"d":4}`), Options{PreserveArrayOrder: true})

	ex := NewExtractor(tr.Adj)
	reached := ex.From(0, len(tr.Nodes))

	assert.Len(t, reached, len(tr.Nodes))
}

func TestBuild_DeepNesting(t *testing.T) {
	t.Parallel()

	// 20k-level nesting must not exhaust the call stack.
	const depth = 20000

	src := make([]byte, 0, depth*2+4)
	for range depth {
		src = append(src, '[')
	}

	src = append(src, '1')
	for range depth {
		src = append(src, ']')
	}

	v, err := jsonval.Parse(src)
	require.NoError(t, err)

	tr := Build(v, Options{PreserveArrayOrder: true})
	assert.Len(t, tr.Nodes, depth+1)
}

func TestExtractor_DepthZero(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":{"b":1}}`), Options{})
	ex := NewExtractor(tr.Adj)

	got := ex.From(0, 0)
	assert.Equal(t, []int32{0}, got)
}

func TestExtractor_DepthBound(t *testing.T) {
	t.Parallel()

	// Chain $root -> a -> a.b -> a.b.c
	tr := Build(mustParse(t, `{"a":{"b":{"c":1}}}`), Options{})
	ex := NewExtractor(tr.Adj)

	assert.Len(t, ex.From(0, 1), 2)
	assert.Len(t, ex.From(0, 2), 3)
	assert.Len(t, ex.From(0, 3), 4)
	assert.Len(t, ex.From(0, 99), 4)
}

func TestExtractor_BFSOrder(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":{"b":1},"c":{"d":2}}`), Options{})
	ex := NewExtractor(tr.Adj)

	got := ex.From(0, 2)
	require.Len(t, got, 5)

	// Start first, then both depth-1 children, then depth-2 leaves.
	assert.Equal(t, int32(0), got[0])

	depth1 := tr.Adj.Children(0)
	assert.ElementsMatch(t, depth1, got[1:3])
}

func TestExtractor_NoRevisit(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":[1,2],"b":3}`), Options{PreserveArrayOrder: true})
	ex := NewExtractor(tr.Adj)

	got := ex.From(0, 10)
	seen := make(map[int32]bool)

	for _, id := range got {
		assert.False(t, seen[id], "node %d visited twice", id)
		seen[id] = true
	}
}

func TestExtractor_StartAtLeaf(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":1}`), Options{})
	ex := NewExtractor(tr.Adj)

	leaf := tr.Adj.Children(0)[0]
	assert.Equal(t, []int32{leaf}, ex.From(leaf, 5))
}

func TestExtractor_OutOfRange(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":1}`), Options{})
	ex := NewExtractor(tr.Adj)

	assert.Nil(t, ex.From(-1, 2))
	assert.Nil(t, ex.From(99, 2))
	assert.Nil(t, ex.From(0, -1))
}

func TestExtractor_ReuseAcrossCalls(t *testing.T) {
	t.Parallel()

	tr := Build(mustParse(t, `{"a":{"b":1},"c":2}`), Options{})
	ex := NewExtractor(tr.Adj)

	first := ex.From(0, 2)
	second := ex.From(0, 2)

	assert.Equal(t, first, second)
}
