package tree

// Extractor performs bounded-depth breadth-first traversals over one CSR
// adjacency. It is invoked once per node of a document, so it keeps its
// queue and visit marks between calls (generation-stamped, never cleared)
// to avoid per-call allocation. Not safe for concurrent use.
type Extractor struct {
	adj   CSR
	marks []int32
	gen   int32
	queue []visit
}

// visit is one queued BFS step.
type visit struct {
	id    int32
	depth int32
}

// NewExtractor creates an Extractor over the given adjacency.
func NewExtractor(adj CSR) *Extractor {
	return &Extractor{
		adj:   adj,
		marks: make([]int32, adj.NumNodes()),
	}
}

// From returns the ids reachable from start within maxDepth hops, each
// visited at most once, in breadth-first order. Depth 0 yields the start
// node alone. Out-of-range start ids yield nil.
func (e *Extractor) From(start int32, maxDepth int) []int32 {
	if start < 0 || int(start) >= e.adj.NumNodes() || maxDepth < 0 {
		return nil
	}

	e.gen++
	e.queue = append(e.queue[:0], visit{id: start, depth: 0})
	e.marks[start] = e.gen

	var result []int32

	for head := 0; head < len(e.queue); head++ {
		cur := e.queue[head]
		result = append(result, cur.id)

		if int(cur.depth) >= maxDepth {
			continue
		}

		for _, child := range e.adj.Children(cur.id) {
			if e.marks[child] == e.gen {
				continue
			}

			e.marks[child] = e.gen
			e.queue = append(e.queue, visit{id: child, depth: cur.depth + 1})
		}
	}

	return result
}
