package tree

// CSR is a compressed sparse row encoding of parent→children edges.
//
// Invariants: RowPtr[0] == 0, RowPtr is non-decreasing,
// RowPtr[numNodes] == len(Cols), and Cols[RowPtr[i]:RowPtr[i+1]] holds
// exactly node i's children in discovery order.
type CSR struct {
	RowPtr []int32
	Cols   []int32
}

// buildCSR assembles the adjacency from the per-node parent table in two
// passes: count children per parent, prefix-sum into row pointers, then a
// final sweep places each node into its parent's slot. parents[0] must be
// -1 (the root); every other entry is the node's single parent id.
func buildCSR(parents []int32) CSR {
	numNodes := len(parents)

	counts := make([]int32, numNodes)
	for id := 1; id < numNodes; id++ {
		counts[parents[id]]++
	}

	rowPtr := make([]int32, numNodes+1)
	for i := range numNodes {
		rowPtr[i+1] = rowPtr[i] + counts[i]
	}

	cols := make([]int32, numNodes-1)
	next := make([]int32, numNodes)
	copy(next, rowPtr[:numNodes])

	for id := 1; id < numNodes; id++ {
		p := parents[id]
		cols[next[p]] = int32(id)
		next[p]++
	}

	return CSR{RowPtr: rowPtr, Cols: cols}
}

// NumNodes returns the number of nodes in the adjacency.
func (c CSR) NumNodes() int {
	return len(c.RowPtr) - 1
}

// Children returns node id's children in discovery order. The returned
// slice aliases the Cols array and must not be mutated.
func (c CSR) Children(id int32) []int32 {
	return c.Cols[c.RowPtr[id]:c.RowPtr[id+1]]
}
