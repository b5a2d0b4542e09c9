// Package tree flattens JSON documents into a dense node table with a
// compressed sparse row adjacency, and extracts bounded-depth subtrees
// from it.
//
// Nodes are addressed by dense integer id instead of pointers: the table
// plus two CSR arrays fully describe the tree, give O(1) id lookup, and
// avoid per-node link storage. Flattening and extraction both run over
// explicit stacks/queues so arbitrarily deep input cannot exhaust the call
// stack.
package tree

import (
	"strconv"

	"github.com/Sumatoshi-tech/treesketch/pkg/jsonval"
	"github.com/Sumatoshi-tech/treesketch/pkg/safeconv"
)

// RootPath is the path assigned to the document root node.
const RootPath = "$root"

// Node is one flattened tree node. Nodes are immutable after Build.
type Node struct {
	ID       int32
	Path     string
	Value    string // Canonical scalar text; meaningful only when HasValue.
	HasValue bool
}

// CanonicalString returns the path[:value] encoding of the node, the unit
// that gets shingled and memoized.
func (n Node) CanonicalString() string {
	if !n.HasValue {
		return n.Path
	}

	return n.Path + ":" + n.Value
}

// Options controls document flattening.
type Options struct {
	// IgnoreKeys holds object keys whose members (and entire subtrees)
	// are skipped.
	IgnoreKeys map[string]struct{}

	// PreserveArrayOrder selects index-qualified element paths. When
	// false, all elements of an array share the array's own path, turning
	// siblings into an order-insensitive bag.
	PreserveArrayOrder bool
}

// Tree is a flattened document: the node table plus its CSR adjacency.
type Tree struct {
	Nodes []Node
	Adj   CSR
}

// frame is one pending traversal step. Nodes are materialized when their
// frame is popped, so sibling ids run opposite to document order at each
// depth; id values are dense but encode neither pre-order nor level-order.
type frame struct {
	val      jsonval.Value
	path     string
	parentID int32
}

// Build flattens a JSON value into a Tree. It never fails: every input
// value maps to at least one node, and non-composite values (including
// anything exotic the host produced) become leaves.
func Build(root jsonval.Value, opts Options) *Tree {
	if !root.IsComposite() {
		nodes := []Node{{ID: 0, Path: RootPath, Value: root.ScalarText(), HasValue: true}}

		return &Tree{Nodes: nodes, Adj: buildCSR([]int32{-1})}
	}

	var (
		nodes   []Node
		parents []int32
	)

	stack := []frame{{val: root, path: RootPath, parentID: -1}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := safeconv.MustIntToInt32(len(nodes))
		n := Node{ID: id, Path: f.path}

		if !f.val.IsComposite() {
			n.Value = f.val.ScalarText()
			n.HasValue = true
		}

		nodes = append(nodes, n)
		parents = append(parents, f.parentID)

		if f.val.IsComposite() {
			stack = pushChildren(stack, f.val, f.path, id, opts)
		}
	}

	return &Tree{Nodes: nodes, Adj: buildCSR(parents)}
}

// pushChildren schedules the children of a composite value for discovery.
func pushChildren(stack []frame, v jsonval.Value, path string, parentID int32, opts Options) []frame {
	if v.Kind == jsonval.KindObject {
		for _, m := range v.Obj {
			if _, skip := opts.IgnoreKeys[m.Key]; skip {
				continue
			}

			stack = append(stack, frame{val: m.Value, path: childKeyPath(path, m.Key), parentID: parentID})
		}

		return stack
	}

	for i, elem := range v.Arr {
		elemPath := path
		if opts.PreserveArrayOrder {
			elemPath = indexPath(path, i)
		}

		stack = append(stack, frame{val: elem, path: elemPath, parentID: parentID})
	}

	return stack
}

// childKeyPath joins an object member key onto its parent path. Members of
// the root object get bare keys.
func childKeyPath(parentPath, key string) string {
	if parentPath == RootPath {
		return key
	}

	return parentPath + "." + key
}

// indexPath appends a bracketed element index to the array's path.
func indexPath(parentPath string, index int) string {
	return parentPath + "[" + strconv.Itoa(index) + "]"
}
