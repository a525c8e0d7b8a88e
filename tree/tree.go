// Package tree implements a rooted binary time-tree: a flat children
// array plus derived parent pointers and node heights ("weights"),
// supporting uniform node sampling and the subtree-prune-regraft (SPR)
// edit used by the topology-changing operators.
package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvariant is returned when a requested tree structure or edit would
// violate the binary, rooted-time-tree invariant.
var ErrInvariant = errors.New("tree: structural invariant violated")

// noParent marks the root in the parents array.
const noParent = -1

// Node is the absolute index of any node: 0..numLeaves-1 are leaves,
// numLeaves..numNodes-1 are internal nodes.
type Node int

// Internal is a Node known to be internal.
type Internal int

// Leaf is a Node known to be a leaf.
type Leaf int

// Node converts an Internal back to a plain Node.
func (i Internal) Node() Node { return Node(i) }

// Node converts a Leaf back to a plain Node.
func (l Leaf) Node() Node { return Node(l) }

// Tree is a rooted binary time-tree over numLeaves leaves and
// numLeaves-1 internal nodes (numLeaves*2-1 nodes total).
type Tree struct {
	children  []int // len 2*(numLeaves-1); children of internal i+numLeaves are at [2i],[2i+1]
	parents   []int // len numLeaves*2-1; noParent at the root
	weights   []float64
	numLeaves int
}

// New builds a Tree from a flat children array (length 2*(numLeaves-1))
// and a weight ("height") per node (length numLeaves*2-1). Parent
// pointers are derived from children.
func New(children []int, weights []float64) (*Tree, error) {
	numNodes := len(weights)
	if numNodes == 0 || numNodes%2 == 0 {
		return nil, fmt.Errorf("%w: weights must have an odd, positive length, got %d", ErrInvariant, numNodes)
	}
	numInternals := (numNodes - 1) / 2
	if len(children) != numInternals*2 {
		return nil, fmt.Errorf("%w: children must have length %d, got %d", ErrInvariant, numInternals*2, len(children))
	}

	t := &Tree{
		children:  append([]int(nil), children...),
		weights:   append([]float64(nil), weights...),
		numLeaves: numInternals + 1,
	}
	t.parents = make([]int, numNodes)
	for i := range t.parents {
		t.parents[i] = noParent
	}
	t.updateAllParents()
	return t, nil
}

func (t *Tree) updateAllParents() {
	for i := 0; i < t.NumInternals(); i++ {
		left, right := t.children[i*2], t.children[i*2+1]
		t.parents[left] = i + t.numLeaves
		t.parents[right] = i + t.numLeaves
	}
}

// NumNodes returns the total number of nodes.
func (t *Tree) NumNodes() int { return len(t.weights) }

// NumInternals returns the number of internal nodes.
func (t *Tree) NumInternals() int { return (t.NumNodes() - 1) / 2 }

// NumLeaves returns the number of leaves.
func (t *Tree) NumLeaves() int { return t.numLeaves }

// IsLeaf reports whether n is a leaf.
func (t *Tree) IsLeaf(n Node) bool { return int(n) < t.numLeaves }

// IsInternal reports whether n is internal.
func (t *Tree) IsInternal(n Node) bool { return int(n) >= t.numLeaves }

// AsLeaf narrows n to a Leaf, if it is one.
func (t *Tree) AsLeaf(n Node) (Leaf, bool) {
	if t.IsLeaf(n) {
		return Leaf(n), true
	}
	return 0, false
}

// AsInternal narrows n to an Internal, if it is one.
func (t *Tree) AsInternal(n Node) (Internal, bool) {
	if t.IsInternal(n) {
		return Internal(n), true
	}
	return 0, false
}

// Root returns the tree's root.
func (t *Tree) Root() Internal {
	for i, p := range t.parents {
		if p == noParent {
			return Internal(i)
		}
	}
	panic("tree: no root found, invariant violated")
}

// WeightOf returns n's height.
func (t *Tree) WeightOf(n Node) float64 { return t.weights[n] }

// SetWeight sets n's height. Callers must ensure this preserves local
// time-tree order (children younger than their parent); this is not
// checked here for performance, matching the unchecked fast path
// operators rely on.
func (t *Tree) SetWeight(n Node, w float64) { t.weights[n] = w }

// ChildrenOf returns the two children of an internal node, in left/right
// order.
func (t *Tree) ChildrenOf(i Internal) (Node, Node) {
	idx := int(i) - t.numLeaves
	return Node(t.children[idx*2]), Node(t.children[idx*2+1])
}

// ParentOf returns n's parent, or ok=false if n is the root.
func (t *Tree) ParentOf(n Node) (Internal, bool) {
	p := t.parents[n]
	if p == noParent {
		return 0, false
	}
	return Internal(p), true
}

func (t *Tree) otherChildOf(i Internal, child Node) Node {
	left, right := t.ChildrenOf(i)
	if left == child {
		return right
	}
	return left
}

func (t *Tree) edgeIndex(parent Internal, child Node) int {
	left, _ := t.ChildrenOf(parent)
	base := (int(parent) - t.numLeaves) * 2
	if left == child {
		return base
	}
	return base + 1
}

// EdgeTo returns the edge index of the branch from parent to child, the
// index into a Transitions cache built over this tree.
func (t *Tree) EdgeTo(parent Internal, child Node) int {
	return t.edgeIndex(parent, child)
}

// ChildAt returns the node at the far end of the given edge index.
func (t *Tree) ChildAt(edge int) Node { return Node(t.children[edge]) }

// NumEdges returns the number of edges, equal to the length of the flat
// children array and the size a Transitions cache over this tree must have.
func (t *Tree) NumEdges() int { return len(t.children) }

// SampleNode returns a uniformly random node.
func (t *Tree) SampleNode(rng *rand.Rand) Node {
	return Node(rng.Intn(t.NumNodes()))
}

// SampleInternal returns a uniformly random internal node.
func (t *Tree) SampleInternal(rng *rand.Rand) Internal {
	return Internal(t.numLeaves + rng.Intn(t.NumInternals()))
}

// SampleLeaf returns a uniformly random leaf.
func (t *Tree) SampleLeaf(rng *rand.Rand) Leaf {
	return Leaf(rng.Intn(t.numLeaves))
}

// Nodes returns every node index, leaves first.
func (t *Tree) Nodes() []Node {
	out := make([]Node, t.NumNodes())
	for i := range out {
		out[i] = Node(i)
	}
	return out
}

// Internals returns every internal node index.
func (t *Tree) Internals() []Internal {
	out := make([]Internal, t.NumInternals())
	for i := range out {
		out[i] = Internal(t.numLeaves + i)
	}
	return out
}

// Leaves returns every leaf index.
func (t *Tree) Leaves() []Leaf {
	out := make([]Leaf, t.numLeaves)
	for i := range out {
		out[i] = Leaf(i)
	}
	return out
}

// SwapParents exchanges the parent pointers of two non-root nodes. The
// caller (an operator) must have already checked that this keeps the tree
// acyclic and time-consistent. It returns the edges whose length changed
// and the nodes whose conditional-likelihood tables must be recomputed, in
// the same child-before-parent, no-duplicates shape as UpdateSPR.
func (t *Tree) SwapParents(a, b Node) (edgesDirty []int, nodesDirty []Node) {
	pa, aok := t.ParentOf(a)
	pb, bok := t.ParentOf(b)
	if !aok || !bok {
		panic("tree: SwapParents requires two non-root nodes")
	}

	aEdge := t.edgeIndex(pa, a)
	bEdge := t.edgeIndex(pb, b)

	t.children[aEdge] = int(b)
	t.children[bEdge] = int(a)
	t.parents[a] = int(pb)
	t.parents[b] = int(pa)

	edgesDirty = []int{aEdge, bEdge}
	nodesDirty = t.DirtyClosure([]Node{pa.Node(), pb.Node()})
	return edgesDirty, nodesDirty
}

// MRCA returns the most recent common ancestor of a and b by walking both
// paths to the root.
func (t *Tree) MRCA(a, b Node) Internal {
	ancestors := map[Node]bool{}
	for n := a; ; {
		ancestors[n] = true
		p, ok := t.ParentOf(n)
		if !ok {
			break
		}
		n = p.Node()
	}

	for n := b; ; {
		if ancestors[n] {
			i, _ := t.AsInternal(n)
			return i
		}
		p, ok := t.ParentOf(n)
		if !ok {
			break
		}
		n = p.Node()
	}
	panic("tree: MRCA found no common ancestor, invariant violated")
}

// Snapshot captures t's current children, parents, and weights, so a later
// edit can be undone with Restore. Used by State to roll back a rejected
// topology or weight proposal.
type Snapshot struct {
	children []int
	parents  []int
	weights  []float64
}

// Snapshot returns a restorable copy of t's mutable state.
func (t *Tree) Snapshot() Snapshot {
	return Snapshot{
		children: append([]int(nil), t.children...),
		parents:  append([]int(nil), t.parents...),
		weights:  append([]float64(nil), t.weights...),
	}
}

// Restore overwrites t's children, parents, and weights with a previously
// captured Snapshot.
func (t *Tree) Restore(s Snapshot) {
	copy(t.children, s.children)
	copy(t.parents, s.parents)
	copy(t.weights, s.weights)
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	return &Tree{
		children:  append([]int(nil), t.children...),
		parents:   append([]int(nil), t.parents...),
		weights:   append([]float64(nil), t.weights...),
		numLeaves: t.numLeaves,
	}
}

// UpdateSPR prunes the subtree rooted at s from its parent and re-grafts
// it above r: the parent of r becomes the old parent of s. It returns the
// edge indices whose length changed and the node indices whose
// conditional-likelihood tables must be recomputed, the latter emitted
// in child-before-parent order with no duplicates.
func (t *Tree) UpdateSPR(s, r Node) (edgesDirty []int, nodesDirty []Node) {
	rParent, rHasParent := t.ParentOf(r)
	sParent, sHasParent := t.ParentOf(s)

	var dirtyNodes []Node

	if sHasParent {
		x := t.otherChildOf(sParent, s)
		pToX := t.edgeIndex(sParent, x)
		t.children[pToX] = int(r)
		t.parents[r] = int(sParent)

		edgesDirty = append(edgesDirty, pToX)
		dirtyNodes = append(dirtyNodes, sParent.Node())

		if grandparent, ok := t.ParentOf(sParent.Node()); ok {
			gpToP := t.edgeIndex(grandparent, sParent.Node())
			t.children[gpToP] = int(x)
			t.parents[x] = int(grandparent)

			edgesDirty = append(edgesDirty, gpToP)
			dirtyNodes = append(dirtyNodes, grandparent.Node())
		}
	}

	if rHasParent {
		rpToR := t.edgeIndex(rParent, r)
		t.children[rpToR] = int(sParent)
		t.parents[sParent] = int(rParent)

		edgesDirty = append(edgesDirty, rpToR)
		dirtyNodes = append(dirtyNodes, rParent.Node())
	}

	nodesDirty = t.DirtyClosure(dirtyNodes)
	return edgesDirty, nodesDirty
}

// DirtyClosure walks from each starting node up to the root, stopping
// early at any node already visited, and returns the union of internal
// nodes touched in child-before-parent order. Used by any edit (SPR splice
// or a parent swap) to find the full set of conditional-likelihood tables
// that need recomputing once the structural edit itself is done.
func (t *Tree) DirtyClosure(starts []Node) []Node {
	visited := map[Node]bool{}
	var order []Node

	for _, start := range starts {
		var chain []Node
		curr := start
		for {
			if visited[curr] {
				break
			}
			visited[curr] = true
			if t.IsInternal(curr) {
				chain = append(chain, curr)
			}
			p, ok := t.ParentOf(curr)
			if !ok {
				break
			}
			curr = p.Node()
		}
		// chain is root-ward; prepend it so children precede
		// parents in the final order.
		order = append(chain, order...)
	}
	return order
}

// Serialize renders the tree as {"children": [...], "weights": [...]}.
func (t *Tree) Serialize() ([]byte, error) {
	return json.Marshal(struct {
		Children []int     `json:"children"`
		Weights  []float64 `json:"weights"`
	}{t.children, t.weights})
}
