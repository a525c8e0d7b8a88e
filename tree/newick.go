package tree

import (
	"fmt"

	"github.com/aspartik-go/b3/newick"
)

// FromNewick converts a parsed Newick statement into a rooted binary
// time-tree, returning the tree and the leaf names in leaf-index order (so
// a caller can line up FASTA records with the right leaf).
//
// Newick encodes a branch length per node (distance from its parent); this
// engine's Tree stores an absolute height per node instead. Heights are
// derived bottom-up assuming the tree is ultrametric (ordinary for a time
// tree): every leaf is height 0, and each internal node's height is its
// first child's height plus that child's branch length. A node with no
// branch length defaults to 0.
func FromNewick(nt *newick.Tree) (*Tree, []string, error) {
	var leaves, internals []int
	for i := range nt.Nodes {
		if len(nt.Children(i)) == 0 {
			leaves = append(leaves, i)
		} else {
			internals = append(internals, i)
		}
	}

	numLeaves := len(leaves)
	if numLeaves < 2 {
		return nil, nil, fmt.Errorf("%w: newick tree must have at least 2 leaves, got %d", ErrInvariant, numLeaves)
	}

	newIndex := make(map[int]int, len(nt.Nodes))
	leafNames := make([]string, numLeaves)
	for i, oldIdx := range leaves {
		newIndex[oldIdx] = i
		leafNames[i] = nt.Nodes[oldIdx].Name
	}

	order, err := postorderInternals(nt, nt.Root())
	if err != nil {
		return nil, nil, err
	}
	if len(order) != len(internals) {
		return nil, nil, fmt.Errorf("%w: newick tree is not fully binary", ErrInvariant)
	}
	for i, oldIdx := range order {
		newIndex[oldIdx] = numLeaves + i
	}

	numNodes := numLeaves*2 - 1
	children := make([]int, (numLeaves-1)*2)
	weights := make([]float64, numNodes)

	for i, oldIdx := range order {
		kids := nt.Children(oldIdx)
		left, right := newIndex[kids[0]], newIndex[kids[1]]
		children[i*2], children[i*2+1] = left, right

		branch := 0.0
		if d := nt.Nodes[kids[0]].Distance; d != nil {
			branch = *d
		}
		weights[numLeaves+i] = weights[left] + branch
	}

	t, err := New(children, weights)
	if err != nil {
		return nil, nil, err
	}
	return t, leafNames, nil
}

// postorderInternals returns the internal (non-leaf) nodes of nt reachable
// from root, ordered so every internal node appears after both of its
// children. Each internal node must have exactly two children.
func postorderInternals(nt *newick.Tree, root int) ([]int, error) {
	var order []int
	var visit func(i int) error
	visit = func(i int) error {
		kids := nt.Children(i)
		if len(kids) == 0 {
			return nil
		}
		if len(kids) != 2 {
			return fmt.Errorf("%w: node %q has %d children, want 2", ErrInvariant, nt.Nodes[i].Name, len(kids))
		}
		for _, k := range kids {
			if err := visit(k); err != nil {
				return err
			}
		}
		order = append(order, i)
		return nil
	}
	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}
