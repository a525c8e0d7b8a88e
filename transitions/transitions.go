// Package transitions caches per-edge finite-time transition probability
// matrices, versioned the same way as the likelihood tables they feed:
// a branch-length edit proposes new matrices for the affected edges, and
// the proposal is later accepted or rejected as a whole.
package transitions

import (
	"github.com/aspartik-go/b3/skvec"
	"github.com/aspartik-go/b3/substitution"
)

// Matrix is a 4x4 transition probability matrix for one edge.
type Matrix = [substitution.N][substitution.N]float64

// Cache holds one Matrix per edge, indexed the same way tree.Tree indexes
// its children array: edge e runs from internal node numLeaves+e/2 to its
// child tree.ChildAt(e).
type Cache struct {
	matrices *skvec.SkVec[Matrix]
}

// New builds a Cache with numEdges identity matrices, to be filled in by
// the first Propose call.
func New(numEdges int) *Cache {
	var identity Matrix
	for i := range identity {
		identity[i][i] = 1
	}
	return &Cache{matrices: skvec.Repeat(identity, numEdges)}
}

// Len returns the number of cached edges.
func (c *Cache) Len() int {
	return c.matrices.Len()
}

// Matrix returns the active transition matrix for edge e.
func (c *Cache) Matrix(e int) Matrix {
	return c.matrices.Index(e)
}

// Propose recomputes the transition matrix for each edge in edges, given
// its new branch length (by index matching edges) and the substitution
// model to exponentiate. The edits are speculative until Accept or Reject.
func (c *Cache) Propose(edges []int, lengths []float64, model *substitution.Model) {
	for i, e := range edges {
		c.matrices.Set(e, model.Transition(lengths[i]))
	}
}

// Accept commits every proposed edge.
func (c *Cache) Accept() {
	c.matrices.Accept()
}

// Reject discards every proposed edge, restoring the matrices active at
// the last Accept or Reject.
func (c *Cache) Reject() {
	c.matrices.Reject()
}
