// Package likelihood computes Felsenstein pruning log-likelihoods over a
// rooted binary tree, behind a Backend interface so the same proposal
// protocol can run on a single goroutine or fan out across a worker pool.
package likelihood

import "github.com/aspartik-go/b3/transitions"

// Row is a per-site conditional likelihood vector over the four DNA
// states, in A, C, G, T order.
type Row = [4]float64

// Backend computes and versions the per-site conditional likelihood
// tables of a tree. Node indices follow the tree package's convention:
// 0..numLeaves-1 are leaves, numLeaves.. are internal nodes.
//
// Propose recomputes the conditional likelihood of every node in nodes,
// in the order given (children before parents), using transitions[2*i]
// and transitions[2*i+1] as the left/right transition matrices and
// children[2*i]/children[2*i+1] as the left/right child indices for
// nodes[i]. It returns the total log-likelihood across all sites with
// the proposed values active. The edit is speculative until Accept or
// Reject.
type Backend interface {
	Propose(nodes []int, trans []transitions.Matrix, children []int) float64
	Accept()
	Reject()
}

// MulRow returns the elementwise product of two rows, used to combine a
// node's left and right partial likelihoods.
func MulRow(a, b Row) Row {
	return Row{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

// ApplyTransition returns the row obtained by propagating child along the
// given transition matrix: result[i] = sum_j m[i][j] * child[j].
func ApplyTransition(m transitions.Matrix, child Row) Row {
	var out Row
	for i := 0; i < 4; i++ {
		var sum float64
		for j := 0; j < 4; j++ {
			sum += m[i][j] * child[j]
		}
		out[i] = sum
	}
	return out
}

// SumRow returns the sum of a row's entries, whose log is a site's partial
// log-likelihood once the row at the root is known.
func SumRow(r Row) float64 {
	return r[0] + r[1] + r[2] + r[3]
}
