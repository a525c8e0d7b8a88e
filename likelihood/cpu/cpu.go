// Package cpu is the direct, single-goroutine Felsenstein pruning
// backend: one SkVec[Row] of conditional likelihoods per alignment site.
package cpu

import (
	"math"

	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/skvec"
	"github.com/aspartik-go/b3/transitions"
)

// Backend is the CPU likelihood.Backend: each site's conditional
// likelihood table is an independently versioned skvec.SkVec[Row].
type Backend struct {
	sites        []*skvec.SkVec[likelihood.Row]
	updatedNodes []int
}

// New builds a Backend from the per-site leaf rows. Each element of sites
// is one alignment column's leaf conditional likelihoods, in leaf-index
// order; internal node slots are filled with the zero row until the first
// Propose.
func New(sites [][]likelihood.Row) *Backend {
	numLeaves := len(sites[0])
	total := numLeaves*2 - 1

	b := &Backend{sites: make([]*skvec.SkVec[likelihood.Row], len(sites))}
	for i, column := range sites {
		v := skvec.Repeat(likelihood.Row{}, total)
		for j, row := range column {
			v.Set(j, row)
		}
		v.Accept()
		b.sites[i] = v
	}
	return b
}

// Propose implements likelihood.Backend.
func (b *Backend) Propose(nodes []int, trans []transitions.Matrix, children []int) float64 {
	if len(trans) != len(nodes)*2 || len(children) != len(nodes)*2 {
		panic("cpu: trans and children must each have 2 entries per node")
	}

	b.updatedNodes = append(b.updatedNodes[:0], nodes...)

	var total float64
	for _, site := range b.sites {
		for i, node := range nodes {
			leftChild := site.Index(children[i*2])
			rightChild := site.Index(children[i*2+1])

			left := likelihood.ApplyTransition(trans[i*2], leftChild)
			right := likelihood.ApplyTransition(trans[i*2+1], rightChild)

			site.Set(node, likelihood.MulRow(left, right))
		}
	}

	root := nodes[len(nodes)-1]
	for _, site := range b.sites {
		total += math.Log(likelihood.SumRow(site.Index(root)))
	}
	return total
}

// Accept implements likelihood.Backend.
func (b *Backend) Accept() {
	for _, site := range b.sites {
		site.Accept()
	}
	b.updatedNodes = b.updatedNodes[:0]
}

// Reject implements likelihood.Backend. Only the nodes touched by the
// last Propose are unset, matching the original's "no wasted work on
// untouched sites" behavior.
func (b *Backend) Reject() {
	nodes := b.updatedNodes
	b.updatedNodes = nil

	for _, site := range b.sites {
		for _, node := range nodes {
			site.Unset(node)
		}
	}
}
