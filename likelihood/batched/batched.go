// Package batched is the "GPU-style" likelihood backend: it partitions
// alignment sites into fixed-size work groups and fans each group out to
// a worker goroutine, mirroring a compute-shader dispatch without a real
// device queue. Propose always fences on every work group via
// errgroup.Wait before returning, matching the contract that submission
// is synchronous.
package batched

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/skvec"
	"github.com/aspartik-go/b3/transitions"
)

// GroupSize is the number of sites assigned to a single work group,
// analogous to a compute shader's local work-group size.
const GroupSize = 64

// Backend is the batched likelihood.Backend.
type Backend struct {
	sites        []*skvec.SkVec[likelihood.Row]
	updatedNodes []int
}

// New builds a Backend from the per-site leaf rows, identically to the
// cpu backend's New.
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

// Propose implements likelihood.Backend, distributing the per-site update
// work across GroupSize-sized work groups processed concurrently.
func (b *Backend) Propose(nodes []int, trans []transitions.Matrix, children []int) float64 {
	if len(trans) != len(nodes)*2 || len(children) != len(nodes)*2 {
		panic("batched: trans and children must each have 2 entries per node")
	}

	b.updatedNodes = append(b.updatedNodes[:0], nodes...)
	root := nodes[len(nodes)-1]

	partials := make([]float64, len(b.sites))

	var g errgroup.Group
	for start := 0; start < len(b.sites); start += GroupSize {
		start := start
		end := start + GroupSize
		if end > len(b.sites) {
			end = len(b.sites)
		}

		g.Go(func() error {
			for s := start; s < end; s++ {
				site := b.sites[s]
				for i, node := range nodes {
					leftChild := site.Index(children[i*2])
					rightChild := site.Index(children[i*2+1])

					left := likelihood.ApplyTransition(trans[i*2], leftChild)
					right := likelihood.ApplyTransition(trans[i*2+1], rightChild)

					site.Set(node, likelihood.MulRow(left, right))
				}
				partials[s] = math.Log(likelihood.SumRow(site.Index(root)))
			}
			return nil
		})
	}
	// Worker bodies never return an error; Wait only fences.
	_ = g.Wait()

	var total float64
	for _, p := range partials {
		total += p
	}
	return total
}

// Accept implements likelihood.Backend.
func (b *Backend) Accept() {
	var g errgroup.Group
	for _, site := range b.sites {
		site := site
		g.Go(func() error {
			site.Accept()
			return nil
		})
	}
	_ = g.Wait()
	b.updatedNodes = b.updatedNodes[:0]
}

// Reject implements likelihood.Backend.
func (b *Backend) Reject() {
	nodes := b.updatedNodes
	b.updatedNodes = nil

	var g errgroup.Group
	for _, site := range b.sites {
		site := site
		g.Go(func() error {
			for _, node := range nodes {
				site.Unset(node)
			}
			return nil
		})
	}
	_ = g.Wait()
}
