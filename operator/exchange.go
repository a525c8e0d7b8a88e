package operator

import (
	"math"

	"github.com/aspartik-go/b3/proposal"
	"github.com/aspartik-go/b3/state"
	"github.com/aspartik-go/b3/tree"
)

// NarrowExchange swaps an internal node's uncle with one of its own
// children, where the node is the younger (lower-height) and the uncle the
// older (higher-height) of the two children of a "grandparent" (an internal node with at least one
// internal child). Its Hastings ratio corrects for the change in the
// number of such grandparents the move induces.
type NarrowExchange struct {
	weight float64
}

// NewNarrowExchange builds a NarrowExchange with the given scheduler
// weight.
func NewNarrowExchange(weight float64) *NarrowExchange {
	return &NarrowExchange{weight: weight}
}

func (o *NarrowExchange) Weight() float64 { return o.weight }

func (o *NarrowExchange) Name() string { return "narrow-exchange" }

func isGrandparent(t *tree.Tree, n tree.Internal) bool {
	left, right := t.ChildrenOf(n)
	return t.IsInternal(left) || t.IsInternal(right)
}

func (o *NarrowExchange) Propose(s *state.State) proposal.Proposal {
	t := s.Tree()
	rng := s.RNG()

	if t.NumInternals() < 2 {
		return proposal.RejectProposal()
	}

	var grandparent tree.Internal
	for {
		grandparent = t.SampleInternal(rng)
		if isGrandparent(t, grandparent) {
			break
		}
	}

	left, right := t.ChildrenOf(grandparent)
	parent, uncle := left, right
	if t.WeightOf(left) > t.WeightOf(right) {
		parent, uncle = right, left
	}
	if t.WeightOf(parent) == t.WeightOf(uncle) {
		return proposal.RejectProposal()
	}

	parentInternal, ok := t.AsInternal(parent)
	if !ok {
		return proposal.RejectProposal()
	}
	uncleInternal, ok := t.AsInternal(uncle)
	if !ok {
		return proposal.RejectProposal()
	}

	numGrandparentsBefore := 0
	for _, n := range t.Internals() {
		if isGrandparent(t, n) {
			numGrandparentsBefore++
		}
	}
	before := 0
	if isGrandparent(t, parentInternal) {
		before++
	}
	if isGrandparent(t, uncleInternal) {
		before++
	}

	l, r := t.ChildrenOf(parentInternal)
	child := l
	if rng.Float64() < 0.5 {
		child = r
	}

	s.SwapParents(uncleInternal.Node(), child)

	after := 0
	if isGrandparent(t, parentInternal) {
		after++
	}
	if isGrandparent(t, uncleInternal) {
		after++
	}

	numGrandparentsAfter := numGrandparentsBefore - before + after
	if numGrandparentsAfter <= 0 {
		return proposal.RejectProposal()
	}

	ratio := math.Log(float64(numGrandparentsBefore) / float64(numGrandparentsAfter))
	return proposal.HastingsProposal(ratio)
}

// WideExchange swaps the parents of two independently sampled nodes,
// subject to the time-consistency constraint that neither node ends up
// above its new parent. It proposes symmetrically, so its Hastings ratio
// is always 0.
type WideExchange struct {
	weight float64
}

// NewWideExchange builds a WideExchange with the given scheduler weight.
func NewWideExchange(weight float64) *WideExchange {
	return &WideExchange{weight: weight}
}

func (o *WideExchange) Weight() float64 { return o.weight }

func (o *WideExchange) Name() string { return "wide-exchange" }

func (o *WideExchange) Propose(s *state.State) proposal.Proposal {
	t := s.Tree()
	rng := s.RNG()

	i := t.SampleNode(rng)
	var j tree.Node
	for {
		j = t.SampleNode(rng)
		if j != i {
			break
		}
	}

	iParent, ok := t.ParentOf(i)
	if !ok {
		return proposal.RejectProposal()
	}
	jParent, ok := t.ParentOf(j)
	if !ok {
		return proposal.RejectProposal()
	}

	if j != iParent.Node() &&
		t.WeightOf(j) < t.WeightOf(iParent.Node()) &&
		t.WeightOf(i) < t.WeightOf(jParent.Node()) {
		s.SwapParents(i, j)
		return proposal.HastingsProposal(0.0)
	}
	return proposal.RejectProposal()
}
