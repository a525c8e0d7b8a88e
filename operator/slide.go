package operator

import (
	"math"

	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/proposal"
	"github.com/aspartik-go/b3/state"
)

// Slide redraws a single internal node's height from Dist, truncated to
// the only range that keeps the tree time-consistent: above the taller of
// its two children and below its own parent. It never changes the tree's
// topology, so its Hastings ratio is always 0.
type Slide struct {
	Dist   distribution.Distribution
	weight float64
}

// NewSlide builds a Slide operator drawing new heights from dist.
func NewSlide(dist distribution.Distribution, weight float64) *Slide {
	return &Slide{Dist: dist, weight: weight}
}

func (o *Slide) Weight() float64 { return o.weight }

func (o *Slide) Name() string { return "slide" }

func (o *Slide) Propose(s *state.State) proposal.Proposal {
	t := s.Tree()
	rng := s.RNG()

	node := t.SampleInternal(rng)
	parent, ok := t.ParentOf(node.Node())
	if !ok {
		return proposal.RejectProposal()
	}

	left, right := t.ChildrenOf(node)
	weight := t.WeightOf(node.Node())
	low := math.Max(t.WeightOf(left), t.WeightOf(right))
	high := t.WeightOf(parent.Node())

	newWeight, err := distribution.RandomRangeWith(o.Dist, low, high, weight, rng)
	if err != nil {
		return proposal.RejectProposal()
	}

	s.SetWeight(node.Node(), newWeight)
	return proposal.HastingsProposal(0.0)
}
