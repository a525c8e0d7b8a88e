package operator

import (
	"math"

	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/proposal"
	"github.com/aspartik-go/b3/state"
)

// Scale multiplies every node's height in the tree by a single factor
// drawn from Dist over [Factor, 1/Factor], preserving topology and every
// node's relative ordering. Its Hastings ratio corrects for the
// log-Jacobian of scaling every internal node but the root and one other
// degree of freedom.
type Scale struct {
	Factor float64
	Dist   distribution.Distribution
	weight float64
}

// NewScale builds a tree Scale operator. factor must be in (0, 1); the
// proposed scale is drawn from [factor, 1/factor].
func NewScale(factor float64, dist distribution.Distribution, weight float64) *Scale {
	if !(factor > 0 && factor < 1) {
		panic("operator: Scale factor must be in (0, 1)")
	}
	return &Scale{Factor: factor, Dist: dist, weight: weight}
}

func (o *Scale) Weight() float64 { return o.weight }

func (o *Scale) Name() string { return "scale" }

func (o *Scale) Propose(s *state.State) proposal.Proposal {
	rng := s.RNG()

	scale, err := distribution.RandomRange(o.Dist, o.Factor, 1.0/o.Factor, rng)
	if err != nil {
		return proposal.RejectProposal()
	}

	s.ScaleAllWeights(scale)

	ratio := math.Log(scale) * float64(s.Tree().NumInternals()-2)
	return proposal.HastingsProposal(ratio)
}
