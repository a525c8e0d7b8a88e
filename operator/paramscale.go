package operator

import (
	"math"

	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/proposal"
	"github.com/aspartik-go/b3/state"
)

// ParamScale multiplies one uniformly chosen dimension of a named real
// parameter by a factor drawn from Dist over [Factor, 1/Factor]. Its
// Hastings ratio is the log-Jacobian of a single-dimension multiplicative
// move, ln(scale).
type ParamScale struct {
	Param  string
	Factor float64
	Dist   distribution.Distribution
	weight float64
}

// NewParamScale builds a ParamScale operator over the named real
// parameter. factor must be in (0, 1); the proposed scale is drawn from
// [factor, 1/factor].
func NewParamScale(param string, factor float64, dist distribution.Distribution, weight float64) *ParamScale {
	if !(factor > 0 && factor < 1) {
		panic("operator: ParamScale factor must be in (0, 1)")
	}
	return &ParamScale{Param: param, Factor: factor, Dist: dist, weight: weight}
}

func (o *ParamScale) Weight() float64 { return o.weight }

func (o *ParamScale) Name() string { return "param-scale:" + o.Param }

func (o *ParamScale) Propose(s *state.State) proposal.Proposal {
	rng := s.RNG()

	rp, ok := s.RealParam(o.Param)
	if !ok || rp.Len() == 0 {
		return proposal.RejectProposal()
	}

	scale, err := distribution.RandomRange(o.Dist, o.Factor, 1.0/o.Factor, rng)
	if err != nil {
		return proposal.RejectProposal()
	}

	index := rng.Intn(rp.Len())
	if !s.ScaleRealParam(o.Param, index, scale) {
		return proposal.RejectProposal()
	}

	return proposal.HastingsProposal(math.Log(scale))
}
