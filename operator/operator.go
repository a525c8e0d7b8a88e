// Package operator implements the Metropolis-Hastings proposal kernels
// that edit a state.State's tree and parameters: two topology moves
// (NarrowExchange, WideExchange), a node-height move (Slide), and two
// multiplicative scale moves (Scale for the whole tree, ParamScale for
// one dimension of a named real parameter).
package operator

import (
	"github.com/aspartik-go/b3/proposal"
	"github.com/aspartik-go/b3/state"
)

// Operator proposes one speculative edit to a State and reports how the
// chain driver should resolve it: outright accept, outright reject, or a
// Metropolis-Hastings comparison carrying a log Hastings ratio. An
// operator draws its randomness from s.RNG(), the chain's own stream.
// Weight is this operator's relative selection probability in a weighted
// scheduler. Name identifies the operator in logs and per-operator
// acceptance metrics.
type Operator interface {
	Propose(s *state.State) proposal.Proposal
	Weight() float64
	Name() string
}
