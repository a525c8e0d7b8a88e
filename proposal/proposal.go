// Package proposal defines the value an operator hands back to the MCMC
// driver after speculatively editing a State: accept outright, reject
// outright, or defer to a Metropolis-Hastings likelihood comparison with a
// given log Hastings ratio. It has no dependencies so both operator and
// state can depend on it without a cycle.
package proposal

// Status discriminates how a Proposal should be resolved.
type Status int

const (
	// Accept commits the operator's edit unconditionally, e.g. a
	// symmetric move that needs no likelihood comparison.
	Accept Status = iota
	// Reject discards the operator's edit unconditionally, e.g. because
	// a precondition for the move did not hold.
	Reject
	// Hastings defers to the driver's Metropolis-Hastings comparison,
	// carrying the log Hastings ratio of the proposal kernel.
	Hastings
)

func (s Status) String() string {
	switch s {
	case Accept:
		return "Accept"
	case Reject:
		return "Reject"
	case Hastings:
		return "Hastings"
	default:
		return "Status(?)"
	}
}

// Proposal is the value-typed record an operator returns. Ratio is only
// meaningful when Status is Hastings.
type Proposal struct {
	Status Status
	Ratio  float64
}

// AcceptProposal builds an unconditionally-accepted proposal.
func AcceptProposal() Proposal { return Proposal{Status: Accept} }

// RejectProposal builds an unconditionally-rejected proposal.
func RejectProposal() Proposal { return Proposal{Status: Reject} }

// HastingsProposal builds a proposal deferring to a log Hastings ratio.
func HastingsProposal(logRatio float64) Proposal {
	return Proposal{Status: Hastings, Ratio: logRatio}
}
