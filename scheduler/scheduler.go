// Package scheduler selects which operator proposes the next MCMC step,
// weighted categorically by each operator's relative weight.
package scheduler

import (
	"errors"
	"math/rand"

	"github.com/aspartik-go/b3/operator"
)

var (
	// ErrNoOperators is returned by NewWeighted when given an empty
	// operator list.
	ErrNoOperators = errors.New("scheduler: operator list must not be empty")
	// ErrNonPositiveWeight is returned by NewWeighted when the
	// operators' weights sum to zero or less.
	ErrNonPositiveWeight = errors.New("scheduler: total operator weight must be positive")
)

// Weighted selects one operator per step by categorical sampling
// proportional to each operator's Weight(): a cumulative-weight scan
// against a single uniform draw in [0, total). This adapts the same
// cumulative-weight-scan-against-a-uniform-draw shape this codebase uses
// elsewhere for weighted sampling, generalized from integer weights drawn
// without replacement to float64 weights drawn with replacement — an
// MCMC step always selects exactly one operator, and the same operator
// may legitimately be selected again on the very next step.
type Weighted struct {
	operators  []operator.Operator
	cumulative []float64
	total      float64
}

// NewWeighted builds a Weighted scheduler over ops, whose Weight()
// values must sum to a positive total.
func NewWeighted(ops []operator.Operator) (*Weighted, error) {
	if len(ops) == 0 {
		return nil, ErrNoOperators
	}

	cumulative := make([]float64, len(ops))
	var total float64
	for i, op := range ops {
		total += op.Weight()
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, ErrNonPositiveWeight
	}

	return &Weighted{operators: ops, cumulative: cumulative, total: total}, nil
}

// Pick draws one operator, with probability proportional to its weight.
func (w *Weighted) Pick(rng *rand.Rand) operator.Operator {
	draw := rng.Float64() * w.total
	for i, c := range w.cumulative {
		if draw < c {
			return w.operators[i]
		}
	}
	// Only reachable via floating-point rounding at the top of the
	// range; the last operator is as valid a pick as any other.
	return w.operators[len(w.operators)-1]
}

// Len returns the number of operators in the scheduler.
func (w *Weighted) Len() int { return len(w.operators) }
