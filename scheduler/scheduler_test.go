package scheduler_test

import (
	"math/rand"
	"testing"

	"github.com/aspartik-go/b3/operator"
	"github.com/aspartik-go/b3/proposal"
	"github.com/aspartik-go/b3/rng"
	"github.com/aspartik-go/b3/scheduler"
	"github.com/aspartik-go/b3/state"
)

type fakeOperator struct {
	name   string
	weight float64
}

func (f *fakeOperator) Weight() float64 { return f.weight }
func (f *fakeOperator) Name() string    { return f.name }
func (f *fakeOperator) Propose(s *state.State) proposal.Proposal {
	return proposal.RejectProposal()
}

func TestNewWeightedRejectsEmpty(t *testing.T) {
	if _, err := scheduler.NewWeighted(nil); err != scheduler.ErrNoOperators {
		t.Errorf("got %v, want ErrNoOperators", err)
	}
}

func TestNewWeightedRejectsNonPositiveTotal(t *testing.T) {
	ops := []operator.Operator{&fakeOperator{name: "a", weight: 0}}
	if _, err := scheduler.NewWeighted(ops); err != scheduler.ErrNonPositiveWeight {
		t.Errorf("got %v, want ErrNonPositiveWeight", err)
	}
}

func TestPickAlwaysReturnsAKnownOperator(t *testing.T) {
	ops := []operator.Operator{
		&fakeOperator{name: "a", weight: 1},
		&fakeOperator{name: "b", weight: 9},
	}
	sched, err := scheduler.NewWeighted(ops)
	if err != nil {
		t.Fatalf("NewWeighted: %v", err)
	}

	rngSrc := rand.New(rng.NewPCG64(0, 42, 0, 1))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		picked := sched.Pick(rngSrc)
		fo, ok := picked.(*fakeOperator)
		if !ok {
			t.Fatalf("Pick returned an operator not in the input list: %#v", picked)
		}
		seen[fo.name] = true
	}

	// With 500 draws and weights 1:9, both operators should be picked at
	// least once; the heavier one overwhelmingly.
	if len(seen) != 2 {
		t.Errorf("expected both operators to be picked at least once, saw %v", seen)
	}
}

func TestLenMatchesOperatorCount(t *testing.T) {
	ops := []operator.Operator{
		&fakeOperator{name: "a", weight: 1},
		&fakeOperator{name: "b", weight: 1},
		&fakeOperator{name: "c", weight: 1},
	}
	sched, err := scheduler.NewWeighted(ops)
	if err != nil {
		t.Fatalf("NewWeighted: %v", err)
	}
	if sched.Len() != 3 {
		t.Errorf("Len() = %d, want 3", sched.Len())
	}
}
