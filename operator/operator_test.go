package operator_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/aspartik-go/b3/dna"
	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/likelihood/cpu"
	"github.com/aspartik-go/b3/operator"
	"github.com/aspartik-go/b3/parameter"
	"github.com/aspartik-go/b3/proposal"
	"github.com/aspartik-go/b3/rng"
	"github.com/aspartik-go/b3/state"
	"github.com/aspartik-go/b3/substitution"
	"github.com/aspartik-go/b3/tree"
	"github.com/stretchr/testify/require"
)

// fourTaxon builds ((0,1)4,(2,3)5)6, matching the fixture used to test
// the tree package's own SwapParents and SPR logic, so the operators
// exercise the same grandparent/uncle relationships.
func fourTaxon(t *testing.T) *tree.Tree {
	t.Helper()
	children := []int{0, 1, 2, 3, 4, 5}
	weights := []float64{0, 0, 0, 0, 1, 1, 2}
	tr, err := tree.New(children, weights)
	require.NoError(t, err)
	return tr
}

func newState(t *testing.T, seed uint64) *state.State {
	t.Helper()

	seqs := []string{"ACGT", "ACGA", "ACGG", "ACGC"}
	sites := make([][]likelihood.Row, 4)
	for col := 0; col < 4; col++ {
		sites[col] = make([]likelihood.Row, 4)
		for leaf, seq := range seqs {
			b, err := dna.ParseBase(seq[col])
			require.NoError(t, err)
			sites[col][leaf] = b.Row()
		}
	}

	model, err := substitution.JukesCantor()
	require.NoError(t, err)

	tr := fourTaxon(t)
	backend := cpu.New(sites)
	rngSrc := rand.New(rng.NewPCG64(0, seed, 0, 1))

	params := map[string]parameter.Parameter{
		"kappa": &parameter.RealParam{Values: []float64{2.0, 3.0}},
	}

	s := state.New(tr, params, model, backend, rngSrc)
	s.ScaleAllWeights(1.0)
	s.Accept()
	return s
}

func requireFiniteOnHastings(t *testing.T, p proposal.Proposal) {
	t.Helper()
	if p.Status == proposal.Hastings && math.IsNaN(p.Ratio) {
		t.Fatal("Hastings ratio is NaN")
	}
}

func TestNarrowExchangeNeverPanics(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		s := newState(t, seed)
		op := operator.NewNarrowExchange(1.0)
		p := op.Propose(s)
		requireFiniteOnHastings(t, p)
		if p.Status == proposal.Hastings {
			s.Accept()
		} else {
			s.Reject()
		}
	}
}

func TestWideExchangeNeverPanics(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		s := newState(t, seed)
		op := operator.NewWideExchange(1.0)
		p := op.Propose(s)
		requireFiniteOnHastings(t, p)
		if p.Status == proposal.Hastings && p.Ratio != 0 {
			t.Errorf("WideExchange should always propose Hastings(0), got %v", p.Ratio)
		}
		if p.Status == proposal.Hastings {
			s.Accept()
		} else {
			s.Reject()
		}
	}
}

func TestSlideProposesSymmetrically(t *testing.T) {
	dist := distribution.Normal{Mean: 0, StdDev: 1}
	for seed := uint64(1); seed <= 20; seed++ {
		s := newState(t, seed)
		op := operator.NewSlide(dist, 1.0)

		p := op.Propose(s)
		requireFiniteOnHastings(t, p)
		if p.Status == proposal.Hastings && p.Ratio != 0 {
			t.Errorf("Slide should always propose Hastings(0), got %v", p.Ratio)
		}
	}
}

func TestScaleProducesConsistentHastingsRatio(t *testing.T) {
	s := newState(t, 7)
	dist := distribution.Uniform{}
	op := operator.NewScale(0.5, dist, 1.0)

	rootBefore := s.Tree().WeightOf(s.Tree().Root().Node())
	numInternals := s.Tree().NumInternals()

	p := op.Propose(s)
	if p.Status != proposal.Hastings {
		t.Fatalf("expected Hastings proposal, got %v", p.Status)
	}

	rootAfter := s.Tree().WeightOf(s.Tree().Root().Node())
	scale := rootAfter / rootBefore
	want := math.Log(scale) * float64(numInternals-2)
	if math.Abs(p.Ratio-want) > 1e-9 {
		t.Errorf("Hastings ratio = %v, want %v", p.Ratio, want)
	}
}

func TestParamScaleMultipliesOneDimension(t *testing.T) {
	s := newState(t, 11)
	dist := distribution.Uniform{}
	op := operator.NewParamScale("kappa", 0.5, dist, 1.0)

	before := append([]float64(nil), mustReal(t, s, "kappa").Values...)

	p := op.Propose(s)
	if p.Status != proposal.Hastings {
		t.Fatalf("expected Hastings proposal, got %v", p.Status)
	}

	after := mustReal(t, s, "kappa").Values
	changed := 0
	for i := range before {
		if before[i] != after[i] {
			changed++
			ratio := after[i] / before[i]
			want := math.Log(ratio)
			if math.Abs(p.Ratio-want) > 1e-9 {
				t.Errorf("Hastings ratio = %v, want %v", p.Ratio, want)
			}
		}
	}
	if changed != 1 {
		t.Errorf("expected exactly one dimension to change, got %d", changed)
	}
}

func TestParamScaleRejectsUnknownParam(t *testing.T) {
	s := newState(t, 1)
	dist := distribution.Uniform{}
	op := operator.NewParamScale("missing", 0.5, dist, 1.0)

	p := op.Propose(s)
	if p.Status != proposal.Reject {
		t.Errorf("expected Reject for an unknown parameter, got %v", p.Status)
	}
}

func TestParamScaleRejectsOutOfBoundsScale(t *testing.T) {
	s := newState(t, 5)
	rp := mustReal(t, s, "kappa")
	rp.Values = rp.Values[:1] // single dimension, so ParamScale always picks index 0
	bound := rp.Values[0]
	rp.Min, rp.Max = &bound, &bound

	dist := distribution.Uniform{}
	op := operator.NewParamScale("kappa", 0.5, dist, 1.0)

	p := op.Propose(s)
	if p.Status != proposal.Reject {
		t.Errorf("expected Reject when the scaled value leaves [Min, Max], got %v", p.Status)
	}
	if rp.Values[0] != bound {
		t.Errorf("expected the out-of-bounds edit to be undone, got %v want %v", rp.Values[0], bound)
	}
}

func mustReal(t *testing.T, s *state.State, name string) *parameter.RealParam {
	t.Helper()
	rp, ok := s.RealParam(name)
	if !ok {
		t.Fatalf("expected real parameter %q to exist", name)
	}
	return rp
}
