package state_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/aspartik-go/b3/dna"
	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/likelihood/cpu"
	"github.com/aspartik-go/b3/parameter"
	"github.com/aspartik-go/b3/rng"
	"github.com/aspartik-go/b3/state"
	"github.com/aspartik-go/b3/substitution"
	"github.com/aspartik-go/b3/tree"
	"github.com/stretchr/testify/require"
)

// threeTaxon builds ((0,1)3,2)4: leaves 0,1,2; internal 3 is the parent
// of leaves 0 and 1; the root, 4, is the parent of 3 and leaf 2.
func threeTaxon(t *testing.T) *tree.Tree {
	t.Helper()
	children := []int{0, 1, 3, 2}
	weights := []float64{0, 0, 0, 0.15, 0.3}
	tr, err := tree.New(children, weights)
	require.NoError(t, err)
	return tr
}

func newState(t *testing.T) *state.State {
	t.Helper()

	seqs := []string{"ACGT", "ACGA", "ACGG"}
	sites := make([][]likelihood.Row, 4)
	for col := 0; col < 4; col++ {
		sites[col] = make([]likelihood.Row, 3)
		for leaf, seq := range seqs {
			b, err := dna.ParseBase(seq[col])
			require.NoError(t, err)
			sites[col][leaf] = b.Row()
		}
	}

	model, err := substitution.JukesCantor()
	require.NoError(t, err)

	tr := threeTaxon(t)
	backend := cpu.New(sites)
	rngSrc := rand.New(rng.NewPCG64(0, 1, 0, 1))

	params := map[string]parameter.Parameter{
		"kappa": &parameter.RealParam{Values: []float64{2.0}},
	}

	s := state.New(tr, params, model, backend, rngSrc)
	// ScaleAllWeights(1.0) is a no-op on the heights themselves but forces
	// every edge and node to be proposed once, so the caches start fully
	// populated instead of at their all-identity zero value.
	s.ScaleAllWeights(1.0)
	s.Accept()
	return s
}

func TestSetWeightRecomputesLikelihood(t *testing.T) {
	s := newState(t)
	ll := s.LogLikelihood()
	if math.IsNaN(ll) || ll == 0 {
		t.Fatalf("unexpected log-likelihood after setup: %v", ll)
	}

	next := s.SetWeight(tree.Node(3), 0.5)
	if next == ll {
		t.Error("expected log-likelihood to change after a weight edit")
	}
	if math.IsNaN(next) {
		t.Fatal("log-likelihood is NaN")
	}
}

func TestRejectRestoresTreeAndLikelihood(t *testing.T) {
	s := newState(t)
	before := s.LogLikelihood()
	beforeWeight := s.Tree().WeightOf(tree.Node(3))

	s.SetWeight(tree.Node(3), 5.0)
	s.Reject()

	if s.Tree().WeightOf(tree.Node(3)) != beforeWeight {
		t.Errorf("weight not restored: got %v, want %v", s.Tree().WeightOf(tree.Node(3)), beforeWeight)
	}

	again := s.SetWeight(tree.Node(3), beforeWeight)
	if math.Abs(again-before) > 1e-9 {
		t.Errorf("log-likelihood after reject+replay = %v, want %v", again, before)
	}
}

func TestAcceptClearsSnapshots(t *testing.T) {
	s := newState(t)
	s.SetWeight(tree.Node(3), 0.5)
	s.Accept()

	// A reject with no pending edit must be a harmless no-op.
	weight := s.Tree().WeightOf(tree.Node(3))
	s.Reject()
	if s.Tree().WeightOf(tree.Node(3)) != weight {
		t.Error("reject with nothing pending should not change the tree")
	}
}

func TestScaleAllWeightsScalesEveryNode(t *testing.T) {
	s := newState(t)
	before := make([]float64, s.Tree().NumNodes())
	for i := range before {
		before[i] = s.Tree().WeightOf(tree.Node(i))
	}

	s.ScaleAllWeights(2.0)

	for i, w := range before {
		got := s.Tree().WeightOf(tree.Node(i))
		if math.Abs(got-w*2.0) > 1e-12 {
			t.Errorf("node %d weight = %v, want %v", i, got, w*2.0)
		}
	}
}

func TestScaleRealParamSnapshotsAndRestores(t *testing.T) {
	s := newState(t)
	ok := s.ScaleRealParam("kappa", 0, 3.0)
	if !ok {
		t.Fatal("expected ScaleRealParam to succeed")
	}

	rp, _ := s.RealParam("kappa")
	if rp.Values[0] != 6.0 {
		t.Fatalf("kappa = %v, want 6.0", rp.Values[0])
	}

	s.Reject()
	rp, _ = s.RealParam("kappa")
	if rp.Values[0] != 2.0 {
		t.Errorf("kappa after reject = %v, want 2.0", rp.Values[0])
	}
}

func TestScaleRealParamRejectsUnknownName(t *testing.T) {
	s := newState(t)
	if s.ScaleRealParam("missing", 0, 2.0) {
		t.Error("expected ScaleRealParam to fail for an unknown parameter")
	}
}

func TestLogPriorSumsAcrossDimensions(t *testing.T) {
	s := newState(t)
	terms := []state.PriorTerm{
		{Param: "kappa", Dist: distribution.Normal{Mean: 0, StdDev: 1}},
	}

	got, err := s.LogPrior(terms)
	require.NoError(t, err)

	rp, _ := s.RealParam("kappa")
	var want float64
	for _, x := range rp.Values {
		d, err := distribution.PDF(distribution.Normal{Mean: 0, StdDev: 1}, x)
		require.NoError(t, err)
		want += math.Log(d)
	}
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("LogPrior = %v, want %v", got, want)
	}
}

func TestLogPriorRejectsUnknownParameter(t *testing.T) {
	s := newState(t)
	_, err := s.LogPrior([]state.PriorTerm{{Param: "missing", Dist: distribution.Normal{Mean: 0, StdDev: 1}}})
	if err == nil {
		t.Fatal("expected an error for an unknown parameter")
	}
}

func TestSwapParentsRecomputesLikelihood(t *testing.T) {
	s := newState(t)

	after := s.SwapParents(tree.Node(0), tree.Node(2))
	if math.IsNaN(after) {
		t.Fatal("log-likelihood is NaN after swap")
	}

	p0, _ := s.Tree().ParentOf(tree.Node(0))
	p2, _ := s.Tree().ParentOf(tree.Node(2))
	if p0 != 4 || p2 != 3 {
		t.Errorf("after swap: parent(0)=%d parent(2)=%d, want 4,3", p0, p2)
	}
}
