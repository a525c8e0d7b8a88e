package mcmc_test

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/aspartik-go/b3/dna"
	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/likelihood/cpu"
	"github.com/aspartik-go/b3/mcmc"
	"github.com/aspartik-go/b3/mcmclog"
	"github.com/aspartik-go/b3/operator"
	"github.com/aspartik-go/b3/parameter"
	"github.com/aspartik-go/b3/rng"
	"github.com/aspartik-go/b3/scheduler"
	"github.com/aspartik-go/b3/state"
	"github.com/aspartik-go/b3/substitution"
	"github.com/aspartik-go/b3/telemetry"
	"github.com/aspartik-go/b3/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fourTaxon builds ((0,1)4,(2,3)5)6, the same fixture the operator
// package's own tests use.
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

func newScheduler(t *testing.T) *scheduler.Weighted {
	t.Helper()
	dist := distribution.Normal{Mean: 0, StdDev: 1}
	ops := []operator.Operator{
		operator.NewNarrowExchange(1.0),
		operator.NewWideExchange(1.0),
		operator.NewSlide(dist, 1.0),
		operator.NewScale(0.5, distribution.Uniform{}, 1.0),
		operator.NewParamScale("kappa", 0.5, distribution.Uniform{}, 1.0),
	}
	sched, err := scheduler.NewWeighted(ops)
	require.NoError(t, err)
	return sched
}

func priorTerms() []state.PriorTerm {
	return []state.PriorTerm{
		{Param: "kappa", Dist: distribution.Normal{Mean: 0, StdDev: 1}},
	}
}

func TestRunProducesFiniteLikelihood(t *testing.T) {
	s := newState(t, 1)
	sched := newScheduler(t)

	err := mcmc.Run(mcmc.Config{Burnin: 10, Length: 50}, s, sched, priorTerms(), nil, nil)
	require.NoError(t, err)

	if math.IsNaN(s.LogLikelihood()) || math.IsInf(s.LogLikelihood(), 0) {
		t.Errorf("log-likelihood not finite after run: %v", s.LogLikelihood())
	}
}

func TestRunIsDeterministicForAGivenSeed(t *testing.T) {
	s1 := newState(t, 99)
	s2 := newState(t, 99)
	sched1 := newScheduler(t)
	sched2 := newScheduler(t)

	cfg := mcmc.Config{Burnin: 5, Length: 30}
	require.NoError(t, mcmc.Run(cfg, s1, sched1, priorTerms(), nil, nil))
	require.NoError(t, mcmc.Run(cfg, s2, sched2, priorTerms(), nil, nil))

	if s1.LogLikelihood() != s2.LogLikelihood() {
		t.Errorf("two runs from the same seed diverged: %v vs %v", s1.LogLikelihood(), s2.LogLikelihood())
	}

	root1 := s1.Tree().WeightOf(s1.Tree().Root().Node())
	root2 := s2.Tree().WeightOf(s2.Tree().Root().Node())
	if root1 != root2 {
		t.Errorf("root heights diverged: %v vs %v", root1, root2)
	}
}

func TestRunLogsAfterBurninAtConfiguredCadence(t *testing.T) {
	s := newState(t, 5)
	sched := newScheduler(t)

	var buf bytes.Buffer
	logger := &mcmclog.Logger{LogEvery: 5, Dst: &buf, Parameters: []string{"kappa"}}

	require.NoError(t, mcmc.Run(mcmc.Config{Burnin: 10, Length: 40}, s, sched, priorTerms(), logger, nil))

	if buf.Len() == 0 {
		t.Error("expected at least one logged line after burnin")
	}
}

func TestRunRecordsTelemetry(t *testing.T) {
	s := newState(t, 3)
	sched := newScheduler(t)

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.New(reg)
	require.NoError(t, err)

	require.NoError(t, mcmc.Run(mcmc.Config{Burnin: 5, Length: 20}, s, sched, priorTerms(), nil, metrics))

	families, err := reg.Gather()
	require.NoError(t, err)
	if len(families) == 0 {
		t.Error("expected telemetry to register metric families")
	}
}

func TestRunDumpsTreesAtCadence(t *testing.T) {
	s := newState(t, 5)
	sched := newScheduler(t)

	var trees bytes.Buffer
	cfg := mcmc.Config{Burnin: 10, Length: 40, TreesEvery: 5, TreesDst: &trees}

	require.NoError(t, mcmc.Run(cfg, s, sched, priorTerms(), nil, nil))

	if trees.Len() == 0 {
		t.Error("expected at least one tree dump after burnin")
	}
}

func TestRunSkipsLoggingDuringBurnin(t *testing.T) {
	s := newState(t, 5)
	sched := newScheduler(t)

	var buf bytes.Buffer
	logger := &mcmclog.Logger{LogEvery: 1, Dst: &buf, Parameters: []string{"kappa"}}

	require.NoError(t, mcmc.Run(mcmc.Config{Burnin: 1000, Length: 1}, s, sched, priorTerms(), logger, nil))

	if buf.Len() != 0 {
		t.Errorf("expected no logged lines while still in burnin, got %q", buf.String())
	}
}
