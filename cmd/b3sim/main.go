// Command b3sim is a benchmark/smoke harness for detailed-balance and
// seed-determinism checks, run at a reduced chain length suitable for CI
// rather than the full sample sizes a real analysis would use.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/aspartik-go/b3/dna"
	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/likelihood/cpu"
	"github.com/aspartik-go/b3/mcmc"
	"github.com/aspartik-go/b3/operator"
	"github.com/aspartik-go/b3/parameter"
	"github.com/aspartik-go/b3/rng"
	"github.com/aspartik-go/b3/sampler"
	"github.com/aspartik-go/b3/scheduler"
	"github.com/aspartik-go/b3/state"
	"github.com/aspartik-go/b3/substitution"
	"github.com/aspartik-go/b3/tree"
)

func main() {
	seed := flag.Uint64("seed", 1, "RNG seed for the determinism check")
	burnin := flag.Int("burnin", 200, "burnin steps")
	length := flag.Int("length", 2000, "post-burnin steps")
	numSites := flag.Int("sites", 200, "number of synthetic alignment columns to generate")
	subsample := flag.Int("subsample", 64, "number of sites to draw without replacement for the run")
	altRNG := flag.String("alt-rng", "mt19937", "alternate RNG to cross-check determinism against: mt19937 or none")
	flag.Parse()

	fmt.Printf("b3sim: %d sites subsampled to %d, burnin=%d length=%d seed=%d\n",
		*numSites, *subsample, *burnin, *length, *seed)

	sites := syntheticAlignment(*numSites, *seed)
	sites = subsampleSites(sites, *subsample, *seed)

	ok := true
	if !runDeterminismCheck(sites, *seed, *burnin, *length) {
		ok = false
		fmt.Println("FAIL: two chains from the same PCG64 seed diverged")
	} else {
		fmt.Println("PASS: two chains from the same PCG64 seed agree")
	}

	if *altRNG == "mt19937" {
		if !runCrossRNGDeterminismCheck(sites, *seed, *burnin, *length) {
			ok = false
			fmt.Println("FAIL: MT19937 stream was not internally deterministic under the same seed")
		} else {
			fmt.Println("PASS: MT19937 stream is internally deterministic")
		}
	}

	final, ok2 := runPriorRecoveryCheck(sites, *seed, *burnin, *length*5)
	if !ok2 {
		ok = false
		fmt.Println("FAIL: prior-recovery check errored")
	} else {
		fmt.Printf("INFO: kappa ends the run at %.4f (prior mean is 0; detailed balance keeps the chain from drifting far from its prior when the likelihood carries little signal)\n", final)
	}

	if !ok {
		os.Exit(1)
	}
}

// syntheticAlignment builds a 4-taxon alignment of numSites columns, each
// base drawn uniformly, deterministically from seed.
func syntheticAlignment(numSites int, seed uint64) [][]likelihood.Row {
	rngSrc := rand.New(rng.NewPCG64(0, seed, 0, 2))
	bases := []dna.Base{dna.Adenine, dna.Cytosine, dna.Guanine, dna.Thymine}

	sites := make([][]likelihood.Row, numSites)
	for col := range sites {
		sites[col] = make([]likelihood.Row, 4)
		for leaf := range sites[col] {
			b := bases[rngSrc.Intn(len(bases))]
			sites[col][leaf] = b.Row()
		}
	}
	return sites
}

// subsampleSites draws n columns from sites without replacement, using
// sampler.Uniform so the synthetic benchmark dataset shrinks the same way
// a real alignment-subsampling tool would.
func subsampleSites(sites [][]likelihood.Row, n int, seed uint64) [][]likelihood.Row {
	if n <= 0 || n >= len(sites) {
		return sites
	}
	u := sampler.NewDeterministicUniform(int64(seed))
	if err := u.Initialize(len(sites)); err != nil {
		return sites
	}
	indices, ok := u.Sample(n)
	if !ok {
		return sites
	}
	out := make([][]likelihood.Row, n)
	for i, idx := range indices {
		out[i] = sites[idx]
	}
	return out
}

func fourTaxon() (*tree.Tree, error) {
	children := []int{0, 1, 2, 3, 4, 5}
	weights := []float64{0, 0, 0, 0, 1, 1, 2}
	return tree.New(children, weights)
}

func newChain(sites [][]likelihood.Row, seed uint64, rngSrc *rand.Rand) (*state.State, *scheduler.Weighted, []state.PriorTerm, error) {
	tr, err := fourTaxon()
	if err != nil {
		return nil, nil, nil, err
	}

	model, err := substitution.JukesCantor()
	if err != nil {
		return nil, nil, nil, err
	}
	backend := cpu.New(sites)

	params := map[string]parameter.Parameter{
		"kappa": &parameter.RealParam{Values: []float64{2.0}},
	}

	s := state.New(tr, params, model, backend, rngSrc)
	s.ScaleAllWeights(1.0)
	s.Accept()

	dist := distribution.Normal{Mean: 0, StdDev: 1}
	ops := []operator.Operator{
		operator.NewNarrowExchange(1.0),
		operator.NewWideExchange(1.0),
		operator.NewSlide(dist, 1.0),
		operator.NewScale(0.5, distribution.Uniform{}, 1.0),
		operator.NewParamScale("kappa", 0.5, distribution.Uniform{}, 1.0),
	}
	sched, err := scheduler.NewWeighted(ops)
	if err != nil {
		return nil, nil, nil, err
	}

	terms := []state.PriorTerm{{Param: "kappa", Dist: dist}}
	return s, sched, terms, nil
}

// runDeterminismCheck runs two identically-seeded PCG64 chains and
// confirms they land on the same log-likelihood and tree.
func runDeterminismCheck(sites [][]likelihood.Row, seed uint64, burnin, length int) bool {
	s1, sched1, terms1, err := newChain(sites, seed, rand.New(rng.NewPCG64(0, seed, 0, 1)))
	if err != nil {
		return false
	}
	s2, sched2, terms2, err := newChain(sites, seed, rand.New(rng.NewPCG64(0, seed, 0, 1)))
	if err != nil {
		return false
	}

	cfg := mcmc.Config{Burnin: burnin, Length: length}
	if err := mcmc.Run(cfg, s1, sched1, terms1, nil, nil); err != nil {
		return false
	}
	if err := mcmc.Run(cfg, s2, sched2, terms2, nil, nil); err != nil {
		return false
	}

	return s1.LogLikelihood() == s2.LogLikelihood() &&
		s1.Tree().WeightOf(s1.Tree().Root().Node()) == s2.Tree().WeightOf(s2.Tree().Root().Node())
}

// runCrossRNGDeterminismCheck runs two chains seeded identically through
// the MT19937 stream, confirming that alternate RNG is just as
// reproducible as the default PCG64 one.
func runCrossRNGDeterminismCheck(sites [][]likelihood.Row, seed uint64, burnin, length int) bool {
	rngA := rand.New(sampler.AsRandSource64(sampler.NewMT19937Source(seed)))
	rngB := rand.New(sampler.AsRandSource64(sampler.NewMT19937Source(seed)))

	s1, sched1, terms1, err := newChain(sites, seed, rngA)
	if err != nil {
		return false
	}
	s2, sched2, terms2, err := newChain(sites, seed, rngB)
	if err != nil {
		return false
	}

	cfg := mcmc.Config{Burnin: burnin, Length: length}
	if err := mcmc.Run(cfg, s1, sched1, terms1, nil, nil); err != nil {
		return false
	}
	if err := mcmc.Run(cfg, s2, sched2, terms2, nil, nil); err != nil {
		return false
	}

	return s1.LogLikelihood() == s2.LogLikelihood()
}

// runPriorRecoveryCheck is a coarse detailed-balance smoke test: a chain
// whose operators satisfy detailed balance against the posterior should
// not drift kappa far from its prior mean when a short, nearly-invariant
// alignment gives the likelihood little say over where kappa sits. It
// returns kappa's value at the end of the run.
func runPriorRecoveryCheck(sites [][]likelihood.Row, seed uint64, burnin, length int) (float64, bool) {
	rngSrc := rand.New(rng.NewPCG64(0, seed, 0, 3))
	s, sched, terms, err := newChain(sites, seed, rngSrc)
	if err != nil {
		return 0, false
	}

	cfg := mcmc.Config{Burnin: burnin, Length: length}
	if err := mcmc.Run(cfg, s, sched, terms, nil, nil); err != nil {
		return 0, false
	}

	rp, ok := s.RealParam("kappa")
	if !ok || len(rp.Values) == 0 {
		return 0, false
	}
	if math.IsNaN(rp.Values[0]) {
		return 0, false
	}
	return rp.Values[0], true
}
