// Command b3 runs one Bayesian phylogenetic MCMC chain from a FASTA
// alignment, a starting Newick tree, and an optional JSON config file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"

	"github.com/aspartik-go/b3/b3log"
	"github.com/aspartik-go/b3/config"
	"github.com/aspartik-go/b3/dna"
	"github.com/aspartik-go/b3/dna/fasta"
	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/likelihood/batched"
	"github.com/aspartik-go/b3/likelihood/cpu"
	"github.com/aspartik-go/b3/mcmc"
	"github.com/aspartik-go/b3/mcmclog"
	"github.com/aspartik-go/b3/newick"
	"github.com/aspartik-go/b3/operator"
	"github.com/aspartik-go/b3/parameter"
	"github.com/aspartik-go/b3/rng"
	"github.com/aspartik-go/b3/scheduler"
	"github.com/aspartik-go/b3/state"
	"github.com/aspartik-go/b3/substitution"
	"github.com/aspartik-go/b3/telemetry"
	"github.com/aspartik-go/b3/tree"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	fastaPath := flag.String("fasta", "", "FASTA alignment path (required)")
	treePath := flag.String("tree", "", "starting Newick tree path (required)")
	configPath := flag.String("config", "", "JSON config path (optional, defaults used otherwise)")
	seed := flag.Uint64("seed", 0, "RNG seed override (0 keeps the config's seed)")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on, e.g. :2112 (empty disables)")
	verbose := flag.Bool("verbose", false, "enable production (non-silent) operational logging")
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "b3: logger setup:", err)
		os.Exit(1)
	}

	if *fastaPath == "" || *treePath == "" {
		logger.Error("missing required flag", zap.Bool("fasta", *fastaPath != ""), zap.Bool("tree", *treePath != ""))
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("loading config", zap.Error(err))
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	tr, leafNames, err := loadTree(*treePath)
	if err != nil {
		logger.Error("loading tree", zap.Error(err))
		os.Exit(1)
	}

	sites, err := loadAlignment(*fastaPath, leafNames)
	if err != nil {
		logger.Error("loading alignment", zap.Error(err))
		os.Exit(1)
	}

	model, err := buildModel(cfg.Model, cfg.ModelParams)
	if err != nil {
		logger.Error("building substitution model", zap.Error(err))
		os.Exit(1)
	}

	backend, err := buildBackend(cfg.Backend, sites)
	if err != nil {
		logger.Error("building likelihood backend", zap.Error(err))
		os.Exit(1)
	}

	params, priorTerms := buildParams(cfg.ModelParams)

	rngSrc := rand.New(rng.NewPCG64(0, cfg.Seed, 0, 1))
	s := state.New(tr, params, model, backend, rngSrc)
	s.ScaleAllWeights(1.0)
	s.Accept()

	specs := fillDefaultDistributions(cfg.Operators)
	ops, err := operator.Build(specs)
	if err != nil {
		logger.Error("building operators", zap.Error(err))
		os.Exit(1)
	}
	sched, err := scheduler.NewWeighted(ops)
	if err != nil {
		logger.Error("building scheduler", zap.Error(err))
		os.Exit(1)
	}

	stateOut, err := os.Create(cfg.StateOutput)
	if err != nil {
		logger.Error("opening state output", zap.Error(err))
		os.Exit(1)
	}
	defer stateOut.Close()

	treesOut, err := os.Create(cfg.TreesOutput)
	if err != nil {
		logger.Error("opening trees output", zap.Error(err))
		os.Exit(1)
	}
	defer treesOut.Close()

	mcmcLogger := &mcmclog.Logger{
		LogEvery:   cfg.StateEvery,
		Dst:        stateOut,
		Parameters: s.ParamNames(),
	}

	metrics, err := telemetry.New(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("registering telemetry", zap.Error(err))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", telemetry.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		logger.Info("serving metrics", zap.String("addr", *metricsAddr))
	}

	logger.Info("starting chain",
		zap.Uint64("seed", cfg.Seed),
		zap.Int("burnin", cfg.Burnin),
		zap.Int("length", cfg.Length),
		zap.String("model", cfg.Model),
		zap.String("backend", cfg.Backend),
		zap.Int("leaves", len(leafNames)),
	)

	runCfg := mcmc.Config{
		Burnin:     cfg.Burnin,
		Length:     cfg.Length,
		TreesEvery: cfg.TreesEvery,
		TreesDst:   treesOut,
	}
	if err := mcmc.Run(runCfg, s, sched, priorTerms, mcmcLogger, metrics); err != nil {
		logger.Error("chain run failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("chain finished", zap.Float64("logLikelihood", s.LogLikelihood()))
}

func newLogger(verbose bool) (b3log.Logger, error) {
	if !verbose {
		return b3log.NewNoOp(), nil
	}
	return b3log.NewProduction()
}

// loadConfig reads cfg from path, or returns a short exploratory run with a
// default operator panel if path is empty. operator.Spec.Dist never
// round-trips through JSON (it carries a json:"-" tag, since
// distribution.Distribution has no generic decoding), so any operator list
// read from disk still needs fillDefaultDistributions before it can be
// built.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewBuilder().
			WithOperators(defaultOperatorSpecs()).
			Build()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("b3: parsing config: %w", err)
	}
	if len(cfg.Operators) == 0 {
		cfg.Operators = defaultOperatorSpecs()
	}
	return &cfg, nil
}

// defaultOperatorSpecs is the panel used when no config file supplies one:
// one topology move of each kind, a tree-wide scale, and a slide, at equal
// weight.
func defaultOperatorSpecs() []operator.Spec {
	return []operator.Spec{
		{Kind: "narrow-exchange", Weight: 1.0},
		{Kind: "wide-exchange", Weight: 1.0},
		{Kind: "slide", Weight: 1.0},
		{Kind: "scale", Weight: 1.0, Factor: 0.5},
	}
}

// fillDefaultDistributions assigns a default distribution to any spec whose
// Kind needs one but whose Dist is nil, which is always true for specs
// decoded from JSON.
func fillDefaultDistributions(specs []operator.Spec) []operator.Spec {
	out := make([]operator.Spec, len(specs))
	for i, spec := range specs {
		if spec.Dist == nil {
			switch spec.Kind {
			case "slide":
				spec.Dist = distribution.Normal{Mean: 0, StdDev: 1}
			case "scale", "param-scale":
				spec.Dist = distribution.Uniform{}
			}
		}
		out[i] = spec
	}
	return out
}

// loadTree parses the Newick file at path into a rooted binary time-tree,
// returning the tree and its leaf names in leaf-index order.
func loadTree(path string) (*tree.Tree, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	nt, err := newick.Parse(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, nil, err
	}
	return tree.FromNewick(nt)
}

// loadAlignment reads the FASTA file at path and arranges it into a
// sites-by-leaves likelihood.Row matrix, ordered by leafNames so leaf i's
// column lines up with the tree's leaf index i. Every record's description
// must match exactly one leaf name, and every sequence must be the same
// length.
func loadAlignment(path string, leafNames []string) ([][]likelihood.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := fasta.ReadAll(f)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]fasta.Record, len(records))
	for _, r := range records {
		byName[r.Description] = r
	}

	numLeaves := len(leafNames)
	var numSites int
	leafSeqs := make([]dna.Sequence, numLeaves)
	for i, name := range leafNames {
		rec, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("b3: no alignment record for leaf %q", name)
		}
		if i == 0 {
			numSites = rec.Sequence.Len()
		} else if rec.Sequence.Len() != numSites {
			return nil, fmt.Errorf("b3: leaf %q has %d sites, want %d", name, rec.Sequence.Len(), numSites)
		}
		leafSeqs[i] = rec.Sequence
	}

	sites := make([][]likelihood.Row, numSites)
	for col := 0; col < numSites; col++ {
		sites[col] = make([]likelihood.Row, numLeaves)
		for leaf, seq := range leafSeqs {
			sites[col][leaf] = seq[col].Row()
		}
	}
	return sites, nil
}

// buildModel constructs the substitution model named by name, looking up
// its real-valued parameters in params by the conventional names used in
// original_source (kappa for K80/HKY; ac/ag/at/cg/ct/gt and piA/piC/piG/piT
// for GTR; piA/piC/piG/piT alone for F81). Missing parameters default to a
// fixed value (2.0 for kappa, 1.0 for the GTR rates, 0.25 for frequencies)
// rather than failing,
// since a chain is free to start from an unexceptional point and let its
// operators move it.
func buildModel(name string, params map[string]float64) (*substitution.Model, error) {
	get := func(key string, def float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}
		return def
	}

	switch name {
	case "", "jc":
		return substitution.JukesCantor()
	case "k80":
		return substitution.K80(get("kappa", 2.0))
	case "f81":
		return substitution.F81(get("piA", 0.25), get("piC", 0.25), get("piG", 0.25), get("piT", 0.25))
	case "hky":
		return substitution.HKY(get("kappa", 2.0), get("piA", 0.25), get("piC", 0.25), get("piG", 0.25), get("piT", 0.25))
	case "gtr":
		return substitution.GTR(
			get("ac", 1.0), get("ag", 1.0), get("at", 1.0), get("cg", 1.0), get("ct", 1.0), get("gt", 1.0),
			get("piA", 0.25), get("piC", 0.25), get("piG", 0.25), get("piT", 0.25),
		)
	default:
		return nil, fmt.Errorf("b3: unknown substitution model %q", name)
	}
}

// buildBackend constructs the likelihood backend named by name over sites.
func buildBackend(name string, sites [][]likelihood.Row) (likelihood.Backend, error) {
	switch name {
	case "", "cpu":
		return cpu.New(sites), nil
	case "batched":
		return batched.New(sites), nil
	default:
		return nil, fmt.Errorf("b3: unknown likelihood backend %q", name)
	}
}

// buildParams turns the model's configured real-valued parameters into
// single-dimension RealParams an operator panel can act on, each under a
// standard-normal prior. The substitution model itself is fixed for the
// run (buildModel is only called once), so these params exist to let
// param-scale operators and LogPrior exercise a real named parameter
// rather than to feed back into the likelihood calculation.
func buildParams(modelParams map[string]float64) (map[string]parameter.Parameter, []state.PriorTerm) {
	params := make(map[string]parameter.Parameter, len(modelParams))
	terms := make([]state.PriorTerm, 0, len(modelParams))
	for name, v := range modelParams {
		params[name] = &parameter.RealParam{Values: []float64{v}}
		terms = append(terms, state.PriorTerm{Param: name, Dist: distribution.Normal{Mean: 0, StdDev: 1}})
	}
	return params, terms
}
