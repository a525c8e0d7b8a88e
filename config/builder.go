// Package config holds the settings needed to run one MCMC chain end to
// end: chain length, logging cadence, the substitution model, and the
// operator list, assembled through a fluent Builder the way the teacher
// pack assembles its consensus parameters.
package config

import (
	"fmt"

	"github.com/aspartik-go/b3/operator"
)

// Config holds every setting cmd/b3 needs to construct and run a chain.
type Config struct {
	Seed uint64 `json:"seed"`

	Burnin     int `json:"burnin"`
	Length     int `json:"length"`
	StateEvery int `json:"stateEvery"`
	TreesEvery int `json:"treesEvery"`

	Model       string             `json:"model"`
	ModelParams map[string]float64 `json:"modelParams,omitempty"`

	Backend string `json:"backend"`

	Operators []operator.Spec `json:"operators"`

	StateOutput string `json:"stateOutput"`
	TreesOutput string `json:"treesOutput"`
}

// Builder provides a fluent interface for constructing a Config.
type Builder struct {
	config *Config
	err    error
}

// NewBuilder creates a Builder seeded with sensible defaults for a short
// exploratory run.
func NewBuilder() *Builder {
	return &Builder{
		config: &Config{
			Seed:        1,
			Burnin:      1000,
			Length:      10000,
			StateEvery:  10,
			TreesEvery:  100,
			Model:       "jc",
			Backend:     "cpu",
			StateOutput: "state.log",
			TreesOutput: "trees.log",
		},
	}
}

// WithSeed sets the chain's RNG seed.
func (b *Builder) WithSeed(seed uint64) *Builder {
	if b.err != nil {
		return b
	}
	b.config.Seed = seed
	return b
}

// WithChainLength sets the burnin and post-burnin sample length.
func (b *Builder) WithChainLength(burnin, length int) *Builder {
	if b.err != nil {
		return b
	}
	if burnin < 0 {
		b.err = fmt.Errorf("config: burnin must be non-negative, got %d", burnin)
		return b
	}
	if length < 1 {
		b.err = fmt.Errorf("config: length must be at least 1, got %d", length)
		return b
	}
	b.config.Burnin = burnin
	b.config.Length = length
	return b
}

// WithLogging sets how often (in steps) the parameter trace and tree
// dump are written, and where.
func (b *Builder) WithLogging(stateEvery, treesEvery int, stateOutput, treesOutput string) *Builder {
	if b.err != nil {
		return b
	}
	if stateEvery < 1 || treesEvery < 1 {
		b.err = fmt.Errorf("config: logging cadence must be at least 1 step")
		return b
	}
	b.config.StateEvery = stateEvery
	b.config.TreesEvery = treesEvery
	b.config.StateOutput = stateOutput
	b.config.TreesOutput = treesOutput
	return b
}

// WithModel sets the substitution model and its named real-valued
// parameters (e.g. "kappa" for K80/HKY, "ac"/"ag"/... for GTR).
func (b *Builder) WithModel(name string, params map[string]float64) *Builder {
	if b.err != nil {
		return b
	}
	switch name {
	case "jc", "k80", "f81", "hky", "gtr":
	default:
		b.err = fmt.Errorf("config: unknown substitution model %q", name)
		return b
	}
	b.config.Model = name
	b.config.ModelParams = params
	return b
}

// WithBackend selects the likelihood backend, "cpu" or "batched".
func (b *Builder) WithBackend(name string) *Builder {
	if b.err != nil {
		return b
	}
	if name != "cpu" && name != "batched" {
		b.err = fmt.Errorf("config: unknown likelihood backend %q", name)
		return b
	}
	b.config.Backend = name
	return b
}

// WithOperators sets the operator list the scheduler will draw from.
func (b *Builder) WithOperators(specs []operator.Spec) *Builder {
	if b.err != nil {
		return b
	}
	if len(specs) == 0 {
		b.err = fmt.Errorf("config: operator list must not be empty")
		return b
	}
	b.config.Operators = specs
	return b
}

// Build returns the final Config, or the first error recorded by any
// With* call.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.config.Operators) == 0 {
		return nil, fmt.Errorf("config: an operator list is required")
	}
	return b.config, nil
}
