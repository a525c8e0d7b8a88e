/*
Package b3 is a Bayesian phylogenetic inference engine: a Metropolis-Hastings
MCMC sampler over a rooted binary time-tree and a set of real/integer/boolean
parameters.

# Architecture

The engine is organized bottom-up:

  - skvec/        epoch-versioned columnar store (speculative edit, accept, reject)
  - dna/          IUPAC DNA alphabet and aligned sequences
  - newick/       Newick tree parsing and serialization
  - substitution/ rate matrices and exp(Q*t) transition matrices
  - transitions/  per-edge transition matrix cache, versioned via skvec
  - tree/         rooted binary time-tree with SPR and weight edits
  - likelihood/   Felsenstein pruning, CPU and batched backends
  - parameter/    typed named parameters with bounds
  - distribution/ PDF/PMF/sampler library used by priors and operators
  - operator/     proposal operators (exchange, slide, scale, ...)
  - scheduler/    weighted operator selection
  - state/        owns tree, parameters, caches, and the RNG
  - mcmc/         the propose/accept/reject driver loop
  - b3log/        structured operational logging
  - mcmclog/      JSON-lines parameter trace and tree dump output

# Running a chain

	st := state.New(tr, params, model, backend, rand.New(rng.NewPCG64(0, seed, 0, 1)))
	sched, err := scheduler.NewWeighted(ops)
	if err != nil {
		log.Fatal(err)
	}
	cfg := mcmc.Config{Burnin: 1000, Length: 10000}
	if err := mcmc.Run(cfg, st, sched, priorTerms, logger, nil); err != nil {
		log.Fatal(err)
	}

See cmd/b3 for a complete command-line driver that reads FASTA and Newick
input files and writes the JSON-lines trace described in the package docs
of mcmclog.
*/
package b3
