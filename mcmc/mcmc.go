// Package mcmc drives the Metropolis-Hastings chain: pick an operator,
// let it speculatively edit the state, resolve the proposal, and log the
// chain's progress at a fixed cadence.
package mcmc

import (
	"errors"
	"io"
	"math"

	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/mcmclog"
	"github.com/aspartik-go/b3/proposal"
	"github.com/aspartik-go/b3/scheduler"
	"github.com/aspartik-go/b3/state"
	"github.com/aspartik-go/b3/telemetry"
)

// Config holds the parts of a chain run that aren't themselves state,
// scheduler, or logger: how long to run, how much of the run to discard
// before the chain is considered converged, and how often (in steps, post
// burnin) to dump the current tree to TreesDst.
type Config struct {
	Burnin int
	Length int

	TreesEvery int
	TreesDst   io.Writer
}

// Run advances s through config.Burnin+config.Length steps, each one a
// full propose/accept-or-reject cycle. Steps up to and including index
// config.Burnin are never logged; past that, Hastings-resolved steps are
// handed to logger, which applies its own step-cadence gating.
//
// Every operator's Propose already mutates s directly and returns only a
// verdict, so there is no separate apply-then-resolve step the way the
// source this is grounded on needed one: Hastings is the only status that
// requires an explicit likelihood comparison against the chain's running
// log-posterior.
func Run(cfg Config, s *state.State, sched *scheduler.Weighted, priorTerms []state.PriorTerm, logger *mcmclog.Logger, metrics *telemetry.Metrics) error {
	oldLogPosterior := math.Inf(-1)

	total := cfg.Burnin + cfg.Length
	for i := 0; i < total; i++ {
		op := sched.Pick(s.RNG())
		p := op.Propose(s)

		switch p.Status {
		case proposal.Accept:
			s.Accept()
			observe(metrics, op.Name(), "accept", true)
			continue
		case proposal.Reject:
			s.Reject()
			observe(metrics, op.Name(), "reject", false)
			continue
		}

		prior, err := s.LogPrior(priorTerms)
		if err != nil {
			// A parameter drawn outside a distribution's domain is a
			// legal outcome of a proposal kernel, not a chain bug:
			// reject the step and move on. Every other LogPrior
			// error (unknown parameter, unsupported prior kind) is a
			// configuration mistake that will recur every step, so
			// it aborts the run instead.
			if errors.Is(err, distribution.ErrDomain) {
				s.Reject()
				observe(metrics, op.Name(), "reject", false)
				continue
			}
			return err
		}
		logPosterior := s.LogLikelihood() + prior

		ratio := logPosterior - oldLogPosterior + p.Ratio
		accepted := ratio > math.Log(s.RNG().Float64())
		reportedPrior := prior
		if accepted {
			oldLogPosterior = logPosterior
			s.Accept()
			observe(metrics, op.Name(), "hastings_accept", true)
		} else {
			s.Reject()
			observe(metrics, op.Name(), "hastings_reject", false)
			// s now holds the reverted parameters; prior was
			// computed against the discarded proposal, so recompute
			// it fresh rather than report a value that no longer
			// matches the chain's actual state.
			reportedPrior, err = s.LogPrior(priorTerms)
			if err != nil {
				return err
			}
		}

		if metrics != nil {
			metrics.SetLogLikelihood(s.LogLikelihood())
			metrics.SetLogPrior(reportedPrior)
		}

		if i > cfg.Burnin && logger != nil {
			dists := map[string]float64{"likelihood": s.LogLikelihood(), "prior": reportedPrior}
			if err := logger.Log(s, i, dists); err != nil {
				return err
			}
		}

		if i > cfg.Burnin && cfg.TreesEvery > 0 && cfg.TreesDst != nil && i%cfg.TreesEvery == 0 {
			out, err := s.Tree().Serialize()
			if err != nil {
				return err
			}
			out = append(out, '\n')
			if _, err := cfg.TreesDst.Write(out); err != nil {
				return err
			}
		}
	}
	return nil
}

func observe(metrics *telemetry.Metrics, operatorName, resolution string, accepted bool) {
	if metrics == nil {
		return
	}
	metrics.ObserveStep(resolution)
	metrics.ObserveOperator(operatorName, accepted)
}
