// Package telemetry exposes a running chain's health as Prometheus
// metrics: step counters split by resolution, per-operator
// accepted/rejected counters, and gauges for the current log-likelihood,
// log-prior, and steps per second.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps a prometheus.Registerer with the gauges and counters a
// running chain updates every step.
type Metrics struct {
	registry prometheus.Registerer

	steps            *prometheus.CounterVec
	operatorOutcomes *prometheus.CounterVec
	logLikelihood    prometheus.Gauge
	logPrior         prometheus.Gauge
	stepsPerSecond   prometheus.Gauge
}

// New registers a fresh set of chain metrics against reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		registry: reg,
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "b3_mcmc_steps_total",
			Help: "Total MCMC steps by resolution (accept, reject, hastings_accept, hastings_reject).",
		}, []string{"resolution"}),
		operatorOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "b3_mcmc_operator_outcomes_total",
			Help: "Total proposals per operator, split by whether the proposal was accepted.",
		}, []string{"operator", "accepted"}),
		logLikelihood: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "b3_mcmc_log_likelihood",
			Help: "Current chain log-likelihood.",
		}),
		logPrior: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "b3_mcmc_log_prior",
			Help: "Current chain log-prior.",
		}),
		stepsPerSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "b3_mcmc_steps_per_second",
			Help: "Most recently observed chain throughput.",
		}),
	}

	collectors := []prometheus.Collector{
		m.steps, m.operatorOutcomes, m.logLikelihood, m.logPrior, m.stepsPerSecond,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveStep records the resolution of one MCMC step.
func (m *Metrics) ObserveStep(resolution string) {
	m.steps.WithLabelValues(resolution).Inc()
}

// ObserveOperator records whether the named operator's proposal was
// accepted on this step.
func (m *Metrics) ObserveOperator(name string, accepted bool) {
	label := "false"
	if accepted {
		label = "true"
	}
	m.operatorOutcomes.WithLabelValues(name, label).Inc()
}

// SetLogLikelihood updates the current log-likelihood gauge.
func (m *Metrics) SetLogLikelihood(v float64) { m.logLikelihood.Set(v) }

// SetLogPrior updates the current log-prior gauge.
func (m *Metrics) SetLogPrior(v float64) { m.logPrior.Set(v) }

// SetStepsPerSecond updates the throughput gauge.
func (m *Metrics) SetStepsPerSecond(v float64) { m.stepsPerSecond.Set(v) }

// Handler returns an http.Handler serving these metrics in the
// Prometheus exposition format, for mounting at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
