// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import "github.com/prometheus/client_golang/prometheus"

// Metrics is optional Prometheus instrumentation a host can attach with
// WithMetrics. It observes tuning decisions; it never feeds back into
// them.
type Metrics struct {
	steps      prometheus.Counter
	improved   prometheus.Counter
	stateGauge *prometheus.GaugeVec
	bestScore  prometheus.Gauge
	bestCRatio prometheus.Gauge
}

// NewMetrics registers the tuner's counters/gauges against reg. namespace
// and subsystem follow the usual client_golang convention, e.g.
// NewMetrics(reg, "myapp", "btune").
func NewMetrics(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	m := &Metrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "steps_total",
			Help:      "Number of chunks observed by Update.",
		}),
		improved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "improvements_total",
			Help:      "Number of chunks whose candidate replaced the champion.",
		}),
		stateGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "state",
			Help:      "1 for the tuner's current state machine phase, 0 otherwise.",
		}, []string{"state"}),
		bestScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "best_score",
			Help:      "Scalar score of the current champion candidate.",
		}),
		bestCRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "best_cratio",
			Help:      "Compression ratio of the current champion candidate.",
		}),
	}
	reg.MustRegister(m.steps, m.improved, m.stateGauge, m.bestScore, m.bestCRatio)
	return m
}

func (m *Metrics) observeInit(t *Tuner) {
	m.setState(t.state)
}

func (m *Metrics) observeUpdate(t *Tuner, cparams CParams, improved bool) {
	m.steps.Inc()
	if improved {
		m.improved.Inc()
	}
	m.bestScore.Set(t.best.Score)
	m.bestCRatio.Set(t.best.CRatio)
	m.setState(t.state)
}

func (m *Metrics) setState(s State) {
	for _, candidate := range []State{
		StateCodecFilter, StateShuffleSize, StateThreads,
		StateClevel, StateMemcpy, StateWaiting, StateStop,
	} {
		v := 0.0
		if candidate == s {
			v = 1.0
		}
		m.stateGauge.WithLabelValues(candidate.String()).Set(v)
	}
}
