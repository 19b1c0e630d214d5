// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-strategy workload statistics.
//
// All series carry a "strategy" label taken from [Namer]. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	WorkersStarted *prometheus.CounterVec
	WorkersFailed  *prometheus.CounterVec
	Operations     *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WorkersStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncdemo",
			Name:      "workers_started_total",
			Help:      "Workers spawned by workload runs.",
		}, []string{"strategy"}),
		WorkersFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncdemo",
			Name:      "workers_failed_total",
			Help:      "Workers that returned an error or panicked.",
		}, []string{"strategy"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncdemo",
			Name:      "operations_total",
			Help:      "Operations completed by workers.",
		}, []string{"strategy"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "syncdemo",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a workload run, spawn to join.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"strategy"}),
	}
	if reg != nil {
		reg.MustRegister(m.WorkersStarted, m.WorkersFailed, m.Operations, m.RunDuration)
	}
	return m
}

func (m *Metrics) started(strategy string, n int) {
	if m == nil {
		return
	}
	m.WorkersStarted.WithLabelValues(strategy).Add(float64(n))
}

func (m *Metrics) finished(strategy string, ops int64, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(strategy).Add(float64(ops))
	m.RunDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	var re *RunError
	if errors.As(err, &re) {
		m.WorkersFailed.WithLabelValues(strategy).Add(float64(re.Failed))
	}
}
