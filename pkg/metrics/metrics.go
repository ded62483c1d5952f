/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package metrics exposes counters and histograms for ledger operations.
// Instruments are go-kit metrics so that callers and tests can plug in a
// backend; the default backend is Prometheus.
package metrics

import (
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mortgagesdk"

// Label names
const (
	OperationLabel = "operation"
	StatusLabel    = "status"
)

// ClientMetrics are the instruments of the ledger client
type ClientMetrics struct {
	// Attempts counts every attempt, including the first
	Attempts metrics.Counter
	// Retries counts attempts made after a transient failure
	Retries metrics.Counter
	// Outcomes counts settled operations by status
	Outcomes metrics.Counter
	// Duration observes the wall time of a settled operation in seconds
	Duration metrics.Histogram
	// MirrorFailures counts ledger writes whose mirror write failed
	MirrorFailures metrics.Counter
}

// NewDiscard returns instruments that record nothing
func NewDiscard() *ClientMetrics {
	return &ClientMetrics{
		Attempts:       discard.NewCounter(),
		Retries:        discard.NewCounter(),
		Outcomes:       discard.NewCounter(),
		Duration:       discard.NewHistogram(),
		MirrorFailures: discard.NewCounter(),
	}
}

// NewPrometheus registers the instruments with reg
func NewPrometheus(reg prometheus.Registerer) *ClientMetrics {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "attempts_total",
		Help:      "Ledger operation attempts.",
	}, []string{OperationLabel})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "retries_total",
		Help:      "Ledger operation retries after a transient failure.",
	}, []string{OperationLabel})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "outcomes_total",
		Help:      "Settled ledger operations by status.",
	}, []string{OperationLabel, StatusLabel})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "operation_duration_seconds",
		Help:      "Wall time of settled ledger operations, retries included.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 15},
	}, []string{OperationLabel})
	mirror := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "datastore",
		Name:      "mirror_failures_total",
		Help:      "Ledger writes whose mirror write failed.",
	}, []string{OperationLabel})

	reg.MustRegister(attempts, retries, outcomes, duration, mirror)

	return &ClientMetrics{
		Attempts:       kitprometheus.NewCounter(attempts),
		Retries:        kitprometheus.NewCounter(retries),
		Outcomes:       kitprometheus.NewCounter(outcomes),
		Duration:       kitprometheus.NewHistogram(duration),
		MirrorFailures: kitprometheus.NewCounter(mirror),
	}
}

// ObserveSince records the duration of operation since start
func (m *ClientMetrics) ObserveSince(operation string, start time.Time) {
	m.Duration.With(OperationLabel, operation).Observe(time.Since(start).Seconds())
}
