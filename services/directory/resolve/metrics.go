// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	resolveStageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "directory",
		Subsystem: "resolve",
		Name:      "stage_total",
		Help:      "Cascade stage outcomes: hit, miss, error",
	}, []string{"stage", "outcome"})

	resolveStageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "directory",
		Subsystem: "resolve",
		Name:      "stage_latency_seconds",
		Help:      "Latency of individual cascade stages",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
	}, []string{"stage"})
)

// =============================================================================
// MetricsSink
// =============================================================================

// MetricsSink receives per-stage performance observations, fire-and-forget.
//
// The resolver emits through emitObservation, which recovers panics and
// drops errors — an unhealthy sink must never fail a resolution. A nil sink
// disables stage observations entirely (Prometheus counters still fire).
type MetricsSink interface {
	// Record registers one timed event with free-form tags.
	Record(event string, duration time.Duration, tags map[string]string)
}

// PromSink is the default MetricsSink, forwarding stage observations to the
// package's Prometheus collectors.
type PromSink struct{}

// Record implements MetricsSink.
func (PromSink) Record(event string, duration time.Duration, tags map[string]string) {
	if event != "resolve_stage" {
		return
	}
	stage := tags["stage"]
	outcome := tags["outcome"]
	resolveStageTotal.WithLabelValues(stage, outcome).Inc()
	resolveStageLatency.WithLabelValues(stage).Observe(duration.Seconds())
}

// emitObservation forwards a stage observation to the sink, best effort. A
// panicking or slow-failing sink is contained here so the cascade proceeds
// untouched.
func emitObservation(sink MetricsSink, event string, duration time.Duration, tags map[string]string) {
	if sink == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	sink.Record(event, duration, tags)
}
