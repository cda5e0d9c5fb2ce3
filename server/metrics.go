// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	a2a "github.com/formagent/a2a"
)

// Metrics holds the Prometheus instruments for the RPC endpoint and the
// task dispatcher. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests *prometheus.CounterVec
	tasks       *prometheus.CounterVec
}

// NewMetrics registers the server metrics on reg. Pass
// prometheus.DefaultRegisterer for the usual global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2a",
			Subsystem: "server",
			Name:      "rpc_requests_total",
			Help:      "JSON-RPC requests handled, by method and outcome.",
		}, []string{"method", "outcome"}),
		tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2a",
			Subsystem: "server",
			Name:      "tasks_total",
			Help:      "Tasks dispatched, by skill and terminal status.",
		}, []string{"skill", "status"}),
	}
}

// ObserveRPC records one handled JSON-RPC request.
func (m *Metrics) ObserveRPC(method, outcome string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	m.rpcRequests.WithLabelValues(method, outcome).Inc()
}

// ObserveTask records one task reaching a terminal state.
func (m *Metrics) ObserveTask(skillID string, status a2a.TaskState) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(skillID, string(status)).Inc()
}
