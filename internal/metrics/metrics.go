// Package metrics holds the Prometheus collectors for onboarding.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "nestwell"

type Metrics struct {
	registry *prometheus.Registry

	momSetupSaves      *prometheus.CounterVec
	childSubmissions   *prometheus.CounterVec
	storageWriteErrors *prometheus.CounterVec
}

// New builds a private registry so tests and multiple servers in one process
// do not collide on the global one.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := &Metrics{
		registry: registry,
		momSetupSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "setup",
			Name:      "mom_saves_total",
			Help:      "Mom setup stage submissions by result.",
		}, []string{"result"}),
		childSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "setup",
			Name:      "child_submissions_total",
			Help:      "Child setup stage submissions by outcome.",
		}, []string{"outcome"}),
		storageWriteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "setup",
			Name:      "storage_errors_total",
			Help:      "Failed setup storage mutations by operation.",
		}, []string{"operation"}),
	}
	registry.MustRegister(metrics.momSetupSaves, metrics.childSubmissions, metrics.storageWriteErrors)
	return metrics
}

func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

func (metrics *Metrics) ObserveMomSetupSave(result string) {
	metrics.momSetupSaves.WithLabelValues(result).Inc()
}

func (metrics *Metrics) ObserveChildSubmission(outcome string) {
	metrics.childSubmissions.WithLabelValues(outcome).Inc()
}

func (metrics *Metrics) ObserveStorageError(operation string) {
	metrics.storageWriteErrors.WithLabelValues(operation).Inc()
}
