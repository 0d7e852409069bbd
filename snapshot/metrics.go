// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package snapshot

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gauges describing one snapshot.
type Metrics struct {
	registry *prometheus.Registry

	processes  prometheus.Gauge
	resolved   prometheus.Gauge
	unresolved prometheus.Gauge
	duration   prometheus.Gauge
	timestamp  prometheus.Gauge
}

// NewMetrics creates the gauges on a private registry, so repeated
// snapshots in one process never collide.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "proclist_processes",
			Help: "Number of process IDs returned by the OS enumeration",
		}),
		resolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "proclist_resolved",
			Help: "Number of processes whose executable path was resolved",
		}),
		unresolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "proclist_unresolved",
			Help: "Number of processes whose executable path could not be read",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "proclist_snapshot_duration_seconds",
			Help: "Time taken to list processes and resolve their paths",
		}),
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "proclist_snapshot_timestamp_seconds",
			Help: "Unix time the snapshot was taken",
		}),
	}
	m.registry.MustRegister(m.processes, m.resolved, m.unresolved, m.duration, m.timestamp)
	return m
}

// Record sets the gauges from snap.
func (m *Metrics) Record(snap *Snapshot) {
	failed := snap.Failed()
	m.processes.Set(float64(snap.Listed))
	m.resolved.Set(float64(len(snap.Entries) - failed))
	// Skipped entries are gone from Entries but still count as unresolved.
	m.unresolved.Set(float64(snap.Listed - (len(snap.Entries) - failed)))
	m.duration.Set(snap.Duration.Seconds())
	m.timestamp.Set(float64(snap.TakenAt.UnixNano()) / 1e9)
}

// Gatherer exposes the registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteMetrics writes snap as a Prometheus textfile at path. The file is
// replaced atomically.
func WriteMetrics(path string, snap *Snapshot) error {
	m := NewMetrics()
	m.Record(snap)
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
