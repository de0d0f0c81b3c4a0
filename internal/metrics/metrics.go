// Package metrics exposes the streak as Prometheus gauges and writes them
// in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/boshu2/daysince/internal/report"
)

// Collector holds the daysince gauges on a private registry.
type Collector struct {
	registry *prometheus.Registry

	defined      prometheus.Gauge
	current      prometheus.Gauge
	record       prometheus.Gauge
	incidents    prometheus.Gauge
	lastIncident prometheus.Gauge
	milestone    prometheus.Gauge
	status       *prometheus.GaugeVec
}

// New creates a collector. A non-empty team is attached as a constant label.
func New(team string) *Collector {
	var labels prometheus.Labels
	if team != "" {
		labels = prometheus.Labels{"team": team}
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help, ConstLabels: labels})
	}

	c := &Collector{
		registry:     prometheus.NewRegistry(),
		defined:      gauge("daysince_history_defined", "1 when the incident history has at least one record"),
		current:      gauge("daysince_current_streak_days", "Days since the most recent incident"),
		record:       gauge("daysince_record_streak_days", "Longest incident-free streak in days"),
		incidents:    gauge("daysince_incidents_total", "Number of recorded incidents"),
		lastIncident: gauge("daysince_last_incident_timestamp_seconds", "Unix time of the most recent incident date (UTC midnight)"),
		milestone:    gauge("daysince_milestone_reached", "1 when a milestone was reached on the reported day"),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "daysince_status",
			Help:        "Current status label, value is always 1",
			ConstLabels: labels,
		}, []string{"label"}),
	}
	c.registry.MustRegister(c.defined, c.current, c.record, c.incidents, c.lastIncident, c.milestone, c.status)
	return c
}

// Observe sets every gauge from r.
func (c *Collector) Observe(r report.Report) {
	c.status.Reset()
	c.incidents.Set(float64(r.TotalIncidents))
	if !r.Defined {
		c.defined.Set(0)
		c.current.Set(0)
		c.record.Set(0)
		c.lastIncident.Set(0)
		c.milestone.Set(0)
		return
	}

	c.defined.Set(1)
	c.current.Set(float64(r.CurrentStreak))
	c.record.Set(float64(r.RecordStreak))
	if r.LastIncident != nil {
		c.lastIncident.Set(float64(r.LastIncident.Date.Time().Unix()))
	}
	if r.HasMilestone() {
		c.milestone.Set(1)
	} else {
		c.milestone.Set(0)
	}
	c.status.WithLabelValues(r.Status.Label).Set(1)
}

// WriteTextfile writes the gauges to path atomically, for the node_exporter
// textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
