// FILE: sensormerge/src/internal/metrics/metrics.go
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Verification outcomes
const (
	OutcomeMatch    = "match"
	OutcomeMismatch = "mismatch"
	OutcomeAbsent   = "absent"
)

// Recorder collects statistics of one merge run in a private registry
type Recorder struct {
	registry *prometheus.Registry

	entriesLoaded        *prometheus.GaugeVec
	entriesFiltered      *prometheus.GaugeVec
	timestampsNormalized prometheus.Gauge
	timestampsFailed     prometheus.Gauge
	entriesMerged        prometheus.Gauge
	entriesDropped       prometheus.Gauge
	verification         *prometheus.GaugeVec
	sinkDelivered        *prometheus.CounterVec
	sinkFailures         *prometheus.CounterVec
	runDuration          prometheus.Gauge
	runSuccess           prometheus.Gauge
	lastRun              prometheus.Gauge
}

// NewRecorder creates a recorder whose metric names carry the namespace prefix
func NewRecorder(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		entriesLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries_loaded",
			Help:      "Entries loaded per input.",
		}, []string{"input"}),
		entriesFiltered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries_filtered_out",
			Help:      "Entries removed by filters per input.",
		}, []string{"input"}),
		timestampsNormalized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timestamps_normalized",
			Help:      "String timestamps converted to epoch milliseconds.",
		}),
		timestampsFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timestamps_failed",
			Help:      "String timestamps left unchanged because they could not be parsed.",
		}),
		entriesMerged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries_merged",
			Help:      "Entries in the merged result.",
		}),
		entriesDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries_dropped",
			Help:      "Entries dropped for lacking a timestamp.",
		}),
		verification: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "verification",
			Help:      "Self-check outcome against the expected result (1 for the observed outcome).",
		}, []string{"outcome"}),
		sinkDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_entries_delivered_total",
			Help:      "Entries delivered per sink type.",
		}, []string{"sink"}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_failures_total",
			Help:      "Sink writes that failed per sink type.",
		}, []string{"sink"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the run.",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 if the run succeeded, 0 otherwise.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the run finished.",
		}),
	}

	r.registry.MustRegister(
		r.entriesLoaded,
		r.entriesFiltered,
		r.timestampsNormalized,
		r.timestampsFailed,
		r.entriesMerged,
		r.entriesDropped,
		r.verification,
		r.sinkDelivered,
		r.sinkFailures,
		r.runDuration,
		r.runSuccess,
		r.lastRun,
	)
	return r
}

func (r *Recorder) Loaded(input string, n int) {
	r.entriesLoaded.WithLabelValues(input).Set(float64(n))
}

func (r *Recorder) Filtered(input string, n int) {
	r.entriesFiltered.WithLabelValues(input).Set(float64(n))
}

func (r *Recorder) Timestamps(normalized, failed uint64) {
	r.timestampsNormalized.Set(float64(normalized))
	r.timestampsFailed.Set(float64(failed))
}

func (r *Recorder) Merged(n int, dropped uint64) {
	r.entriesMerged.Set(float64(n))
	r.entriesDropped.Set(float64(dropped))
}

// Verification marks exactly one outcome
func (r *Recorder) Verification(outcome string) {
	for _, o := range []string{OutcomeMatch, OutcomeMismatch, OutcomeAbsent} {
		v := 0.0
		if o == outcome {
			v = 1
		}
		r.verification.WithLabelValues(o).Set(v)
	}
}

func (r *Recorder) SinkDelivered(sink string, n uint64) {
	r.sinkDelivered.WithLabelValues(sink).Add(float64(n))
}

func (r *Recorder) SinkFailed(sink string) {
	r.sinkFailures.WithLabelValues(sink).Inc()
}

// Finish records the run outcome and duration
func (r *Recorder) Finish(success bool, duration time.Duration, now time.Time) {
	r.runDuration.Set(duration.Seconds())
	if success {
		r.runSuccess.Set(1)
	} else {
		r.runSuccess.Set(0)
	}
	r.lastRun.Set(float64(now.Unix()))
}

// Registry exposes the underlying gatherer
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in the text exposition format for the
// node-exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
