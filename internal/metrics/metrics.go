// Package metrics records per-run pipeline metrics in a private prometheus
// registry. Batch runs export them through the node exporter textfile
// collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage names.
const (
	StageLoad      = "load"
	StageMerge     = "merge"
	StageIndex     = "index"
	StageTransform = "transform"
	StageWrite     = "write"
)

// Recorder holds the metrics of one semtag run.
type Recorder struct {
	registry *prometheus.Registry

	TriplesEmitted *prometheus.CounterVec
	RecordsMerged  prometheus.Counter
	StageDuration  *prometheus.HistogramVec
}

// New returns a Recorder with its metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		TriplesEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semtag",
				Name:      "triples_emitted_total",
				Help:      "Triples derived by each tagging rule",
			},
			[]string{"rule"},
		),
		RecordsMerged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "semtag",
				Name:      "records_merged_total",
				Help:      "AST records merged with their type context",
			},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semtag",
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
	r.registry.MustRegister(r.TriplesEmitted, r.RecordsMerged, r.StageDuration)
	return r
}

// Registry returns the registry holding the run's metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// AddTriples counts triples derived by rule.
func (r *Recorder) AddTriples(rule string, n int) {
	r.TriplesEmitted.WithLabelValues(rule).Add(float64(n))
}

// AddRecords counts merged records.
func (r *Recorder) AddRecords(n int) {
	r.RecordsMerged.Add(float64(n))
}

// Stage starts timing a stage; call the returned func when it ends.
func (r *Recorder) Stage(stage string) func() {
	start := time.Now()
	return func() {
		r.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

// WriteTextfile writes the registry to path in the text exposition format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
