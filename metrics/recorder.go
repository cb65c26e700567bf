// Package metrics instruments scaffold batch runs with Prometheus collectors.
//
// A *Recorder satisfies scaffold.Recorder. Its methods are safe on a nil
// receiver, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors for one registry.
type Recorder struct {
	processed *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	fragments *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		processed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "molscaf_molecules_processed_total",
				Help: "Number of molecules decomposed by operation.",
			},
			[]string{"operation"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "molscaf_molecules_skipped_total",
				Help: "Number of molecules skipped after an error, by operation.",
			},
			[]string{"operation"},
		),
		fragments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "molscaf_fragments_total",
				Help: "Number of fragments produced by operation.",
			},
			[]string{"operation"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "molscaf_molecule_duration_seconds",
				Help:    "Time taken to decompose one molecule.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{r.processed, r.skipped, r.fragments, r.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

// MoleculeProcessed counts one successful molecule.
func (r *Recorder) MoleculeProcessed(op string) {
	if r == nil {
		return
	}
	r.processed.WithLabelValues(op).Inc()
}

// MoleculeSkipped counts one molecule dropped after an error.
func (r *Recorder) MoleculeSkipped(op string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(op).Inc()
}

// FragmentsProduced adds n fragments.
func (r *Recorder) FragmentsProduced(op string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.fragments.WithLabelValues(op).Add(float64(n))
}

// ObserveDuration records the time spent on one molecule.
func (r *Recorder) ObserveDuration(op string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(op).Observe(d.Seconds())
}
