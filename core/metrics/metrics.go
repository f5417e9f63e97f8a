package metrics

import (
	"errors"
	"time"

	"csv-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels of reconcile_runs_total.
const (
	OutcomeSuccess         = "success"
	OutcomeBothEmpty       = "both_empty"
	OutcomeDifferentFormat = "different_format"
	OutcomeError           = "error"
)

// Recorder collects reconciliation metrics in a private registry.
// It implements reconcile.Observer.
type Recorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	rows     *prometheus.CounterVec
}

var _ reconcile.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder and registers its collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_runs_total",
				Help: "Total number of finished reconciliation runs",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reconcile_duration_seconds",
				Help:    "Time spent loading and reconciling two snapshots",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_rows_total",
				Help: "Total number of result rows by state",
			},
			[]string{"state"},
		),
	}

	r.registry.MustRegister(r.runs, r.duration, r.rows)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records a finished run.
func (r *Recorder) ObserveRun(result *reconcile.CombinedResult, err error, elapsed time.Duration) {
	r.duration.Observe(elapsed.Seconds())
	r.runs.WithLabelValues(outcomeLabel(err)).Inc()

	if err != nil || result == nil {
		return
	}
	r.rows.WithLabelValues(reconcile.Added.String()).Add(float64(result.AddedCount))
	r.rows.WithLabelValues(reconcile.Removed.String()).Add(float64(result.RemovedCount))
	r.rows.WithLabelValues(reconcile.Unchanged.String()).Add(float64(result.UnchangedCount()))
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, reconcile.ErrBothEmpty):
		return OutcomeBothEmpty
	case errors.Is(err, reconcile.ErrDifferentFormat):
		return OutcomeDifferentFormat
	default:
		return OutcomeError
	}
}
