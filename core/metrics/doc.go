// Package metrics exposes reconciliation metrics in the Prometheus format.
//
// A Recorder is registered as the reconcile.Runner observer and counts
// finished runs by outcome, their duration and the number of rows per state.
// Collectors live in a private registry served through the fiber adaptor.
//
// # Metrics
//
//   - reconcile_runs_total{outcome}
//   - reconcile_duration_seconds
//   - reconcile_rows_total{state}
package metrics
