// Package history persists a summary of every finished reconciliation.
//
// Runs are stored through GORM in the reconcile_runs table when a database
// is configured (see core/database). The feature exposes GET /history.
package history
