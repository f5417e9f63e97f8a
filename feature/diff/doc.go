// Package diff serves reconciliation jobs over HTTP.
//
// A job is started with POST /diff and polled with GET /diff/:id until its
// status is done or failed. Finished jobs can be exported as spreadsheets,
// with columns chosen explicitly or through a template. Snapshots are read
// from the local file system or, with source "storage", fetched from the
// bucket first.
//
// # Status codes
//
//   - 400: invalid paths, keys or column selection
//   - 404: unknown job or template
//   - 409: a job is already running, or the job has not finished yet
//   - 422: the snapshots cannot be reconciled (both empty, different formats)
package diff
