// Package snapshot resolves bucket objects to local snapshot files.
//
// The reconciliation core only reads from the file system, so objects are
// downloaded to temporary files first. Exports can be uploaded back under the
// configured export prefix.
package snapshot
