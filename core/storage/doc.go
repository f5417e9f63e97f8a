// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so snapshots can be read from, and spreadsheet
// exports written to, an S3 compatible bucket. The Client interface keeps the
// feature code testable with the mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
