package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"csv-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// XLSXContentType is the content type of uploaded exports.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	// ErrEmptyKey is returned when an object key is blank.
	ErrEmptyKey = errors.New("empty object key")
	// ErrObjectNotFound is returned when the bucket has no object with the key.
	ErrObjectNotFound = errors.New("object not found")
)

// Fetcher moves snapshots and exports between the bucket and the local disk.
type Fetcher struct {
	client       storage.Client
	bucket       string
	exportPrefix string
	dir          string
	logger       *zap.Logger
}

// NewFetcher creates a fetcher for the configured bucket. Downloads are
// written to dir, or the system temp directory when dir is empty.
func NewFetcher(client storage.Client, cfg storage.Config, dir string, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client:       client,
		bucket:       cfg.Bucket,
		exportPrefix: cfg.ExportPrefix,
		dir:          dir,
		logger:       logger,
	}
}

// Fetch downloads the object at key into a temporary file and returns its path.
// The caller must call cleanup once the file is no longer needed.
func (f *Fetcher) Fetch(ctx context.Context, key string) (string, func(), error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", nil, ErrEmptyKey
	}

	obj, err := f.client.GetObject(ctx, f.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", nil, objectError(key, err)
	}
	defer obj.Close()

	tmp, err := os.CreateTemp(f.dir, "snapshot-*"+path.Ext(key))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	n, err := io.Copy(tmp, obj)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", nil, objectError(key, err)
	}

	f.logger.Debug("Snapshot fetched",
		zap.String("bucket", f.bucket),
		zap.String("key", key),
		zap.Int64("bytes", n),
		zap.String("path", tmp.Name()),
	)
	return tmp.Name(), cleanup, nil
}

// Upload stores an export under the export prefix and returns the object key.
func (f *Fetcher) Upload(ctx context.Context, name string, data []byte) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "", ErrEmptyKey
	}
	key := f.exportPrefix + name

	_, err := f.client.PutObject(ctx, f.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: XLSXContentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	f.logger.Info("Export uploaded", zap.String("bucket", f.bucket), zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}

func objectError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return fmt.Errorf("fetch %s: %w", key, err)
}
