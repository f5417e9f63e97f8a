package diff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"csv-reconciler/core/reconcile"
	"csv-reconciler/core/utils"
	"csv-reconciler/feature/export"
	"csv-reconciler/feature/history"
	"csv-reconciler/feature/snapshot"
	"csv-reconciler/feature/templates"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const historyTimeout = 5 * time.Second

// Service runs reconciliations in the background and keeps their results.
//
// All jobs share one Runner, so a submission while a job is running is
// rejected with reconcile.ErrRunInProgress.
type Service struct {
	cfg       Config
	runner    *reconcile.Runner
	writer    *export.Writer
	fetcher   *snapshot.Fetcher
	history   *history.Repository
	templates *templates.Store
	logger    *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*job
	wg   sync.WaitGroup
	now  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithFetcher enables storage sources and export uploads.
func WithFetcher(f *snapshot.Fetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithHistory records every finished job.
func WithHistory(r *history.Repository) Option {
	return func(s *Service) { s.history = r }
}

// WithTemplates allows exports to select columns by template name.
func WithTemplates(t *templates.Store) Option {
	return func(s *Service) { s.templates = t }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a diff service.
func NewService(cfg Config, runner *reconcile.Runner, writer *export.Writer, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		runner: runner,
		writer: writer,
		logger: zap.NewNop(),
		jobs:   make(map[string]*job),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StorageEnabled reports whether storage sources and uploads are available.
func (s *Service) StorageEnabled() bool {
	return s.fetcher != nil
}

// Submit starts a job for req and returns its id.
func (s *Service) Submit(ctx context.Context, req Request) (string, error) {
	source := req.Source
	if source == "" {
		source = SourceLocal
	}

	first, second := req.First, req.Second
	cleanup := func() {}

	switch source {
	case SourceLocal:
		var err error
		if first, err = s.localPath(first); err != nil {
			return "", err
		}
		if second, err = s.localPath(second); err != nil {
			return "", err
		}
	case SourceStorage:
		if s.fetcher == nil {
			return "", ErrStorageDisabled
		}
		if s.runner.Busy() {
			return "", reconcile.ErrRunInProgress
		}
		var err error
		first, second, cleanup, err = s.fetchPair(ctx, req.First, req.Second)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, req.Source)
	}

	ch, err := s.runner.Start(first, second)
	if err != nil {
		cleanup()
		return "", err
	}

	j := &job{
		id:        uuid.NewString(),
		first:     req.First,
		second:    req.Second,
		source:    source,
		status:    StatusRunning,
		startedAt: s.now(),
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.jobs[j.id] = j
	s.mu.Unlock()

	s.wg.Add(1)
	go s.track(j, ch, cleanup)

	s.logger.Info("Diff job started", zap.String("job_id", j.id), zap.String("source", string(source)))
	return j.id, nil
}

// localPath resolves path against the configured local root and rejects paths
// that escape it, symlinks included. Empty paths are left to the runner.
func (s *Service) localPath(path string) (string, error) {
	if s.cfg.LocalRoot == "" {
		return "", ErrLocalDisabled
	}
	path = utils.NormalizePath(path)
	if strings.TrimSpace(path) == "" {
		return path, nil
	}

	root, err := resolve(s.cfg.LocalRoot)
	if err != nil {
		return "", fmt.Errorf("resolve local root: %w", err)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	resolved, err := resolve(path)
	if err != nil {
		return "", &reconcile.InputError{Path: path, Err: err}
	}

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", &reconcile.InputError{Path: path, Err: ErrOutsideRoot}
	}
	return resolved, nil
}

// resolve returns the absolute path with symlinks evaluated. A missing file is
// resolved through its parent directory so that the runner reports it.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	target, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", err
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}

// fetchPair downloads both snapshots concurrently.
func (s *Service) fetchPair(ctx context.Context, firstKey, secondKey string) (string, string, func(), error) {
	var first, second string
	var cleanFirst, cleanSecond func()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		first, cleanFirst, err = s.fetcher.Fetch(gctx, firstKey)
		return err
	})
	g.Go(func() error {
		var err error
		second, cleanSecond, err = s.fetcher.Fetch(gctx, secondKey)
		return err
	})

	cleanup := func() {
		if cleanFirst != nil {
			cleanFirst()
		}
		if cleanSecond != nil {
			cleanSecond()
		}
	}
	if err := g.Wait(); err != nil {
		cleanup()
		return "", "", nil, err
	}
	return first, second, cleanup, nil
}

func (s *Service) track(j *job, ch <-chan reconcile.Outcome, cleanup func()) {
	defer s.wg.Done()
	defer cleanup()

	outcome := <-ch

	s.mu.Lock()
	j.finishedAt = s.now()
	j.elapsed = outcome.Elapsed
	j.result = outcome.Result
	j.err = outcome.Err
	if outcome.Err != nil {
		j.status = StatusFailed
	} else {
		j.status = StatusDone
	}
	s.mu.Unlock()

	if s.history != nil {
		run := history.NewRun(j.first, j.second, outcome.Result, outcome.Err, outcome.Elapsed)
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		if err := s.history.Save(ctx, &run); err != nil {
			s.logger.Warn("Failed to record run", zap.String("job_id", j.id), zap.Error(err))
		}
		cancel()
	}

	close(j.done)
}

// pruneLocked drops finished jobs older than the retention window.
func (s *Service) pruneLocked() {
	if s.cfg.JobRetention <= 0 {
		return
	}
	cutoff := s.now().Add(-s.cfg.JobRetention)
	for id, j := range s.jobs {
		if j.status != StatusRunning && j.finishedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}

// Get returns the current state of a job.
func (s *Service) Get(id string) (JobView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return JobView{}, ErrJobNotFound
	}
	return j.view(), nil
}

// Wait blocks until the job finishes or ctx is done.
func (s *Service) Wait(ctx context.Context, id string) (JobView, error) {
	s.mu.RLock()
	j, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return JobView{}, ErrJobNotFound
	}

	select {
	case <-j.done:
	case <-ctx.Done():
		return JobView{}, ctx.Err()
	}
	return s.Get(id)
}

// Close waits for every running job to be tracked to completion.
func (s *Service) Close() {
	s.wg.Wait()
}

// result returns the result of a successfully finished job.
func (s *Service) result(id string) (*reconcile.CombinedResult, error) {
	view, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	switch view.Status {
	case StatusRunning:
		return nil, ErrJobRunning
	case StatusFailed:
		return nil, fmt.Errorf("%w: %s", ErrJobFailed, view.Error)
	}
	return view.Result, nil
}

// Columns resolves the export columns of a job: the named template for the
// result's format when templateName is set, otherwise columns as given.
func (s *Service) Columns(id string, columns []int, templateName string) ([]int, error) {
	if templateName == "" {
		return columns, nil
	}

	res, err := s.result(id)
	if err != nil {
		return nil, err
	}
	if s.templates == nil {
		return nil, fmt.Errorf("template %q: %w", templateName, templates.ErrNotFound)
	}
	tpl, ok := s.templates.Find(res.FormatFingerprint, templateName)
	if !ok {
		return nil, fmt.Errorf("template %q: %w", templateName, templates.ErrNotFound)
	}
	return templates.SelectedIndices(tpl.Selection(res.ColumnCount())), nil
}

// Export renders the selected columns of a finished job as an xlsx workbook.
func (s *Service) Export(ctx context.Context, id string, columns []int, templateName string) ([]byte, error) {
	columns, err := s.Columns(id, columns, templateName)
	if err != nil {
		return nil, err
	}
	res, err := s.result(id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.writer.Write(&buf, res, columns); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Upload stores an export of a job in the bucket and returns its object key.
func (s *Service) Upload(ctx context.Context, id string, data []byte) (string, error) {
	if s.fetcher == nil {
		return "", ErrStorageDisabled
	}
	return s.fetcher.Upload(ctx, export.EnsureExtension(id), data)
}
