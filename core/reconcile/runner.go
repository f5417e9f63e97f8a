package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"csv-reconciler/core/utils"

	"go.uber.org/zap"
)

// Observer is notified after every finished run, before the outcome is delivered.
type Observer interface {
	ObserveRun(result *CombinedResult, err error, elapsed time.Duration)
}

// Runner executes reconciliations off the caller's goroutine.
//
// At most one run is in flight per Runner: Start returns ErrRunInProgress
// while a previous run has not delivered its outcome yet. Fast runs are padded
// to Config.MinExecutionTime before the outcome is delivered. The minimum is
// measured over loading and reconciling together, and failed runs are padded
// as well, so every outcome takes at least that long.
type Runner struct {
	engine   *Engine
	logger   *zap.Logger
	observer Observer
	cache    *Cache
	busy     atomic.Bool
	sleep    func(time.Duration)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver registers an observer for finished runs.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithCache reuses results for unchanged file pairs.
func WithCache(c *Cache) RunnerOption {
	return func(r *Runner) {
		r.cache = c
	}
}

// NewRunner creates a runner around engine.
func NewRunner(engine *Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine: engine,
		logger: zap.NewNop(),
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Busy reports whether a run is in flight.
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// Start validates both paths and launches the reconciliation in the background.
//
// Invalid paths are reported as *InputError and no work is started. On success
// the returned channel receives exactly one Outcome and is then closed.
func (r *Runner) Start(firstPath, secondPath string) (<-chan Outcome, error) {
	firstPath = utils.NormalizePath(firstPath)
	secondPath = utils.NormalizePath(secondPath)

	firstInfo, err := validateInput(firstPath)
	if err != nil {
		return nil, err
	}
	secondInfo, err := validateInput(secondPath)
	if err != nil {
		return nil, err
	}

	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}

	key := cacheKey(firstPath, firstInfo, secondPath, secondInfo)
	out := make(chan Outcome, 1)
	go r.run(firstPath, secondPath, key, out)
	return out, nil
}

// Run starts a reconciliation and waits for its outcome.
func (r *Runner) Run(ctx context.Context, firstPath, secondPath string) (*CombinedResult, error) {
	ch, err := r.Start(firstPath, secondPath)
	if err != nil {
		return nil, err
	}
	outcome, err := Wait(ctx, ch)
	if err != nil {
		return nil, err
	}
	return outcome.Result, outcome.Err
}

func (r *Runner) run(firstPath, secondPath, key string, out chan<- Outcome) {
	l := r.logger.With(zap.String("first", firstPath), zap.String("second", secondPath))
	l.Debug("Reconciliation started")

	start := time.Now()
	result, hit, err := r.cache.GetOrBuild(key, func() (*CombinedResult, error) {
		return r.engine.ReconcileFiles(firstPath, secondPath)
	})
	elapsed := time.Since(start)

	if pad := r.engine.cfg.MinExecutionTime - elapsed; pad > 0 {
		l.Debug("Padding reconciliation", zap.Duration("elapsed", elapsed), zap.Duration("wait", pad))
		r.sleep(pad)
	}

	if err != nil {
		l.Warn("Reconciliation failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	} else {
		l.Info("Reconciliation finished",
			zap.Int("added", result.AddedCount),
			zap.Int("removed", result.RemovedCount),
			zap.Int("unchanged", result.UnchangedCount()),
			zap.String("strategy", string(result.Strategy)),
			zap.Bool("cached", hit),
			zap.Duration("elapsed", elapsed),
		)
	}

	if r.observer != nil {
		r.observer.ObserveRun(result, err, elapsed)
	}

	// Release before delivering so a caller reacting to the outcome can start again.
	r.busy.Store(false)
	out <- Outcome{Result: result, Err: err, Elapsed: elapsed}
	close(out)
}

// Wait blocks until the outcome arrives or ctx is done. Cancelling ctx only
// stops the waiting; the run itself continues.
func Wait(ctx context.Context, ch <-chan Outcome) (Outcome, error) {
	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case outcome, ok := <-ch:
		if !ok {
			return Outcome{}, errors.New("outcome already consumed")
		}
		return outcome, nil
	}
}

// validateInput checks that path names an existing, readable regular file.
func validateInput(path string) (os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &InputError{Path: path, Err: ErrEmptyPath}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &InputError{Path: path, Err: ErrNotRegularFile}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	_ = f.Close()

	return info, nil
}

// cacheKey identifies a pair of files by location, size and modification time.
func cacheKey(firstPath string, first os.FileInfo, secondPath string, second os.FileInfo) string {
	return fileKey(firstPath, first) + "|" + fileKey(secondPath, second)
}

func fileKey(path string, info os.FileInfo) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fmt.Sprintf("%s:%d:%d", path, info.Size(), info.ModTime().UnixNano())
}
