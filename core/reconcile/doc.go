// Package reconcile compares two tabular snapshots of the same dataset and
// classifies every row as added, removed or unchanged.
//
// # Architecture
//
// The package consists of four parts:
//
// 1. KeyLocator: looks at the first data row of a snapshot and decides whether
// exactly one column carries a per-row identifier (by default nine digits
// followed by "CL").
//
// 2. Engine: picks a matching strategy and partitions the rows. When both
// snapshots expose the same identifier column, rows are paired by that
// column's value. Otherwise rows are paired by the unordered set of their
// cell values, so a row whose values moved between columns still matches.
//
// 3. Runner: runs the engine on its own goroutine, pads fast runs to a minimum
// duration and delivers exactly one Outcome on a channel. A Runner accepts one
// run at a time.
//
// 4. Cache: optional TTL cache keyed by file location, size and modification
// time, with singleflight protection against duplicate work.
//
// # Result Ordering
//
// CombinedResult.Rows is grouped Added, Removed, Unchanged. Inside a group the
// order of the source snapshot is kept.
//
// # Usage Example
//
//	engine, err := reconcile.NewEngine(reconcile.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	runner := reconcile.NewRunner(engine, reconcile.WithLogger(logger))
//
//	ch, err := runner.Start("monday.csv", "tuesday.csv")
//	if err != nil {
//	    return err // invalid input or busy
//	}
//	outcome := <-ch
//	if errors.Is(outcome.Err, reconcile.ErrDifferentFormat) {
//	    // snapshots are not comparable
//	}
package reconcile
