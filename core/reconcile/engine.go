package reconcile

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"csv-reconciler/core/document"

	"golang.org/x/sync/errgroup"
)

// Engine partitions the rows of two snapshots into added, removed and
// unchanged rows.
type Engine struct {
	cfg     Config
	locator *KeyLocator
}

// NewEngine creates an engine from the given configuration.
func NewEngine(cfg Config) (*Engine, error) {
	locator, err := NewKeyLocator(cfg.IdentifierPattern)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, locator: locator}, nil
}

// Locator returns the identifier column locator used by the engine.
func (e *Engine) Locator() *KeyLocator {
	return e.locator
}

// LoadOptions returns the document options derived from the configuration.
func (e *Engine) LoadOptions() []document.Option {
	opts := []document.Option{document.WithDelimiter(e.cfg.delimiterRune())}
	if e.cfg.StrictWidth {
		opts = append(opts, document.WithStrictWidth())
	}
	return opts
}

// ReconcileFiles loads both snapshots concurrently and reconciles them.
func (e *Engine) ReconcileFiles(firstPath, secondPath string) (*CombinedResult, error) {
	var first, second *document.Document

	var g errgroup.Group
	g.Go(func() error {
		doc, err := document.Load(firstPath, e.LoadOptions()...)
		first = doc
		return err
	})
	g.Go(func() error {
		doc, err := document.Load(secondPath, e.LoadOptions()...)
		second = doc
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return e.Reconcile(first, second)
}

// Reconcile compares first (the older snapshot) with second (the newer one).
//
// Rows are paired by a shared identifier column when both snapshots expose the
// same single one, and by the unordered set of their cell values otherwise.
// Rows of second become Added or Unchanged, unmatched rows of first become
// Removed. The result is grouped by state with source order kept inside each
// group.
func (e *Engine) Reconcile(first, second *document.Document) (*CombinedResult, error) {
	// 1. Fast failures
	if first.IsEmpty() && second.IsEmpty() {
		return nil, ErrBothEmpty
	}
	if first.ColumnCount() != second.ColumnCount() {
		return nil, &FormatError{FirstColumns: first.ColumnCount(), SecondColumns: second.ColumnCount()}
	}

	// 2. Strategy selection
	m := e.selectMatcher(first, second)

	// 3. Index both sides once so lookups are O(1)
	firstWidth, secondWidth := rowWidth(first), rowWidth(second)
	inFirst := m.index(first, firstWidth)
	inSecond := m.index(second, secondWidth)

	// 4. Added / Unchanged pass over the newer snapshot
	rows := make([]Row, 0, second.RowCount())
	added := 0
	for _, cells := range second.Rows() {
		state := Unchanged
		if !m.contains(inFirst, cells, secondWidth) {
			state = Added
			added++
		}
		rows = append(rows, Row{State: state, Cells: slices.Clone(cells)})
	}

	// 5. Removed pass over the older snapshot; matched rows were emitted above
	removed := 0
	for _, cells := range first.Rows() {
		if m.contains(inSecond, cells, firstWidth) {
			continue
		}
		removed++
		rows = append(rows, Row{State: Removed, Cells: slices.Clone(cells)})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].State < rows[j].State
	})

	return &CombinedResult{
		FormatFingerprint: Fingerprint(second.Headers()),
		Headers:           slices.Clone(second.Headers()),
		Rows:              rows,
		AddedCount:        added,
		RemovedCount:      removed,
		Strategy:          m.strategy,
		KeyColumn:         m.column,
	}, nil
}

// selectMatcher picks key matching when both documents locate the same
// identifier column, content matching otherwise.
func (e *Engine) selectMatcher(first, second *document.Document) matcher {
	firstKey := e.locator.Locate(first)
	secondKey := e.locator.Locate(second)

	if firstKey != NoKeyColumn && firstKey == secondKey {
		return matcher{strategy: StrategyKey, column: firstKey}
	}
	return matcher{strategy: StrategyContent, column: NoKeyColumn}
}

// rowWidth is the width of the first data row. The rows of a document are
// compared against it rather than against the header, so exports with a
// trailing delimiter on every data row still match themselves.
func rowWidth(doc *document.Document) int {
	return len(doc.Row(0))
}

// matcher derives the identity of a row under one strategy.
type matcher struct {
	strategy MatchStrategy
	column   int
}

// identity returns the lookup key of a row. ok is false for rows that cannot
// take part in matching because their width differs from width, the width of
// the first row of their own document.
func (m matcher) identity(cells []string, width int) (key string, ok bool) {
	if len(cells) != width {
		return "", false
	}
	if m.strategy == StrategyKey {
		if m.column < 0 || m.column >= len(cells) {
			return "", false
		}
		return cells[m.column], true
	}
	return contentKey(cells), true
}

func (m matcher) index(doc *document.Document, width int) map[string]struct{} {
	set := make(map[string]struct{}, doc.RowCount())
	for _, cells := range doc.Rows() {
		if key, ok := m.identity(cells, width); ok {
			set[key] = struct{}{}
		}
	}
	return set
}

func (m matcher) contains(set map[string]struct{}, cells []string, width int) bool {
	key, ok := m.identity(cells, width)
	if !ok {
		return false
	}
	_, found := set[key]
	return found
}

// contentKey encodes the set of distinct cell values independent of their
// column order. Values are length-prefixed so that no two sets collide.
func contentKey(cells []string) string {
	values := slices.Clone(cells)
	sort.Strings(values)
	values = slices.Compact(values)

	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
