package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csv-reconciler/core/document"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, pattern string) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if pattern != "" {
		cfg.IdentifierPattern = pattern
	}
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

func TestReconcile_EndToEnd(t *testing.T) {
	engine := newTestEngine(t, `^[0-9]+$`)

	first := document.New([]string{"ID", "Name"}, [][]string{{"1", "A"}, {"2", "B"}})
	second := document.New([]string{"ID", "Name"}, [][]string{{"2", "B"}, {"3", "C"}})

	result, err := engine.Reconcile(first, second)
	require.NoError(t, err)

	want := []Row{
		{State: Added, Cells: []string{"3", "C"}},
		{State: Removed, Cells: []string{"1", "A"}},
		{State: Unchanged, Cells: []string{"2", "B"}},
	}
	if diff := cmp.Diff(want, result.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 1, result.AddedCount)
	assert.Equal(t, 1, result.RemovedCount)
	assert.Equal(t, 1, result.UnchangedCount())
	assert.Equal(t, StrategyKey, result.Strategy)
	assert.Equal(t, 0, result.KeyColumn)
	assert.Equal(t, []string{"ID", "Name"}, result.Headers)
	assert.Equal(t, Fingerprint([]string{"ID", "Name"}), result.FormatFingerprint)
}

func TestReconcile_KeyMatchingIgnoresOtherCells(t *testing.T) {
	engine := newTestEngine(t, "")

	first := document.New([]string{"Job", "Status"}, [][]string{{"123456789CL", "open"}})
	second := document.New([]string{"Job", "Status"}, [][]string{{"123456789CL", "closed"}})

	result, err := engine.Reconcile(first, second)
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, Unchanged, result.Rows[0].State)
	assert.Equal(t, []string{"123456789CL", "closed"}, result.Rows[0].Cells, "unchanged rows carry the newer values")
	assert.Equal(t, 0, result.AddedCount)
	assert.Equal(t, 0, result.RemovedCount)
	assert.Equal(t, StrategyKey, result.Strategy)
}

func TestReconcile_ContentFallback(t *testing.T) {
	t.Run("MultipleIdentifierColumns", func(t *testing.T) {
		engine := newTestEngine(t, `^[0-9]{4}$`)

		first := document.New([]string{"A", "B"}, [][]string{{"1234", "5678"}})
		second := document.New([]string{"A", "B"}, [][]string{{"5678", "1234"}})

		result, err := engine.Reconcile(first, second)
		require.NoError(t, err)

		assert.Equal(t, StrategyContent, result.Strategy)
		assert.Equal(t, NoKeyColumn, result.KeyColumn)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, Unchanged, result.Rows[0].State, "permuted values are the same record")
	})

	t.Run("NoIdentifierColumn", func(t *testing.T) {
		engine := newTestEngine(t, "")

		first := document.New([]string{"A", "B"}, [][]string{{"x", "y"}, {"p", "q"}})
		second := document.New([]string{"A", "B"}, [][]string{{"x", "y"}, {"p", "z"}})

		result, err := engine.Reconcile(first, second)
		require.NoError(t, err)

		assert.Equal(t, StrategyContent, result.Strategy)
		assert.Equal(t, 1, result.AddedCount)
		assert.Equal(t, 1, result.RemovedCount)
		assert.Equal(t, []Row{
			{State: Added, Cells: []string{"p", "z"}},
			{State: Removed, Cells: []string{"p", "q"}},
			{State: Unchanged, Cells: []string{"x", "y"}},
		}, result.Rows)
	})

	t.Run("IdentifierColumnsDiffer", func(t *testing.T) {
		engine := newTestEngine(t, "")

		first := document.New([]string{"A", "B"}, [][]string{{"123456789CL", "x"}})
		second := document.New([]string{"A", "B"}, [][]string{{"x", "123456789CL"}})

		result, err := engine.Reconcile(first, second)
		require.NoError(t, err)

		assert.Equal(t, StrategyContent, result.Strategy)
		assert.Equal(t, Unchanged, result.Rows[0].State)
	})

	t.Run("DuplicateValuesCollapse", func(t *testing.T) {
		engine := newTestEngine(t, "")

		first := document.New([]string{"A", "B", "C"}, [][]string{{"a", "a", "b"}})
		second := document.New([]string{"A", "B", "C"}, [][]string{{"b", "a", "b"}})

		result, err := engine.Reconcile(first, second)
		require.NoError(t, err)
		assert.Equal(t, Unchanged, result.Rows[0].State)
	})

	t.Run("SeparatorsDoNotCollide", func(t *testing.T) {
		engine := newTestEngine(t, "")

		first := document.New([]string{"A", "B"}, [][]string{{"1:a", "b"}})
		second := document.New([]string{"A", "B"}, [][]string{{"1", "a1:b"}})

		result, err := engine.Reconcile(first, second)
		require.NoError(t, err)
		assert.Equal(t, 1, result.AddedCount)
		assert.Equal(t, 1, result.RemovedCount)
	})
}

func TestReconcile_Errors(t *testing.T) {
	engine := newTestEngine(t, "")

	t.Run("BothEmpty", func(t *testing.T) {
		_, err := engine.Reconcile(document.New(nil, nil), document.New(nil, nil))
		assert.ErrorIs(t, err, ErrBothEmpty)
	})

	t.Run("DifferentFormat", func(t *testing.T) {
		first := document.New([]string{"A", "B", "C"}, [][]string{{"1", "2", "3"}})
		second := document.New([]string{"A", "B", "C", "D"}, [][]string{{"1", "2", "3", "4"}})

		_, err := engine.Reconcile(first, second)
		assert.ErrorIs(t, err, ErrDifferentFormat)

		var formatErr *FormatError
		require.True(t, errors.As(err, &formatErr))
		assert.Equal(t, 3, formatErr.FirstColumns)
		assert.Equal(t, 4, formatErr.SecondColumns)
	})

	t.Run("OneSideEmpty", func(t *testing.T) {
		second := document.New([]string{"A"}, [][]string{{"1"}})
		_, err := engine.Reconcile(document.New(nil, nil), second)
		assert.ErrorIs(t, err, ErrDifferentFormat)
	})
}

func TestReconcile_Idempotent(t *testing.T) {
	engine := newTestEngine(t, "")
	doc := document.New([]string{"Job", "Name"}, [][]string{
		{"000000001CL", "a"},
		{"000000002CL", "b"},
		{"000000003CL", "c"},
	})

	result, err := engine.Reconcile(doc, doc)
	require.NoError(t, err)

	assert.Equal(t, 0, result.AddedCount)
	assert.Equal(t, 0, result.RemovedCount)
	require.Len(t, result.Rows, 3)
	for _, row := range result.Rows {
		assert.Equal(t, Unchanged, row.State)
	}
}

func TestReconcile_SwappedInputsSwapCounts(t *testing.T) {
	engine := newTestEngine(t, "")
	a := document.New([]string{"A", "B"}, [][]string{{"1", "x"}, {"2", "y"}, {"3", "z"}})
	b := document.New([]string{"A", "B"}, [][]string{{"2", "y"}, {"4", "w"}})

	ab, err := engine.Reconcile(a, b)
	require.NoError(t, err)
	ba, err := engine.Reconcile(b, a)
	require.NoError(t, err)

	assert.Equal(t, ab.AddedCount, ba.RemovedCount)
	assert.Equal(t, ab.RemovedCount, ba.AddedCount)
	assert.Equal(t, ab.UnchangedCount(), ba.UnchangedCount())
}

func TestReconcile_EverySecondRowAppearsOnce(t *testing.T) {
	engine := newTestEngine(t, "")
	first := document.New([]string{"A", "B"}, [][]string{{"1", "x"}, {"2", "y"}, {"9", "q"}})
	second := document.New([]string{"A", "B"}, [][]string{{"2", "y"}, {"3", "z"}, {"4", "w"}, {"1", "x"}})

	result, err := engine.Reconcile(first, second)
	require.NoError(t, err)

	fromSecond := 0
	for _, row := range result.Rows {
		if row.State != Removed {
			fromSecond++
		}
	}
	assert.Equal(t, second.RowCount(), fromSecond)
	assert.Equal(t, second.RowCount()+result.RemovedCount, len(result.Rows))
	assert.LessOrEqual(t, result.AddedCount+result.RemovedCount, len(result.Rows))
}

func TestReconcile_StableGrouping(t *testing.T) {
	engine := newTestEngine(t, "")
	first := document.New([]string{"A"}, [][]string{{"r1"}, {"keep1"}, {"r2"}, {"keep2"}})
	second := document.New([]string{"A"}, [][]string{{"keep1"}, {"a1"}, {"keep2"}, {"a2"}})

	result, err := engine.Reconcile(first, second)
	require.NoError(t, err)

	var got []string
	for _, row := range result.Rows {
		got = append(got, row.State.String()+":"+row.Cells[0])
	}
	assert.Equal(t, []string{
		"added:a1", "added:a2",
		"removed:r1", "removed:r2",
		"unchanged:keep1", "unchanged:keep2",
	}, got)
}

func TestReconcile_MalformedRowsNeverMatch(t *testing.T) {
	engine := newTestEngine(t, "")

	t.Run("ContentStrategy", func(t *testing.T) {
		first := document.New([]string{"A", "B"}, [][]string{{"1", "x"}, {"short"}})
		second := document.New([]string{"A", "B"}, [][]string{{"1", "x"}, {"short"}, {"a", "b", "c"}})

		result, err := engine.Reconcile(first, second)
		require.NoError(t, err)

		assert.Equal(t, 2, result.AddedCount, "short and long rows of second cannot match")
		assert.Equal(t, 1, result.RemovedCount, "short row of first cannot match")
		assert.Equal(t, 1, result.UnchangedCount())
	})

	t.Run("KeyStrategy", func(t *testing.T) {
		first := document.New([]string{"Job", "B"}, [][]string{{"123456789CL", "x"}, {"123456789CL"}})
		second := document.New([]string{"Job", "B"}, [][]string{{"123456789CL", "y"}, {}})

		result, err := engine.Reconcile(first, second)
		require.NoError(t, err)

		assert.Equal(t, StrategyKey, result.Strategy)
		assert.Equal(t, 1, result.AddedCount)
		assert.Equal(t, 1, result.RemovedCount)
		assert.Equal(t, 1, result.UnchangedCount())
	})
}

func TestReconcile_TrailingDelimiterRows(t *testing.T) {
	engine := newTestEngine(t, "")

	t.Run("KeyStrategyMatchesItself", func(t *testing.T) {
		doc, err := document.Parse(strings.NewReader("Job,Name\n000000001CL,a,\n000000002CL,b,\n"))
		require.NoError(t, err)

		result, err := engine.Reconcile(doc, doc)
		require.NoError(t, err)

		assert.Equal(t, StrategyKey, result.Strategy)
		assert.Equal(t, 0, result.AddedCount)
		assert.Equal(t, 0, result.RemovedCount)
		assert.Equal(t, 2, result.UnchangedCount())
	})

	t.Run("ContentStrategyMatchesItself", func(t *testing.T) {
		doc, err := document.Parse(strings.NewReader("A,B\nx,y,\np,q,\n"))
		require.NoError(t, err)

		result, err := engine.Reconcile(doc, doc)
		require.NoError(t, err)

		assert.Equal(t, StrategyContent, result.Strategy)
		assert.Equal(t, 0, result.AddedCount)
		assert.Equal(t, 0, result.RemovedCount)
		assert.Equal(t, 2, result.UnchangedCount())
	})

	t.Run("RowsOffTheFirstRowWidthNeverMatch", func(t *testing.T) {
		doc, err := document.Parse(strings.NewReader("Job,Name\n000000001CL,a,\n000000002CL,b\n"))
		require.NoError(t, err)

		result, err := engine.Reconcile(doc, doc)
		require.NoError(t, err)

		assert.Equal(t, 1, result.AddedCount)
		assert.Equal(t, 1, result.RemovedCount)
		assert.Equal(t, 1, result.UnchangedCount())
	})
}

func TestReconcile_ResultDoesNotAliasDocuments(t *testing.T) {
	engine := newTestEngine(t, "")
	rows := [][]string{{"1", "x"}}
	doc := document.New([]string{"A", "B"}, rows)

	result, err := engine.Reconcile(doc, doc)
	require.NoError(t, err)

	rows[0][0] = "changed"
	assert.Equal(t, "1", result.Rows[0].Cells[0])
}

func TestReconcileFiles(t *testing.T) {
	dir := t.TempDir()
	firstPath := filepath.Join(dir, "first.csv")
	secondPath := filepath.Join(dir, "second.csv")
	require.NoError(t, os.WriteFile(firstPath, []byte("Job,Name\n000000001CL,a\n000000002CL,b\n"), 0o600))
	require.NoError(t, os.WriteFile(secondPath, []byte("Job,Name\n000000002CL,b\n000000003CL,c\n"), 0o600))

	engine := newTestEngine(t, "")
	result, err := engine.ReconcileFiles(firstPath, secondPath)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AddedCount)
	assert.Equal(t, 1, result.RemovedCount)
	assert.Equal(t, StrategyKey, result.Strategy)

	_, err = engine.ReconcileFiles(filepath.Join(dir, "missing.csv"), secondPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewEngine_InvalidPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IdentifierPattern = "[unclosed"

	_, err := NewEngine(cfg)
	assert.Error(t, err)
}
