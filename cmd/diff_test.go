package cmd

import (
	"bytes"
	"testing"

	"csv-reconciler/core/config"
	"csv-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPrintResult(t *testing.T) {
	result := &reconcile.CombinedResult{
		FormatFingerprint: "fp",
		Headers:           []string{"Job", "Name"},
		Rows: []reconcile.Row{
			{State: reconcile.Added, Cells: []string{"3", "c"}},
			{State: reconcile.Removed, Cells: []string{"1", "a"}},
			{State: reconcile.Unchanged, Cells: []string{"2", "b"}},
		},
		AddedCount:   1,
		RemovedCount: 1,
		Strategy:     reconcile.StrategyKey,
	}

	var buf bytes.Buffer
	printResult(&buf, result, ";")
	assert.Equal(t, "  Job;Name\n+ 3;c\n- 1;a\n  2;b\n\n1 added, 1 removed, 1 unchanged (key matching, format fp)\n", buf.String())
}

func TestExportColumns(t *testing.T) {
	result := &reconcile.CombinedResult{Headers: []string{"a", "b", "c"}}
	cfg := &config.Config{}

	t.Cleanup(func() {
		diffColumns = ""
		diffTemplate = ""
	})

	diffColumns = "2,0"
	columns, err := exportColumns(cfg, result, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, columns)

	diffColumns = ""
	_, err = exportColumns(cfg, result, zap.NewNop())
	assert.Error(t, err)

	cfg.Templates.DefaultSelect = true
	columns, err = exportColumns(cfg, result, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, columns)
}
