package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"csv-reconciler/core/config"
	"csv-reconciler/core/logger"
	"csv-reconciler/core/reconcile"
	"csv-reconciler/core/storage"
	"csv-reconciler/core/utils"
	"csv-reconciler/feature/export"
	"csv-reconciler/feature/snapshot"
	"csv-reconciler/feature/templates"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the diff command
	diffExportPath string
	diffColumns    string
	diffTemplate   string
	diffJSON       bool
	diffFromBucket bool
	diffUpload     bool
)

// diffCmd reconciles two snapshots and prints the combined result.
var diffCmd = &cobra.Command{
	Use:   "diff <first> <second>",
	Short: "Reconcile two CSV snapshots",
	Long: `Reconcile an older (first) and a newer (second) snapshot of the same export.

Rows are matched by a job number column when both snapshots have one, and by
their cell values otherwise. The result lists added rows first, then removed
rows, then unchanged rows.

Examples:
  # Print the combined result
  diff old.csv new.csv

  # Print the result as JSON
  diff old.csv new.csv --json

  # Export columns 0 and 2 as a spreadsheet
  diff old.csv new.csv --export report --columns 0,2

  # Export with a saved template and upload the workbook to the bucket
  diff daily/old.csv daily/new.csv --bucket --export report --template Billing --upload`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffExportPath, "export", "", "Write the result to this xlsx file")
	diffCmd.Flags().StringVar(&diffColumns, "columns", "", "Comma separated column indices to export")
	diffCmd.Flags().StringVar(&diffTemplate, "template", "", "Export the columns of this template")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Print the combined result as JSON")
	diffCmd.Flags().BoolVar(&diffFromBucket, "bucket", false, "Treat the arguments as object keys in the storage bucket")
	diffCmd.Flags().BoolVar(&diffUpload, "upload", false, "Upload the export to the storage bucket")

	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	first, second := args[0], args[1]

	var fetcher *snapshot.Fetcher
	if diffFromBucket || diffUpload {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		fetcher = snapshot.NewFetcher(client, cfg.Storage, "", l)
	}

	if diffFromBucket {
		var cleanFirst, cleanSecond func()
		if first, cleanFirst, err = fetcher.Fetch(ctx, first); err != nil {
			return err
		}
		defer cleanFirst()
		if second, cleanSecond, err = fetcher.Fetch(ctx, second); err != nil {
			return err
		}
		defer cleanSecond()
	}

	engine, err := reconcile.NewEngine(cfg.Reconcile)
	if err != nil {
		return err
	}
	runner := reconcile.NewRunner(engine, reconcile.WithLogger(l))

	result, err := runner.Run(ctx, first, second)
	if err != nil {
		return err
	}

	if diffJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(cmd.OutOrStdout(), result, cfg.Reconcile.Delimiter)
	}

	if diffExportPath == "" {
		return nil
	}

	columns, err := exportColumns(cfg, result, l)
	if err != nil {
		return err
	}

	writer := export.NewWriter(cfg.Export)
	path, err := writer.SaveFile(utils.NormalizePath(diffExportPath), result, columns)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	l.Info("Export written", zap.String("path", path), zap.Ints("columns", columns))

	if diffUpload {
		var buf bytes.Buffer
		if err := writer.Write(&buf, result, columns); err != nil {
			return err
		}
		key, err := fetcher.Upload(ctx, filepath.Base(path), buf.Bytes())
		if err != nil {
			return err
		}
		l.Info("Export uploaded", zap.String("key", key))
	}
	return nil
}

// exportColumns resolves --template, then --columns, then the default selection.
func exportColumns(cfg *config.Config, result *reconcile.CombinedResult, l *zap.Logger) ([]int, error) {
	if diffTemplate != "" {
		store := templates.NewStore(cfg.Templates.File, l)
		if err := store.Load(); err != nil {
			return nil, err
		}
		tpl, ok := store.Find(result.FormatFingerprint, diffTemplate)
		if !ok {
			return nil, fmt.Errorf("template %q for format %s: %w", diffTemplate, result.FormatFingerprint, templates.ErrNotFound)
		}
		return templates.SelectedIndices(tpl.Selection(result.ColumnCount())), nil
	}

	if diffColumns != "" {
		return utils.ParseIndices(diffColumns)
	}

	columns := templates.SelectedIndices(templates.DefaultSelection(result.ColumnCount(), cfg.Templates.DefaultSelect))
	if len(columns) == 0 {
		return nil, errors.New("no columns selected: use --columns or --template, or set TEMPLATES_DEFAULT_SELECT=true")
	}
	return columns, nil
}

// printResult writes one line per row: "+" added, "-" removed, " " unchanged.
func printResult(w io.Writer, result *reconcile.CombinedResult, delimiter string) {
	if delimiter == "" {
		delimiter = ","
	}

	fmt.Fprintf(w, "  %s\n", strings.Join(result.Headers, delimiter))
	for _, row := range result.Rows {
		marker := " "
		switch row.State {
		case reconcile.Added:
			marker = "+"
		case reconcile.Removed:
			marker = "-"
		}
		fmt.Fprintf(w, "%s %s\n", marker, strings.Join(row.Cells, delimiter))
	}
	fmt.Fprintf(w, "\n%d added, %d removed, %d unchanged (%s matching, format %s)\n",
		result.AddedCount, result.RemovedCount, result.UnchangedCount(), result.Strategy, result.FormatFingerprint)
}
