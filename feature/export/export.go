package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"csv-reconciler/core/reconcile"

	"github.com/xuri/excelize/v2"
)

// Extension is appended to export paths that lack it.
const Extension = ".xlsx"

var (
	// ErrNoColumns is returned when no column is selected.
	ErrNoColumns = errors.New("no columns selected")
	// ErrNoData is returned when the result holds no rows.
	ErrNoData = errors.New("result has no rows")
)

// ColumnError reports a selected column outside the result layout.
type ColumnError struct {
	Column int
	Count  int
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %d out of range, result has %d columns", e.Column, e.Count)
}

// Writer renders combined results as spreadsheets.
type Writer struct {
	cfg Config
}

// NewWriter creates a writer. Empty config fields fall back to DefaultConfig.
func NewWriter(cfg Config) *Writer {
	def := DefaultConfig()
	if cfg.AddedColor == "" {
		cfg.AddedColor = def.AddedColor
	}
	if cfg.RemovedColor == "" {
		cfg.RemovedColor = def.RemovedColor
	}
	if cfg.SheetName == "" {
		cfg.SheetName = def.SheetName
	}
	return &Writer{cfg: cfg}
}

// SheetName returns the worksheet name used for exports.
func (w *Writer) SheetName() string {
	return w.cfg.SheetName
}

// EnsureExtension appends .xlsx unless path already ends with it.
func EnsureExtension(path string) string {
	if strings.HasSuffix(strings.ToLower(path), Extension) {
		return path
	}
	return path + Extension
}

// Validate checks that result can be exported with the given columns.
func Validate(result *reconcile.CombinedResult, columns []int) error {
	if len(columns) == 0 {
		return ErrNoColumns
	}
	if !result.HasData() {
		return ErrNoData
	}
	for _, c := range columns {
		if c < 0 || c >= result.ColumnCount() {
			return &ColumnError{Column: c, Count: result.ColumnCount()}
		}
	}
	return nil
}

// Write renders the selected columns of result as an xlsx workbook into out.
// The first row holds the headers; data rows are filled by state.
func (w *Writer) Write(out io.Writer, result *reconcile.CombinedResult, columns []int) error {
	f, err := w.build(result, columns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveFile writes the workbook to path, appending .xlsx when missing.
// It returns the path that was written.
func (w *Writer) SaveFile(path string, result *reconcile.CombinedResult, columns []int) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("empty export path")
	}
	path = EnsureExtension(path)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := w.Write(file, result, columns); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func (w *Writer) build(result *reconcile.CombinedResult, columns []int) (*excelize.File, error) {
	if err := Validate(result, columns); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), w.cfg.SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := w.fill(f, result, columns); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (w *Writer) fill(f *excelize.File, result *reconcile.CombinedResult, columns []int) error {
	added, err := fillStyle(f, w.cfg.AddedColor)
	if err != nil {
		return fmt.Errorf("added style: %w", err)
	}
	removed, err := fillStyle(f, w.cfg.RemovedColor)
	if err != nil {
		return fmt.Errorf("removed style: %w", err)
	}

	sw, err := f.NewStreamWriter(w.cfg.SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = result.Headers[c]
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range result.Rows {
		style := 0
		switch row.State {
		case reconcile.Added:
			style = added
		case reconcile.Removed:
			style = removed
		}

		values := make([]interface{}, len(columns))
		for j, c := range columns {
			value := ""
			if c < len(row.Cells) {
				value = row.Cells[c]
			}
			values[j] = excelize.Cell{StyleID: style, Value: value}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(color, "#")},
		},
	})
}
