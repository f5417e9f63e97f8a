package document

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// utf8BOM is the byte order mark written by spreadsheet exports on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is an immutable table made of a header row and data rows.
type Document struct {
	headers []string
	rows    [][]string
}

// WidthError reports a data row whose width differs from the header row.
// It is only returned when strict width checking is enabled.
type WidthError struct {
	// Line is the 1-based line of the offending record in the input.
	Line int
	// Want is the header width.
	Want int
	// Got is the width of the offending row.
	Got int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("line %d: row has %d cells, header has %d", e.Line, e.Got, e.Want)
}

// Option configures how a document is parsed.
type Option func(*options)

type options struct {
	delimiter rune
	strict    bool
}

// WithDelimiter sets the field delimiter. The default is a comma.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		if r != 0 {
			o.delimiter = r
		}
	}
}

// WithStrictWidth rejects files whose rows do not match the header width.
func WithStrictWidth() Option {
	return func(o *options) {
		o.strict = true
	}
}

// New builds a document from already split headers and rows.
// The slices are used as-is and must not be modified afterwards.
func New(headers []string, rows [][]string) *Document {
	return &Document{headers: headers, rows: rows}
}

// Load reads the delimited file at path.
func Load(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a delimited document from r. The first record becomes the
// header row and every following record a data row.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	o := options{delimiter: ','}
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(skipBOM(r))
	reader.Comma = o.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, lines, err := readAll(reader)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Document{}, nil
	}

	headers := records[0]
	rows := records[1:]

	if o.strict {
		for i, row := range rows {
			if len(row) != len(headers) {
				return nil, &WidthError{Line: lines[i+1], Want: len(headers), Got: len(row)}
			}
		}
	}

	if len(rows) == 0 {
		rows = nil
	}
	return &Document{headers: headers, rows: rows}, nil
}

// readAll reads every record and remembers the input line each one started on.
func readAll(reader *csv.Reader) ([][]string, []int, error) {
	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
}

// skipBOM drops a leading UTF-8 byte order mark so that it does not end up in
// the first header name.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// Headers returns the header row.
func (d *Document) Headers() []string {
	return d.headers
}

// Rows returns the data rows. The returned slices must not be modified.
func (d *Document) Rows() [][]string {
	return d.rows
}

// Row returns the data row at index i, or nil if i is out of range.
func (d *Document) Row(i int) []string {
	if i < 0 || i >= len(d.rows) {
		return nil
	}
	return d.rows[i]
}

// RowCount returns the number of data rows (the header is not counted).
func (d *Document) RowCount() int {
	return len(d.rows)
}

// ColumnCount returns the number of header columns.
func (d *Document) ColumnCount() int {
	return len(d.headers)
}

// IsEmpty reports whether the source contained no record at all.
func (d *Document) IsEmpty() bool {
	return len(d.headers) == 0 && len(d.rows) == 0
}

// At returns the cell at (row, column). ok is false when either index is out of
// range for that particular row.
func (d *Document) At(row, column int) (value string, ok bool) {
	if row < 0 || row >= len(d.rows) {
		return "", false
	}
	cells := d.rows[row]
	if column < 0 || column >= len(cells) {
		return "", false
	}
	return cells[column], true
}
