// Package document loads delimited text snapshots into an in-memory table.
//
// A Document is a header row plus data rows. It is built once from a file
// (Load) or a reader (Parse) and is read-only afterwards.
//
// # Empty Files
//
// A file without any record is not an error. It yields an empty Document whose
// IsEmpty method reports true and whose headers and rows are nil.
//
// # Row Width
//
// Rows are read tolerantly by default: a row may be shorter or longer than the
// header. All indexed access goes through At, which is bounds-checked. Callers
// that prefer to reject such files pass WithStrictWidth, which makes Load and
// Parse fail with a *WidthError.
//
// # Usage
//
//	doc, err := document.Load("export.csv")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(doc.RowCount(), doc.ColumnCount())
package document
