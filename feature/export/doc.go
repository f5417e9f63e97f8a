// Package export renders reconciliation results as xlsx workbooks.
//
// Only the selected columns are written, in the given order. Added rows are
// filled with Config.AddedColor and removed rows with Config.RemovedColor;
// unchanged rows keep the default style.
package export
