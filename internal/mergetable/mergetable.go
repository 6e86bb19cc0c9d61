// Package mergetable writes the optional merge-table TSV (spec.md §6):
// output_row_id, input_id, input_row_id, criterion. It uses
// github.com/grailbio/base/tsv, the same column writer grailbio-bio's
// pileup/snp/output.go uses for its per-base TSV output.
package mergetable

import (
	"io"
	"strconv"

	"github.com/drtconway/svelt/internal/synth"
	"github.com/grailbio/base/tsv"
)

// Writer emits merge-table rows.
type Writer struct {
	w *tsv.Writer
}

// NewWriter wraps w and emits the column header immediately.
func NewWriter(w io.Writer) (*Writer, error) {
	tw := tsv.NewWriter(w)
	tw.WriteString("output_row_id")
	tw.WriteString("input_id")
	tw.WriteString("input_row_id")
	tw.WriteString("criterion")
	if err := tw.EndLine(); err != nil {
		return nil, err
	}
	return &Writer{w: tw}, nil
}

// WriteRows appends one TSV line per row.
func (w *Writer) WriteRows(rows []synth.TableRow) error {
	for _, r := range rows {
		w.w.WriteString(strconv.Itoa(r.OutputRowID))
		w.w.WriteString(strconv.Itoa(r.InputID))
		w.w.WriteString(strconv.Itoa(r.InputRowID))
		w.w.WriteString(r.Criterion)
		if err := w.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered output.
func (w *Writer) Close() error {
	return w.w.Flush()
}
