package vcfio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Writer emits a Header followed by Records in VCF text format, optionally
// bgzip/gzip-compressed.
type Writer struct {
	out     *bufio.Writer
	closers []io.Closer
}

// NewWriter wraps w. When gzipOut is true, output is gzip-compressed (a
// valid, if not block-indexed, bgzip-compatible stream).
func NewWriter(w io.Writer, gzipOut bool) *Writer {
	if gzipOut {
		gz := gzip.NewWriter(w)
		return &Writer{out: bufio.NewWriter(gz), closers: []io.Closer{gz}}
	}
	return &Writer{out: bufio.NewWriter(nopCloserWriter{w})}
}

type nopCloserWriter struct{ io.Writer }

func (nopCloserWriter) Close() error { return nil }

// Close flushes buffered output and closes any compressor.
func (w *Writer) Close() error {
	if err := w.out.Flush(); err != nil {
		return err
	}
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i].Close(); err != nil {
			return err
		}
	}
	return nil
}

// WriteHeader writes the full VCF meta-header and #CHROM line.
func (w *Writer) WriteHeader(h *Header) error {
	for _, c := range h.Contigs {
		if c.HasLength {
			fmt.Fprintf(w.out, "##contig=<ID=%s,length=%d>\n", c.Name, c.Length)
		} else {
			fmt.Fprintf(w.out, "##contig=<ID=%s>\n", c.Name)
		}
	}
	for _, f := range h.Filters {
		fmt.Fprintf(w.out, "##FILTER=<ID=%s,Description=%q>\n", f.ID, f.Description)
	}
	for _, i := range h.Infos {
		fmt.Fprintf(w.out, "##INFO=<ID=%s,Number=%s,Type=%s,Description=%q>\n", i.ID, i.Number, i.Type, i.Description)
	}
	for _, f := range h.Formats {
		fmt.Fprintf(w.out, "##FORMAT=<ID=%s,Number=%s,Type=%s,Description=%q>\n", f.ID, f.Number, f.Type, f.Description)
	}
	for _, o := range h.Other {
		fmt.Fprintln(w.out, o)
	}
	cols := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}
	if len(h.Samples) > 0 {
		cols = append(cols, "FORMAT")
		cols = append(cols, h.Samples...)
	}
	fmt.Fprintln(w.out, strings.Join(cols, "\t"))
	return w.out.Flush()
}

// WriteRecord writes one merged data line. format and samples are already
// fully assembled by internal/synth; Record.Samples here is one raw
// colon-joined string per sample column.
func (w *Writer) WriteRecord(r *Record) error {
	qual := "."
	if r.Qual != nil {
		qual = strconv.FormatFloat(*r.Qual, 'f', -1, 64)
	}
	filter := "."
	if len(r.Filter) > 0 {
		filter = strings.Join(r.Filter, ";")
	}
	info := "."
	if len(r.InfoKeys) > 0 {
		parts := make([]string, 0, len(r.InfoKeys))
		for _, k := range r.InfoKeys {
			v := r.Info[k]
			if v == "" {
				parts = append(parts, k)
				continue
			}
			parts = append(parts, k+"="+v)
		}
		info = strings.Join(parts, ";")
	}
	cols := []string{r.Chrom, strconv.Itoa(r.Pos), orDot(r.ID), r.Ref, r.Alt, qual, filter, info}
	if len(r.Format) > 0 {
		cols = append(cols, strings.Join(r.Format, ":"))
		cols = append(cols, r.Samples...)
	}
	_, err := fmt.Fprintln(w.out, strings.Join(cols, "\t"))
	return err
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
