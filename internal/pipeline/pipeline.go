// Package pipeline implements the Pipeline Driver (spec.md §4.6): it streams
// every input through the Normaliser, builds the matcher's components, and
// writes one synthesised row per component in contig/position order.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/drtconway/svelt/internal/classifier"
	"github.com/drtconway/svelt/internal/header"
	"github.com/drtconway/svelt/internal/matcher"
	"github.com/drtconway/svelt/internal/mergeopts"
	"github.com/drtconway/svelt/internal/mergetable"
	"github.com/drtconway/svelt/internal/refseq"
	"github.com/drtconway/svelt/internal/svrecord"
	"github.com/drtconway/svelt/internal/synth"
	"github.com/drtconway/svelt/internal/vcfio"
	"github.com/grailbio/base/log"
)

// FatalError wraps an error that must abort the run with a specific process
// exit code (spec.md §6 exit codes; §7 error kinds 5-7).
type FatalError struct {
	Code int
	Err  error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

func fatal(code int, format string, args ...interface{}) *FatalError {
	return &FatalError{Code: code, Err: fmt.Errorf(format, args...)}
}

// Run streams inputs, matches records into components, and writes the
// merged output (spec.md §4.6). table may be nil to skip the merge table.
func Run(ctx context.Context, inputs []*vcfio.Reader, out *vcfio.Writer, opts mergeopts.Opts, ref refseq.Provider, cls *classifier.Classifier, table *mergetable.Writer) error {
	headers := make([]vcfio.Header, len(inputs))
	for i, in := range inputs {
		headers[i] = in.Header
	}
	outHeader, layout, err := header.Merge(headers)
	if err != nil {
		return fatal(4, "merging headers: %w", err)
	}

	knownContigs := make(map[string]struct{}, len(outHeader.Contigs))
	for _, c := range outHeader.Contigs {
		knownContigs[c.Name] = struct{}{}
	}
	contigOrder := make(map[string]int, len(outHeader.Contigs))
	for i, c := range outHeader.Contigs {
		contigOrder[c.Name] = i
	}

	var records []*svrecord.Record
	for inputID, in := range inputs {
		rowIndex := 0
		for {
			select {
			case <-ctx.Done():
				return fatal(3, "cancelled: %w", ctx.Err())
			default:
			}
			rec, rerr := in.Next()
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				return fatal(3, "reading input %d: %w", inputID, rerr)
			}
			r, nerr := svrecord.Normalize(*rec, inputID, rowIndex)
			if nerr != nil {
				log.Error.Printf("input %d row %d: %v, passing through as OTHER", inputID, rowIndex, nerr)
			} else {
				svrecord.DemoteUnknownMateContig(r, knownContigs)
				if r.End < r.Start {
					panic(fmt.Sprintf("internal invariant violation: input %d row %d has end < start after normalisation", inputID, rowIndex))
				}
			}
			records = append(records, r)
			rowIndex++
		}
	}

	components := matcher.Match(records, opts, ref)

	sort.SliceStable(components, func(i, j int) bool {
		ri, rj := components[i], components[j]
		a, b := representativeOf(ri, records), representativeOf(rj, records)
		if contigOrder[a.Chrom] != contigOrder[b.Chrom] {
			return contigOrder[a.Chrom] < contigOrder[b.Chrom]
		}
		return a.Start < b.Start
	})

	if err := out.WriteHeader(outHeader); err != nil {
		return fatal(3, "writing output header: %w", err)
	}

	for rowID, c := range components {
		rec, rows := synth.Synthesize(rowID, c, records, layout, cls)
		if err := out.WriteRecord(rec); err != nil {
			return fatal(3, "writing output row %d: %w", rowID, err)
		}
		if table != nil {
			if err := table.WriteRows(rows); err != nil {
				return fatal(3, "writing merge table row for output row %d: %w", rowID, err)
			}
		}
	}

	return nil
}

func representativeOf(c matcher.Component, records []*svrecord.Record) *svrecord.Record {
	rep := records[c.Members[0]]
	for _, id := range c.Members[1:] {
		r := records[id]
		if r.InputID < rep.InputID || (r.InputID == rep.InputID && r.RowIndex < rep.RowIndex) {
			rep = r
		}
	}
	return rep
}
