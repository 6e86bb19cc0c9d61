// Package header synthesises the merged output VCF header (spec.md §4.6):
// the union of input contigs, FILTER/INFO definitions, the three SVELT_*
// INFO definitions, the union of input FORMAT definitions, and the
// concatenated sample list.
package header

import (
	"github.com/drtconway/svelt/internal/synth"
	"github.com/drtconway/svelt/internal/vcfio"
	"github.com/pkg/errors"
)

var svelteInfoDefs = []vcfio.InfoDef{
	{ID: "SVELT_CRITERIA", Number: ".", Type: "String", Description: "Merge criteria (exact, near, flipped) observed among this group's member records"},
	{ID: "SVELT_ALT_SEQ", Number: ".", Type: "String", Description: "Literal ALT sequences contributed by members whose representative form is symbolic"},
	{ID: "SVELT_ALT_CLASS", Number: "1", Type: "String", Description: "Classifier label for the representative's insertion sequence"},
}

// mergeIDPolicyLine documents the open-question decision (DESIGN.md): merged
// rows keep the representative's ID verbatim and accept possible collisions
// across inputs (spec.md §9, "ID uniqueness").
const mergeIDPolicyLine = "##svelt_mergeIDPolicy=keep-representative"

// Merge builds the output header from all input headers, returning a
// synth.Layout describing the output sample-column layout. It is a fatal
// error (spec §7 kind 5) for two inputs to declare the same sample name.
func Merge(headers []vcfio.Header) (*vcfio.Header, synth.Layout, error) {
	out := &vcfio.Header{}

	seenContig := make(map[string]int) // name -> index in out.Contigs
	for _, h := range headers {
		for _, c := range h.Contigs {
			if i, ok := seenContig[c.Name]; ok {
				if c.HasLength && !out.Contigs[i].HasLength {
					out.Contigs[i] = c
				}
				continue
			}
			seenContig[c.Name] = len(out.Contigs)
			out.Contigs = append(out.Contigs, c)
		}
	}

	seenFilter := make(map[string]bool)
	for _, h := range headers {
		for _, f := range h.Filters {
			if seenFilter[f.ID] {
				continue
			}
			seenFilter[f.ID] = true
			out.Filters = append(out.Filters, f)
		}
	}

	seenInfo := make(map[string]bool)
	for _, h := range headers {
		for _, i := range h.Infos {
			if seenInfo[i.ID] {
				continue
			}
			seenInfo[i.ID] = true
			out.Infos = append(out.Infos, i)
		}
	}
	for _, d := range svelteInfoDefs {
		if seenInfo[d.ID] {
			continue
		}
		out.Infos = append(out.Infos, d)
	}

	seenFormat := make(map[string]bool)
	for _, h := range headers {
		for _, f := range h.Formats {
			if seenFormat[f.ID] {
				continue
			}
			seenFormat[f.ID] = true
			out.Formats = append(out.Formats, f)
		}
	}

	out.Other = append(out.Other, mergeIDPolicyLine)

	layout := synth.Layout{
		Offsets: make([]int, len(headers)),
		Counts:  make([]int, len(headers)),
	}
	seenSample := make(map[string]int) // name -> input index, for collision reporting
	total := 0
	for i, h := range headers {
		layout.Offsets[i] = total
		layout.Counts[i] = len(h.Samples)
		for _, s := range h.Samples {
			if prior, ok := seenSample[s]; ok {
				return nil, synth.Layout{}, errors.Errorf("sample name %q declared by both input %d and input %d", s, prior, i)
			}
			seenSample[s] = i
		}
		out.Samples = append(out.Samples, h.Samples...)
		total += len(h.Samples)
	}
	layout.Total = total

	return out, layout, nil
}
