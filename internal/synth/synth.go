// Package synth implements the Row Synthesiser (spec.md §4.5): turning a
// matched component of SvRecords into one merged output vcfio.Record.
package synth

import (
	"sort"
	"strconv"
	"strings"

	"github.com/drtconway/svelt/internal/classifier"
	"github.com/drtconway/svelt/internal/matcher"
	"github.com/drtconway/svelt/internal/svkind"
	"github.com/drtconway/svelt/internal/svrecord"
	"github.com/drtconway/svelt/internal/vcfio"
)

// missingGT is the VCF representation of "no call" for an uncontributing
// input (spec.md §4.5 rule 4).
const missingGT = "./."

// Layout describes where each input's sample columns land in the output's
// concatenated sample list (spec.md §4.6).
type Layout struct {
	// Offsets[i] is the index into the output sample slice where input i's
	// samples begin; Counts[i] is how many columns it contributes.
	Offsets []int
	Counts  []int
	Total   int
}

// TableRow is one line of the optional merge-table TSV (spec.md §6).
type TableRow struct {
	OutputRowID int
	InputID     int
	InputRowID  int
	Criterion   string
}

// Synthesize builds the output record for component c (spec.md §4.5).
// outputRowID is this component's 0-based ordinal among emitted rows, used
// only for the merge table.
func Synthesize(outputRowID int, c matcher.Component, records []*svrecord.Record, layout Layout, cls *classifier.Classifier) (*vcfio.Record, []TableRow) {
	members := make([]*svrecord.Record, len(c.Members))
	for i, id := range c.Members {
		members[i] = records[id]
	}

	rep := representative(members)

	// The literal-ALT member only overrides the ALT field (spec.md §9,
	// "symbolic vs literal ALT"); the coordinate representative's other
	// fixed columns (CHROM/POS/END/REF/ID) and INFO stay as §4.5.1 requires.
	alt, hasLiteralAlt := rep.Alt, rep.HasLiteralAlt
	if !hasLiteralAlt {
		if lit := literalAltMember(members); lit != nil {
			alt, hasLiteralAlt = lit.Alt, true
		}
	}

	out := &vcfio.Record{
		Chrom:  rep.Chrom,
		Pos:    rep.Start,
		ID:     rep.ID,
		Ref:    rep.Ref,
		Alt:    alt,
		Qual:   maxQual(members),
		Filter: unionFilter(members),
	}
	if layout.Total > 0 {
		out.Format = []string{"GT"}
	}

	info := make(map[string]string)
	var keys []string
	for _, k := range rep.RawInfoKeys {
		if _, dup := info[k]; dup {
			continue
		}
		info[k] = rep.RawInfo[k]
		keys = append(keys, k)
	}
	if rep.Kind != svkind.BND && rep.End != rep.Start {
		if _, ok := info["END"]; !ok {
			keys = append(keys, "END")
		}
		info["END"] = strconv.Itoa(rep.End)
	}

	if len(c.Criteria) > 0 {
		labels := make([]string, len(c.Criteria))
		for i, cr := range c.Criteria {
			labels[i] = string(cr)
		}
		keys = append(keys, "SVELT_CRITERIA")
		info["SVELT_CRITERIA"] = strings.Join(labels, ",")
	}

	if altSeqs := literalAltSeqs(members); len(altSeqs) > 0 {
		keys = append(keys, "SVELT_ALT_SEQ")
		info["SVELT_ALT_SEQ"] = strings.Join(altSeqs, ",")
	}

	if cls != nil && (rep.Kind == svkind.INS || rep.Kind == svkind.DUP) && hasLiteralAlt {
		if label, ok := cls.Classify(alt); ok {
			keys = append(keys, "SVELT_ALT_CLASS")
			info["SVELT_ALT_CLASS"] = label
		}
	}

	out.Info = info
	out.InfoKeys = keys

	genotypes, rows := assignGenotypes(outputRowID, members, layout)
	out.Samples = genotypes

	return out, rows
}

// representative picks the coordinate representative: the member with
// lowest (input_id, row_index) (spec.md §4.5.1). Its CHROM/POS/END/REF/ID
// and INFO populate the output row; only its ALT may be overridden by a
// literal-ALT member elsewhere in the component (spec.md §9).
func representative(members []*svrecord.Record) *svrecord.Record {
	rep := members[0]
	for _, m := range members[1:] {
		if lessKey(m, rep) {
			rep = m
		}
	}
	return rep
}

// literalAltMember returns the lowest-(input_id, row_index) member carrying
// a literal ALT sequence, or nil when the whole component is symbolic.
func literalAltMember(members []*svrecord.Record) *svrecord.Record {
	var lit *svrecord.Record
	for _, m := range members {
		if !m.HasLiteralAlt {
			continue
		}
		if lit == nil || lessKey(m, lit) {
			lit = m
		}
	}
	return lit
}

func lessKey(a, b *svrecord.Record) bool {
	if b == nil {
		return true
	}
	if a.InputID != b.InputID {
		return a.InputID < b.InputID
	}
	return a.RowIndex < b.RowIndex
}

func maxQual(members []*svrecord.Record) *float64 {
	var best *float64
	for _, m := range members {
		if m.Qual == nil {
			continue
		}
		if best == nil || *m.Qual > *best {
			v := *m.Qual
			best = &v
		}
	}
	return best
}

func unionFilter(members []*svrecord.Record) []string {
	set := make(map[string]bool)
	for _, m := range members {
		for _, f := range m.Filters {
			set[f] = true
		}
	}
	if len(set) == 0 {
		return []string{"PASS"}
	}
	delete(set, "PASS")
	if len(set) == 0 {
		return []string{"PASS"}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// literalAltSeqs collects the distinct literal ALT sequences (without the
// anchor base) of every member that has a literal ALT; spec.md §4.5's
// SVELT_ALT_SEQ carries these forward.
func literalAltSeqs(members []*svrecord.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range members {
		if !m.HasLiteralAlt || len(m.Alt) == 0 {
			continue
		}
		seq := m.Alt
		if len(seq) > 1 {
			seq = seq[1:] // drop anchor base
		}
		if seq == "" || seen[seq] {
			continue
		}
		seen[seq] = true
		out = append(out, seq)
	}
	return out
}

// assignGenotypes fills the output sample slice (spec.md §4.5 rules 4, 6):
// at most one contributing record per input, lowest row_index wins ties,
// the rest are dropped from genotype assignment and appear only as merge
// table rows with criterion dup-within-input; SVELT_CRITERIA does not
// mention them.
func assignGenotypes(outputRowID int, members []*svrecord.Record, layout Layout) ([]string, []TableRow) {
	out := make([]string, layout.Total)
	for i := range out {
		out[i] = missingGT
	}

	byInput := make(map[int][]*svrecord.Record)
	for _, m := range members {
		byInput[m.InputID] = append(byInput[m.InputID], m)
	}
	inputIDs := make([]int, 0, len(byInput))
	for inputID := range byInput {
		inputIDs = append(inputIDs, inputID)
	}
	sort.Ints(inputIDs)

	var rows []TableRow
	for _, inputID := range inputIDs {
		recs := byInput[inputID]
		sort.Slice(recs, func(i, j int) bool { return recs[i].RowIndex < recs[j].RowIndex })
		winner := recs[0]
		offset := layout.Offsets[inputID]
		count := layout.Counts[inputID]
		for i := 0; i < count && i < len(winner.Genotypes); i++ {
			out[offset+i] = winner.Genotypes[i]
		}
		rows = append(rows, TableRow{OutputRowID: outputRowID, InputID: inputID, InputRowID: winner.RowIndex, Criterion: "representative"})
		for _, dup := range recs[1:] {
			rows = append(rows, TableRow{OutputRowID: outputRowID, InputID: inputID, InputRowID: dup.RowIndex, Criterion: "dup-within-input"})
		}
	}
	return out, rows
}
