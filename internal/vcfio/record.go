// Package vcfio is the ambient VCF I/O layer the merge core treats as an
// external collaborator (spec.md §1): it tokenises VCF text (optionally
// gzip/bgzip-compressed) into decoded records with typed fields, and writes
// merged records back out. Its decoding style follows mendelics-vcf's
// channel-light, lenient-INFO-parsing approach (see DESIGN.md), adapted to
// keep 1-based coordinates and one record per ALT allele, since
// internal/svrecord expects already-split single-allele records.
package vcfio

import "sort"

// Record is a single decoded VCF data line, restricted to one ALT allele.
// Multi-allelic lines (ALT containing a comma) are split into one Record per
// allele by the Reader, sharing Chrom/Pos/ID/Qual/Filter/Format/Samples.
type Record struct {
	Chrom string
	// Pos is the 1-based VCF POS column.
	Pos    int
	ID     string
	Ref    string
	Alt    string
	Qual   *float64
	Filter []string
	// Info holds raw (un-interpreted) INFO values. A flag key (no '=') maps
	// to the empty string; callers distinguish "absent" from "flag present"
	// by checking InfoKeys or using HasInfo.
	Info map[string]string
	// InfoKeys preserves declaration order, since map iteration order is
	// not stable and the representative's INFO may need to be re-emitted
	// verbatim.
	InfoKeys []string
	Format   []string
	// Samples holds one raw, colon-joined FORMAT value string per sample
	// column, in the header's sample order.
	Samples []string
	// LineNo is the 1-based ordinal of the non-empty data line within its
	// input (header lines are not counted); split alleles of one line share
	// it. The pipeline numbers row_index with its own per-record counter and
	// does not read LineNo.
	LineNo int
}

// HasInfo reports whether key was present on the line (as a flag or with a
// value).
func (r *Record) HasInfo(key string) bool {
	_, ok := r.Info[key]
	return ok
}

// SortedInfoKeys returns InfoKeys, falling back to a sorted walk of Info if
// InfoKeys wasn't populated (e.g. for synthesised records).
func (r *Record) SortedInfoKeys() []string {
	if len(r.InfoKeys) > 0 {
		return r.InfoKeys
	}
	keys := make([]string, 0, len(r.Info))
	for k := range r.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContigDef is a ##contig header declaration.
type ContigDef struct {
	Name      string
	Length    int
	HasLength bool
}

// FilterDef is a ##FILTER header declaration.
type FilterDef struct {
	ID          string
	Description string
}

// InfoDef is a ##INFO header declaration.
type InfoDef struct {
	ID, Number, Type, Description string
}

// FormatDef is a ##FORMAT header declaration.
type FormatDef struct {
	ID, Number, Type, Description string
}

// Header captures the structured subset of a VCF header this repository
// needs: contig order, FILTER/INFO/FORMAT definitions, and sample names.
// Other meta-lines are preserved verbatim in Other so a merged header can
// still mention e.g. ##source or ##reference.
type Header struct {
	Contigs []ContigDef
	Filters []FilterDef
	Infos   []InfoDef
	Formats []FormatDef
	Samples []string
	Other   []string
}
