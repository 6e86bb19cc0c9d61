// Package svrecord implements the Record Model & Normaliser (spec.md §3,
// §4.1): decoding a raw vcfio.Record into a typed, immutable SV record.
package svrecord

import "github.com/drtconway/svelt/internal/svkind"

// Orient encodes the two strand signs implied by bracket direction in the
// VCF breakend grammar (spec.md §3).
type Orient uint8

const (
	PlusPlus Orient = iota
	PlusMinus
	MinusPlus
	MinusMinus
)

func (o Orient) String() string {
	switch o {
	case PlusPlus:
		return "++"
	case PlusMinus:
		return "+-"
	case MinusPlus:
		return "-+"
	default:
		return "--"
	}
}

// Swap returns the orientation the reciprocal mate record carries for the
// same adjacency, as required by the BND flipper (spec.md §4.4). Per the
// VCF breakend grammar's canonical reciprocal pairs (hts-specs §5.4, Figure
// 2), the two non-reverse-complementing forms (t[p[ / ]p]t) pair with each
// other, while the two reverse-complementing forms (t]p] / [p[t) each pair
// with themselves.
func (o Orient) Swap() Orient {
	switch o {
	case PlusPlus:
		return MinusPlus
	case MinusPlus:
		return PlusPlus
	case PlusMinus:
		return PlusMinus
	default:
		return MinusMinus
	}
}

// BND holds the mate-side fields that only apply to breakend records.
type BND struct {
	Chrom2      string
	End2        int
	Orient      Orient
	MateSeqHash uint64
	HasSeqHash  bool
}

// Record is an immutable, normalised structural-variant record (spec.md §3).
type Record struct {
	InputID  int
	RowIndex int

	Chrom string
	Start int
	End   int
	Length int
	Kind   svkind.Kind

	AltHash    uint64
	HasAltHash bool

	BND BND

	Qual    *float64
	Filters []string

	// Genotypes holds one GT string per sample column of this record's
	// input file, in that input's header sample order.
	Genotypes []string

	// ID/Ref/Alt/RawInfo are carried through unparsed for representative
	// selection (spec.md §4.5): ID/Ref/Alt populate fixed output columns,
	// RawInfo/RawInfoKeys are copied into the output INFO when this record
	// is chosen as the representative.
	ID          string
	Ref         string
	Alt         string
	RawInfo     map[string]string
	RawInfoKeys []string

	// HasLiteralAlt is true when Alt is a literal nucleotide sequence
	// rather than a symbolic allele (e.g. <DEL>); used by the
	// literal-wins representative rule (spec.md §9).
	HasLiteralAlt bool
}

// Key identifies a record for passthrough bookkeeping when normalisation
// demotes it to OTHER (spec.md §4.1: "keyed by input_id:row_index").
type Key struct {
	InputID  int
	RowIndex int
}

// Key returns this record's passthrough identity.
func (r *Record) Key() Key { return Key{r.InputID, r.RowIndex} }
