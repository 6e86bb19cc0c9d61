// Package svkind defines the structural-variant type taxonomy shared by the
// normaliser, indexer, matcher, and row synthesiser.
package svkind

import "strings"

// Kind is the canonical structural-variant type, derived from the SVTYPE
// INFO field; a BND whose ALT does not parse under the bracket grammar is
// demoted to OTHER, and a bracket ALT without SVTYPE is not read as BND.
type Kind uint8

const (
	// Unknown is the zero value and the sentinel before classification.
	// Parse also returns it for an empty SVTYPE, which svrecord.Normalize
	// keeps, so a record with "SVTYPE=" normalises to Unknown.
	Unknown Kind = iota
	DEL
	DUP
	INS
	INV
	CNV
	BND
	// OTHER covers SVTYPEs outside the recognised set, and any record that
	// failed to normalise cleanly (unparsable BND ALT, inconsistent
	// END/SVLEN, etc.) per the spec's "demote and pass through" rule.
	OTHER
)

func (k Kind) String() string {
	switch k {
	case DEL:
		return "DEL"
	case DUP:
		return "DUP"
	case INS:
		return "INS"
	case INV:
		return "INV"
	case CNV:
		return "CNV"
	case BND:
		return "BND"
	case OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Parse maps an SVTYPE INFO value to a Kind. Unrecognised values become
// OTHER rather than an error, since an unsupported SVTYPE is non-fatal
// (spec §7, error kind 2).
func Parse(svtype string) Kind {
	switch strings.ToUpper(strings.TrimSpace(svtype)) {
	case "DEL":
		return DEL
	case "DUP":
		return DUP
	case "INS":
		return INS
	case "INV":
		return INV
	case "CNV":
		return CNV
	case "BND":
		return BND
	case "":
		return Unknown
	default:
		return OTHER
	}
}

// Mergeable reports whether records of this kind ever participate in the
// matching relation. OTHER and Unknown records are always passed through
// unmerged, one output row per input row.
func (k Kind) Mergeable() bool {
	switch k {
	case DEL, DUP, INS, INV, CNV, BND:
		return true
	default:
		return false
	}
}
