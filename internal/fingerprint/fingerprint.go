// Package fingerprint computes the strict-identity key used by the matcher's
// rule 1 (spec.md §4.2) and the 64-bit ALT-sequence hash carried on
// svrecord.Record, using blainsmith.com/go/seahash for a stable 64-bit hash
// (grailbio-bio's util package reaches for a similar library-backed
// hash rather than hand-rolled FNV; see DESIGN.md).
package fingerprint

import (
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/drtconway/svelt/internal/svkind"
)

// altSeqRe-free check: matches spec.md §4.1 "[ACGTNacgtn]+" without regexp,
// since the alphabet is tiny and this runs per-record.
func isNucleotideSeq(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			return false
		}
	}
	return true
}

// AltHash returns the 64-bit hash of alt and true when alt is a literal
// nucleotide sequence (spec.md §4.1); otherwise (0, false), signalling a
// symbolic ALT such as "<DEL>".
func AltHash(alt string) (uint64, bool) {
	if !isNucleotideSeq(alt) {
		return 0, false
	}
	upper := strings.ToUpper(alt)
	h := seahash.New()
	_, _ = h.Write([]byte(upper))
	return h.Sum64(), true
}

// Key is the strict-identity key for rule 1 (spec.md §4.2). The matcher
// merges two records with equal Keys when both are BND or both carry an ALT
// hash; non-BND records without one never enter rule-1 grouping. BND and
// non-BND populate disjoint subsets of
// the fields so a zero-value Kind never collides across kinds.
type Key struct {
	Kind   svkind.Kind
	Chrom  string
	Start  int
	End    int
	Length int

	HasAltHash bool
	AltHash    uint64

	// BND-only fields.
	Chrom2 string
	End2   int
	Orient uint8
}

// NonBNDKey builds the rule-1 key for a non-BND record. hasAltHash must be
// false (and altHash ignored) for symbolic ALTs, matching the invariant that
// an exact match requires both sides to carry an ALT hash and for them to be
// equal (spec.md §4.2).
func NonBNDKey(kind svkind.Kind, chrom string, start, end, length int, altHash uint64, hasAltHash bool) Key {
	return Key{
		Kind: kind, Chrom: chrom, Start: start, End: end, Length: length,
		HasAltHash: hasAltHash, AltHash: altHash,
	}
}

// BNDKey builds the rule-1 key for a BND record.
func BNDKey(chrom string, end int, chrom2 string, end2 int, orient uint8) Key {
	return Key{
		Kind: svkind.BND, Chrom: chrom, End: end,
		Chrom2: chrom2, End2: end2, Orient: orient,
	}
}
