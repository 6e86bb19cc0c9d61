// Package bndflip implements rule 3's flipped-BND context check (spec.md
// §4.4): given two BND records in the candidate orientation, it fetches
// reference windows around each breakend and decides whether they agree
// under reverse-complement.
package bndflip

import (
	"github.com/drtconway/svelt/biosimd"
	"github.com/drtconway/svelt/internal/refseq"
	"github.com/drtconway/svelt/internal/svrecord"
	"github.com/drtconway/svelt/util"
	"github.com/grailbio/base/log"
)

const identityThreshold = 0.9

// Flip returns the mate-side fields of a BND record's flipped view:
// chrom2=chrom, end2=end, orient=swap(orient) (spec.md §4.4). The flipped
// view's own chrom and end are r.BND.Chrom2 and r.BND.End2 and are not part
// of the returned value; MateSeqHash is left unset.
func Flip(r *svrecord.Record) svrecord.BND {
	return svrecord.BND{
		Chrom2: r.Chrom,
		End2:   r.Start,
		Orient: r.BND.Orient.Swap(),
	}
}

// Matches reports whether BND records a and b satisfy rule 3's reference
// context check: a window of ±F bases around a.End on a.Chrom and around
// b.End on b.Chrom, reverse-complemented on the side implied by orient when
// the breakends are on opposite strands, agree with Hamming identity >= 0.9
// over non-N bases (spec.md §4.4). A reference fetch failure on either side
// is a rule-3 miss (spec §7 error kind 4), not an error to the caller: it
// is logged at debug level and Matches returns false.
func Matches(ref refseq.Provider, a, b *svrecord.Record, window int) bool {
	seqA, errA := fetchWindow(ref, a.Chrom, a.Start, window)
	seqB, errB := fetchWindow(ref, b.Chrom, b.Start, window)
	if errA != nil || errB != nil {
		log.Debug.Printf("rule 3 disabled for %s:%d / %s:%d: reference fetch miss (%v, %v)", a.Chrom, a.Start, b.Chrom, b.Start, errA, errB)
		return false
	}

	// Orientations PlusMinus/MinusMinus (t]p] / [p[t) are the VCF breakend
	// grammar's reverse-complementing forms (hts-specs §5.4, Figure 2);
	// reverse-complement one side before comparing.
	if a.BND.Orient == svrecord.PlusMinus || a.BND.Orient == svrecord.MinusMinus {
		seqB = revcomp(seqB)
	}

	return util.HammingIdentity(seqA, seqB) >= identityThreshold
}

func fetchWindow(ref refseq.Provider, chrom string, pos1 int, window int) (string, error) {
	start0 := pos1 - 1 - window
	if start0 < 0 {
		start0 = 0
	}
	end0 := pos1 - 1 + window + 1
	return ref.Fetch(chrom, start0, end0)
}

func revcomp(s string) string {
	src := []byte(s)
	dst := make([]byte, len(src))
	biosimd.ReverseComp8NoValidate(dst, src)
	return string(dst)
}
