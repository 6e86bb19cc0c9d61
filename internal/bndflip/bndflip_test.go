package bndflip_test

import (
	"testing"

	"github.com/drtconway/svelt/internal/bndflip"
	"github.com/drtconway/svelt/internal/svrecord"
	"github.com/stretchr/testify/require"
)

// fakeRef is a minimal in-memory refseq.Provider for tests.
type fakeRef struct {
	seqs map[string]string
}

func (f *fakeRef) Fetch(contig string, start0, end0 int) (string, error) {
	s := f.seqs[contig]
	if start0 < 0 || end0 > len(s) {
		return "", errOutOfRange
	}
	return s[start0:end0], nil
}

var errOutOfRange = &rangeErr{}

type rangeErr struct{}

func (*rangeErr) Error() string { return "out of range" }

func bnd(chrom string, start int, chrom2 string, end2 int, orient svrecord.Orient) *svrecord.Record {
	return &svrecord.Record{
		Chrom: chrom, Start: start, End: start,
		BND: svrecord.BND{Chrom2: chrom2, End2: end2, Orient: orient},
	}
}

func TestMatchesAgreesWhenContextIdentical(t *testing.T) {
	// Both loci carry the same 11-base window; for a ++/-+-style flip
	// (no strand reversal implied here), identical context should match.
	ctx := "ACGTACGTACG"
	ref := &fakeRef{seqs: map[string]string{
		"chr1": padTo(500, ctx),
		"chr2": padTo(800, ctx),
	}}
	a := bnd("chr1", 500, "chr2", 800, svrecord.MinusPlus)
	b := bnd("chr2", 800, "chr1", 500, svrecord.PlusPlus)
	require.True(t, bndflip.Matches(ref, a, b, 5))
}

func TestMatchesFailsOnMismatchedContext(t *testing.T) {
	ref := &fakeRef{seqs: map[string]string{
		"chr1": padTo(500, "ACGTACGTACG"),
		"chr2": padTo(800, "TTTTTTTTTTT"),
	}}
	a := bnd("chr1", 500, "chr2", 800, svrecord.MinusPlus)
	b := bnd("chr2", 800, "chr1", 500, svrecord.PlusPlus)
	require.False(t, bndflip.Matches(ref, a, b, 5))
}

func TestMatchesFalseOnFetchMiss(t *testing.T) {
	ref := &fakeRef{seqs: map[string]string{"chr1": padTo(500, "ACGTACGTACG")}}
	a := bnd("chr1", 500, "chr2", 800, svrecord.MinusPlus)
	b := bnd("chr2", 800, "chr1", 500, svrecord.PlusPlus)
	require.False(t, bndflip.Matches(ref, a, b, 5))
}

// padTo returns a string long enough that a ±window fetch around pos (1-based)
// lands entirely within seq, by left-padding with filler and centering ctx at
// pos-1.
func padTo(pos int, ctx string) string {
	out := make([]byte, 0, pos+len(ctx)+pos)
	for i := 0; i < pos-1-len(ctx)/2; i++ {
		out = append(out, 'N')
	}
	out = append(out, ctx...)
	for len(out) < 2*pos+len(ctx) {
		out = append(out, 'N')
	}
	return string(out)
}
