package matcher_test

import (
	"testing"

	"github.com/drtconway/svelt/internal/matcher"
	"github.com/drtconway/svelt/internal/mergeopts"
	"github.com/drtconway/svelt/internal/svrecord"
	"github.com/drtconway/svelt/internal/vcfio"
	"github.com/stretchr/testify/require"
)

func normalize(t *testing.T, rec vcfio.Record, inputID, rowIndex int) *svrecord.Record {
	t.Helper()
	r, err := svrecord.Normalize(rec, inputID, rowIndex)
	require.NoError(t, err)
	return r
}

// fakeRef returns an all-N window for every fetch. N is a wildcard in the
// Hamming-identity check (util.HammingIdentity), so any two all-N windows
// agree regardless of reverse-complementing; this exercises the "reference
// configured" branch of rule 3 without needing to hand-construct a context
// that agrees precisely under revcomp.
type fakeRef struct{}

func (fakeRef) Fetch(contig string, start0, end0 int) (string, error) {
	out := make([]byte, end0-start0)
	for i := range out {
		out[i] = 'N'
	}
	return string(out), nil
}

// Scenario 1 (spec.md §8): Δstart=10, Δend=5, length ratio ≈0.9944 → merge (near).
func TestScenario1NearDelMerges(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "1000"}}, 0, 0)
	b := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 110, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "1005"}}, 1, 0)

	comps := matcher.Match([]*svrecord.Record{a, b}, mergeopts.Default, nil)
	require.Len(t, comps, 1)
	require.ElementsMatch(t, []int{0, 1}, comps[0].Members)
	require.Equal(t, []matcher.Criterion{matcher.Near}, comps[0].Criteria)
}

// Scenario 2 (spec.md §8): same start delta, but length ratio ≈0.476 → no merge.
func TestScenario2LengthGateBlocksMerge(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "1000"}}, 0, 0)
	b := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 110, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "2000"}}, 1, 0)

	comps := matcher.Match([]*svrecord.Record{a, b}, mergeopts.Default, nil)
	require.Len(t, comps, 2)
}

// Scenario 3 (spec.md §8): BND pair, Δend=3, Δend2=150 → merge (near).
func TestScenario3BNDNearMerges(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 500, Ref: "N", Alt: "N]chr2:800]", Info: map[string]string{"SVTYPE": "BND"}}, 0, 0)
	b := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 503, Ref: "N", Alt: "N]chr2:950]", Info: map[string]string{"SVTYPE": "BND"}}, 1, 0)

	comps := matcher.Match([]*svrecord.Record{a, b}, mergeopts.Default, nil)
	require.Len(t, comps, 1)
	require.Equal(t, []matcher.Criterion{matcher.Near}, comps[0].Criteria)
}

// Scenario 4 (spec.md §8): flipped BND pair. No reference → no merge; with a
// reference whose context agrees under reverse-complement → merge (flipped).
func TestScenario4FlippedBNDRequiresReference(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 500, Ref: "N", Alt: "N]chr2:800]", Info: map[string]string{"SVTYPE": "BND"}}, 0, 0)
	b := normalize(t, vcfio.Record{Chrom: "chr2", Pos: 802, Ref: "N", Alt: "N]chr1:502]", Info: map[string]string{"SVTYPE": "BND"}}, 1, 0)

	withoutRef := matcher.Match([]*svrecord.Record{a, b}, mergeopts.Default, nil)
	require.Len(t, withoutRef, 2, "rule 3 must be disabled without a reference provider")

	withRef := matcher.Match([]*svrecord.Record{a, b}, mergeopts.Default, fakeRef{})
	require.Len(t, withRef, 1)
	require.Equal(t, []matcher.Criterion{matcher.Flipped}, withRef[0].Criteria)
}

// Scenario 5 (spec.md §8): literal-ALT insertions with equal alt_hash but
// different start merge under rule 2 (length ratio 1.0, Δstart=1).
func TestScenario5LiteralInsertionNearMerge(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr3", Pos: 1000, Ref: "A", Alt: "AGGGGTTT", Info: map[string]string{"SVTYPE": "INS"}}, 0, 0)
	b := normalize(t, vcfio.Record{Chrom: "chr3", Pos: 1001, Ref: "A", Alt: "AGGGGTTT", Info: map[string]string{"SVTYPE": "INS"}}, 1, 0)

	comps := matcher.Match([]*svrecord.Record{a, b}, mergeopts.Default, nil)
	require.Len(t, comps, 1)
}

// Scenario 6 (spec.md §8): a chain A-B (near) and B-C (near), where A-C alone
// would fail the window, all merge into one component via transitivity.
func TestScenario6TransitiveChain(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "1000"}}, 0, 0)
	b := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 120, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "1020"}}, 1, 0)
	c := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 140, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "1040"}}, 2, 0)

	// A-C directly: |Δstart|=40 > PosWindow(25), so a direct edge never forms.
	require.Greater(t, 140-100, mergeopts.Default.PosWindow)

	comps := matcher.Match([]*svrecord.Record{a, b, c}, mergeopts.Default, nil)
	require.Len(t, comps, 1)
	require.ElementsMatch(t, []int{0, 1, 2}, comps[0].Members)
	require.Equal(t, []matcher.Criterion{matcher.Near}, comps[0].Criteria)
}

func TestExactRuleWinsOverNearForCriteriaLabel(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "AGGGGTTT", Info: map[string]string{"SVTYPE": "INS"}}, 0, 0)
	b := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "AGGGGTTT", Info: map[string]string{"SVTYPE": "INS"}}, 1, 0)

	comps := matcher.Match([]*svrecord.Record{a, b}, mergeopts.Default, nil)
	require.Len(t, comps, 1)
	require.Equal(t, []matcher.Criterion{matcher.Exact}, comps[0].Criteria)
}

// Two symbolic-ALT records with no alt_hash on either side do not satisfy
// rule 1's "both sides present and equal" clause (spec.md §4.2), even when
// every other field matches exactly; they still merge, but only under rule
// 2 (near), so SVELT_CRITERIA must read "near", not "exact".
func TestSymbolicAltsWithoutHashMergeAsNearNotExact(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "1000"}}, 0, 0)
	b := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "<DEL>", Info: map[string]string{"SVTYPE": "DEL", "END": "1000"}}, 1, 0)

	comps := matcher.Match([]*svrecord.Record{a, b}, mergeopts.Default, nil)
	require.Len(t, comps, 1)
	require.Equal(t, []matcher.Criterion{matcher.Near}, comps[0].Criteria)
}

func TestNonMergeableRecordsArePassthroughSingletons(t *testing.T) {
	a := normalize(t, vcfio.Record{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "<TRA>", Info: map[string]string{"SVTYPE": "TRA"}}, 0, 0)
	comps := matcher.Match([]*svrecord.Record{a}, mergeopts.Default, nil)
	require.Len(t, comps, 1)
	require.Equal(t, []int{0}, comps[0].Members)
	require.Empty(t, comps[0].Criteria)
}
