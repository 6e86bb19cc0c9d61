// Package matcher implements the equivalence relation of spec.md §4.2:
// exact, near, and flipped-BND pairwise rules, taken to their transitive
// closure via union-find rather than clique semantics (spec.md §9).
package matcher

import (
	"sort"

	"github.com/drtconway/svelt/internal/bndflip"
	"github.com/drtconway/svelt/internal/fingerprint"
	"github.com/drtconway/svelt/internal/mergeopts"
	"github.com/drtconway/svelt/internal/refseq"
	"github.com/drtconway/svelt/internal/svindex"
	"github.com/drtconway/svelt/internal/svkind"
	"github.com/drtconway/svelt/internal/svrecord"
	"github.com/drtconway/svelt/internal/unionfind"
)

// Criterion names the merge rule responsible for an edge (spec.md GLOSSARY).
type Criterion string

const (
	Exact   Criterion = "exact"
	Near    Criterion = "near"
	Flipped Criterion = "flipped"
)

// criterionRank orders labels for deterministic SVELT_CRITERIA output:
// exact, near, flipped, matching the order they are applied in (spec §4.2,
// §9 "exact-before-near ordering").
var criterionRank = map[Criterion]int{Exact: 0, Near: 1, Flipped: 2}

// Component is one connected set of record IDs together with the union of
// criteria that linked any edge within it.
type Component struct {
	Members  []int
	Criteria []Criterion
}

// Match groups mergeable records (records[i].Kind.Mergeable()) into
// components per spec.md §4.2. Non-mergeable records (OTHER, Unknown) are
// returned as singleton components with no criteria, one per record, so the
// driver can treat "every record belongs to exactly one output component"
// uniformly (spec §8, reflexivity).
func Match(records []*svrecord.Record, opts mergeopts.Opts, ref refseq.Provider) []Component {
	n := len(records)
	uf := unionfind.New(n)
	criteria := make([]map[Criterion]bool, n)
	for i := range criteria {
		criteria[i] = make(map[Criterion]bool)
	}

	mergeable := make([]int, 0, n)
	for i, r := range records {
		if r.Kind.Mergeable() {
			mergeable = append(mergeable, i)
		}
	}

	idx := buildIndex(records, mergeable)

	// An edge between records already in one set adds no label, so a pair
	// linked by an earlier rule (exact before near) keeps that rule's label.
	link := func(a, b int, c Criterion) {
		if !uf.Union(a, b) {
			return
		}
		criteria[a][c] = true
		criteria[b][c] = true
	}

	applyExact(records, mergeable, link)
	applyNear(records, mergeable, idx, opts, link)
	applyFlipped(records, mergeable, idx, opts, ref, link)

	return buildComponents(uf, criteria)
}

func buildIndex(records []*svrecord.Record, mergeable []int) *svindex.Index {
	idx := svindex.New()
	for _, id := range mergeable {
		r := records[id]
		if r.Kind == svkind.BND {
			idx.Add(r.Chrom, svkind.BND, r.Start, id)
			idx.AddMate(r.BND.Chrom2, r.BND.End2, id)
		} else {
			idx.Add(r.Chrom, r.Kind, r.Start, id)
		}
	}
	return idx
}

func applyExact(records []*svrecord.Record, mergeable []int, link func(a, b int, c Criterion)) {
	groups := make(map[fingerprint.Key][]int)
	for _, id := range mergeable {
		r := records[id]
		// Rule 1's non-BND clause requires alt_hash present and equal on
		// both sides (spec.md §4.2); two symbolic ALTs (HasAltHash false on
		// both) are not an exact match even when every other field agrees.
		// They still merge under rule 2 if they're close enough. Route them
		// out of the exact-key grouping entirely so they never collide.
		if r.Kind != svkind.BND && !r.HasAltHash {
			continue
		}
		var k fingerprint.Key
		if r.Kind == svkind.BND {
			k = fingerprint.BNDKey(r.Chrom, r.End, r.BND.Chrom2, r.BND.End2, uint8(r.BND.Orient))
		} else {
			k = fingerprint.NonBNDKey(r.Kind, r.Chrom, r.Start, r.End, r.Length, r.AltHash, r.HasAltHash)
		}
		groups[k] = append(groups[k], id)
	}
	for _, ids := range groups {
		for i := 1; i < len(ids); i++ {
			link(ids[0], ids[i], Exact)
		}
	}
}

func applyNear(records []*svrecord.Record, mergeable []int, idx *svindex.Index, opts mergeopts.Opts, link func(a, b int, c Criterion)) {
	for _, id := range mergeable {
		r := records[id]
		if r.Kind == svkind.BND {
			candidates := idx.Window(r.Chrom, svkind.BND, r.Start-opts.PosWindow, r.Start+opts.PosWindow)
			for _, other := range candidates {
				if other <= id {
					continue
				}
				o := records[other]
				if nearBND(r, o, opts) {
					link(id, other, Near)
				}
			}
			continue
		}
		candidates := idx.Window(r.Chrom, r.Kind, r.Start-opts.PosWindow, r.Start+opts.PosWindow)
		for _, other := range candidates {
			if other <= id {
				continue
			}
			o := records[other]
			if nearNonBND(r, o, opts) {
				link(id, other, Near)
			}
		}
	}
}

func nearNonBND(a, b *svrecord.Record, opts mergeopts.Opts) bool {
	if a.Kind != b.Kind || a.Chrom != b.Chrom {
		return false
	}
	if absInt(a.Start-b.Start) > opts.PosWindow || absInt(a.End-b.End) > opts.PosWindow {
		return false
	}
	minLen, maxLen := a.Length, b.Length
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	if maxLen == 0 {
		return false
	}
	return float64(minLen)/float64(maxLen) > opts.LengthRatio
}

func nearBND(a, b *svrecord.Record, opts mergeopts.Opts) bool {
	if a.Chrom != b.Chrom || a.BND.Chrom2 != b.BND.Chrom2 || a.BND.Orient != b.BND.Orient {
		return false
	}
	if absInt(a.End-b.End) > opts.PosWindow {
		return false
	}
	return absInt(a.BND.End2-b.BND.End2) <= opts.FarWindow
}

func applyFlipped(records []*svrecord.Record, mergeable []int, idx *svindex.Index, opts mergeopts.Opts, ref refseq.Provider, link func(a, b int, c Criterion)) {
	if ref == nil {
		return
	}
	for _, id := range mergeable {
		a := records[id]
		if a.Kind != svkind.BND {
			continue
		}
		// Candidates are BND records whose own mate chromosome is a.Chrom and
		// whose end2 lies near a.End: the (chrom2, end2) index of spec.md
		// §4.3, narrowing on the reciprocal half of the flipped-pair test
		// before the precise checks below.
		candidates := idx.MateWindow(a.Chrom, a.End-opts.FarWindow, a.End+opts.FarWindow)
		for _, other := range candidates {
			if other == id {
				continue
			}
			b := records[other]
			if b.Chrom != a.BND.Chrom2 {
				continue
			}
			if absInt(a.BND.End2-b.Start) > opts.PosWindow {
				continue
			}
			if absInt(a.End-b.BND.End2) > opts.FarWindow {
				continue
			}
			if a.BND.Orient.Swap() != b.BND.Orient {
				continue
			}
			if !bndflip.Matches(ref, a, b, opts.FlipWindow) {
				continue
			}
			link(id, other, Flipped)
		}
	}
}

func buildComponents(uf *unionfind.UnionFind, criteria []map[Criterion]bool) []Component {
	groups := uf.Components()
	out := make([]Component, 0, len(groups))
	for _, members := range groups {
		set := make(map[Criterion]bool)
		for _, m := range members {
			for c := range criteria[m] {
				set[c] = true
			}
		}
		var labels []Criterion
		for c := range set {
			labels = append(labels, c)
		}
		sort.Slice(labels, func(i, j int) bool { return criterionRank[labels[i]] < criterionRank[labels[j]] })
		out = append(out, Component{Members: members, Criteria: labels})
	}
	return out
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
