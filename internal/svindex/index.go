// Package svindex builds the per-(chrom, kind) position index the matcher
// scans for near-match candidates (spec.md §4.3). Each bucket is an
// llrb.Tree (as in the teacher's encoding/bampair/shard_info.go and
// cmd/bio-bam-sort/sorter/sort.go) ordered by declared position, walked
// in-order to answer the window scans of §4.3.
package svindex

import (
	"github.com/biogo/store/llrb"
	"github.com/drtconway/svelt/internal/svkind"
)

// key identifies one (chrom, kind) bucket. A second set of buckets keyed on
// (chrom2, BND) supports rule 3's mate-side lookups (spec.md §4.3).
type key struct {
	chrom string
	kind  svkind.Kind
}

// posEntry is the llrb.Comparable stored in each bucket: a position paired
// with the record ID registered at it, ordered by (position, id) so ties at
// the same position don't collide in the tree (mirrors the bampair
// shard_info.go key's (refID, start) composite ordering).
type posEntry struct {
	pos int
	id  int
}

// Compare implements llrb.Comparable, following shard_info.go's key.Compare.
func (e posEntry) Compare(c llrb.Comparable) int {
	o := c.(posEntry)
	if d := e.pos - o.pos; d != 0 {
		return d
	}
	return e.id - o.id
}

// bucket is an ordered set of posEntry, append-only until queried (spec.md
// §4.3: "all inputs are loaded before the matcher runs").
type bucket struct {
	tree llrb.Tree
}

func (b *bucket) add(pos, id int) {
	b.tree.Insert(posEntry{pos: pos, id: id})
}

// window returns the IDs of entries whose pos lies in [lo, hi] inclusive,
// walking the tree in ascending order (llrb.Tree.Do) and stopping as soon as
// pos exceeds hi.
func (b *bucket) window(lo, hi int) []int {
	var out []int
	b.tree.Do(func(item llrb.Comparable) bool {
		e := item.(posEntry)
		if e.pos < lo {
			return false
		}
		if e.pos > hi {
			return true
		}
		out = append(out, e.id)
		return false
	})
	return out
}

// Index is the position index over every normalised record in the run,
// partitioned by (chrom, kind) and, for BND mates, by (chrom2, kind=BND).
type Index struct {
	byStart     map[key]*bucket
	byMateStart map[key]*bucket
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		byStart:     make(map[key]*bucket),
		byMateStart: make(map[key]*bucket),
	}
}

// Add registers a record's start position (chrom, kind, start, id).
func (x *Index) Add(chrom string, kind svkind.Kind, start int, id int) {
	k := key{chrom, kind}
	b, ok := x.byStart[k]
	if !ok {
		b = &bucket{}
		x.byStart[k] = b
	}
	b.add(start, id)
}

// AddMate registers a BND record's mate-side end2 under (chrom2, BND) for
// rule-3 lookups (spec.md §4.3's second index).
func (x *Index) AddMate(chrom2 string, end2 int, id int) {
	k := key{chrom2, svkind.BND}
	b, ok := x.byMateStart[k]
	if !ok {
		b = &bucket{}
		x.byMateStart[k] = b
	}
	b.add(end2, id)
}

// Window returns the IDs of all records of kind on chrom whose registered
// start lies in [lo, hi] inclusive.
func (x *Index) Window(chrom string, kind svkind.Kind, lo, hi int) []int {
	b, ok := x.byStart[key{chrom, kind}]
	if !ok {
		return nil
	}
	return b.window(lo, hi)
}

// MateWindow returns the IDs of all BND records whose mate chromosome is
// chrom2 and whose end2 lies in [lo, hi] inclusive.
func (x *Index) MateWindow(chrom2 string, lo, hi int) []int {
	b, ok := x.byMateStart[key{chrom2, svkind.BND}]
	if !ok {
		return nil
	}
	return b.window(lo, hi)
}
