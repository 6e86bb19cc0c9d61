package svrecord

import "github.com/drtconway/svelt/internal/svkind"

// DemoteUnknownMateContig enforces the open-question decision (DESIGN.md):
// a BND record whose mate chromosome never appears in any input header is
// demoted to OTHER rather than guessing at its length/order, matching
// spec.md §9's note that this case is deliberately left unresolved upstream.
func DemoteUnknownMateContig(r *Record, knownContigs map[string]struct{}) {
	if r.Kind != svkind.BND {
		return
	}
	if _, ok := knownContigs[r.BND.Chrom2]; ok {
		return
	}
	r.Kind = svkind.OTHER
	r.BND = BND{}
}
