// Package unionfind implements a disjoint-set over dense integer IDs, used by
// internal/matcher to compute the transitive closure of the merge relation
// (spec.md §4.2, §9: "transitive grouping vs clique").
package unionfind

// UnionFind is a union-by-rank, path-compressing disjoint-set over the
// integer range [0, n).
type UnionFind struct {
	parent []int
	rank   []uint8
}

// New returns a UnionFind with n singleton sets.
func New(n int) *UnionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &UnionFind{parent: parent, rank: make([]uint8, n)}
}

// Find returns the representative ID of x's set.
func (u *UnionFind) Find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// Union merges the sets containing a and b. It returns true if they were
// previously in different sets.
func (u *UnionFind) Union(a, b int) bool {
	ra, rb := u.Find(a), u.Find(b)
	if ra == rb {
		return false
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		ra, rb = rb, ra
	case u.rank[ra] == u.rank[rb]:
		u.rank[ra]++
	}
	u.parent[rb] = ra
	return true
}

// Components groups every ID [0, n) by its set representative, returning
// each group's members in ascending ID order and the groups themselves in
// ascending order of their smallest member, for deterministic output.
func (u *UnionFind) Components() [][]int {
	byRoot := make(map[int][]int)
	roots := make([]int, 0)
	for i := range u.parent {
		r := u.Find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}
	out := make([][]int, len(roots))
	for i, r := range roots {
		out[i] = byRoot[r]
	}
	return out
}
