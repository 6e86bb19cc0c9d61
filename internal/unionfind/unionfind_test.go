package unionfind_test

import (
	"testing"

	"github.com/drtconway/svelt/internal/unionfind"
	"github.com/stretchr/testify/require"
)

func TestSingletonsByDefault(t *testing.T) {
	uf := unionfind.New(4)
	comps := uf.Components()
	require.Len(t, comps, 4)
	for i, c := range comps {
		require.Equal(t, []int{i}, c)
	}
}

func TestUnionTransitiveClosure(t *testing.T) {
	// A-B and B-C union to one component even though A-C alone is never
	// linked directly (spec.md §8 boundary scenario 6).
	uf := unionfind.New(5)
	uf.Union(0, 1)
	uf.Union(1, 2)
	uf.Union(3, 4)

	comps := uf.Components()
	require.Len(t, comps, 2)
	require.Equal(t, []int{0, 1, 2}, comps[0])
	require.Equal(t, []int{3, 4}, comps[1])
}

func TestUnionReturnsWhetherMerged(t *testing.T) {
	uf := unionfind.New(2)
	require.True(t, uf.Union(0, 1))
	require.False(t, uf.Union(0, 1), "already in the same set")
}
