package planet

import (
	"sort"

	"github.com/talgya/green-sphere/internal/vmath"
)

// quantizeScale sets the position-merging tolerance: components are
// multiplied by it and truncated toward zero.
const quantizeScale = 1000

// PositionKey is a quantized vertex position. Flat-shaded duplicates of the
// same mesh corner share a key.
type PositionKey [3]int64

// Quantize returns the merge key for a position.
func Quantize(p vmath.Vec3) PositionKey {
	return PositionKey{
		int64(p.X * quantizeScale),
		int64(p.Y * quantizeScale),
		int64(p.Z * quantizeScale),
	}
}

// BuildAdjacency computes the vertex graph of a flat-shaded triangle list.
// Positions are read in runs of three; a trailing partial triangle is ignored.
// Each triangle edge connects the two endpoints' position groups all-to-all,
// and every vertex is connected to its duplicates. The result is symmetric,
// has no self-loops, and each list is sorted ascending.
func BuildAdjacency(positions []vmath.Vec3) [][]int {
	n := len(positions)
	groups := make(map[PositionKey][]int)
	keys := make([]PositionKey, n)
	for i, p := range positions {
		k := Quantize(p)
		keys[i] = k
		groups[k] = append(groups[k], i)
	}

	sets := make([]map[int]struct{}, n)
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	link := func(a, b int) {
		if a == b {
			return
		}
		sets[a][b] = struct{}{}
		sets[b][a] = struct{}{}
	}
	linkGroups := func(ga, gb []int) {
		for _, a := range ga {
			for _, b := range gb {
				link(a, b)
			}
		}
	}

	for tri := 0; tri+2 < n; tri += 3 {
		a, b, c := groups[keys[tri]], groups[keys[tri+1]], groups[keys[tri+2]]
		linkGroups(a, b)
		linkGroups(b, c)
		linkGroups(c, a)
	}

	// Siblings: duplicates must be adjacency-equivalent even when a copy
	// belongs to a trailing partial triangle.
	for _, g := range groups {
		linkGroups(g, g)
	}

	adj := make([][]int, n)
	for i, s := range sets {
		list := make([]int, 0, len(s))
		for j := range s {
			list = append(list, j)
		}
		sort.Ints(list)
		adj[i] = list
	}
	return adj
}
