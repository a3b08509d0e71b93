package sqlite

import (
	"slices"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// diffList computes the change from old to cur, matching elements by key.
// Elements present in both lists keep their identity when they stay in the
// same relative order (the longest increasing run of old positions); any
// other common element is reported as moved, that is deleted at its old
// index and inserted at its new one. Common elements that stayed but
// compare unequal are modifications at their new index.
func diffList[T any](old, cur []T, key func(T) string, equal func(a, b T) bool) types.ListChange[T] {
	change := types.ListChange[T]{List: cur}

	oldIdx := make(map[string]int, len(old))
	for i, v := range old {
		oldIdx[key(v)] = i
	}
	curKeys := make(map[string]bool, len(cur))
	for _, v := range cur {
		curKeys[key(v)] = true
	}

	for i, v := range old {
		if !curKeys[key(v)] {
			change.Deletions = append(change.Deletions, i)
		}
	}

	var oldPos, newPos []int
	for j, v := range cur {
		if i, ok := oldIdx[key(v)]; ok {
			oldPos = append(oldPos, i)
			newPos = append(newPos, j)
		} else {
			change.Insertions = append(change.Insertions, j)
		}
	}

	keep := longestIncreasing(oldPos)
	for k := range oldPos {
		i, j := oldPos[k], newPos[k]
		switch {
		case !keep[k]:
			change.Deletions = append(change.Deletions, i)
			change.Insertions = append(change.Insertions, j)
		case !equal(old[i], cur[j]):
			change.Modifications = append(change.Modifications, j)
		}
	}

	slices.Sort(change.Deletions)
	slices.Sort(change.Insertions)
	return change
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq.
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}

	// tails[l] is the index in seq of the smallest tail of a run of length l+1.
	var tails []int
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		prev[i] = -1
		if lo > 0 {
			prev[i] = tails[lo-1]
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}
