// Package alignment estimates the 2D mapping between the thermal image
// and the layout image from user-marked correspondence points.
package alignment

import (
	"errors"
	"fmt"
	"math"

	"pcb-thermal/pkg/geometry"
)

// ErrInvalidInput indicates mismatched or empty point lists.
var ErrInvalidInput = errors.New("invalid input")

// MaxMatchPoints is the largest point set MatchPoints accepts. The
// search is exhaustive over all permutations, which is only acceptable
// because the marking UI caps correspondence sets at this size. Raising
// the cap requires swapping in a polynomial assignment algorithm with
// the same contract.
const MaxMatchPoints = 8

// MatchPoints returns the permutation of b that minimizes the total
// Euclidean distance sum(a[i], b[perm[i]]). This removes any requirement
// that the user marks points in the same order on both images. Ties
// resolve to the first permutation enumerated; deliberately symmetric
// point placements are not disambiguated further.
func MatchPoints(a, b []geometry.Point2D) ([]int, error) {
	n := len(a)
	if n == 0 || n != len(b) {
		return nil, fmt.Errorf("%w: point count mismatch: %d vs %d", ErrInvalidInput, n, len(b))
	}
	if n > MaxMatchPoints {
		return nil, fmt.Errorf("%w: %d points exceeds the %d-point matching cap", ErrInvalidInput, n, MaxMatchPoints)
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	best := make([]int, n)
	copy(best, idx)
	bestCost := math.Inf(1)

	var permute func(k int)
	permute = func(k int) {
		if k == n {
			var cost float64
			for i := 0; i < n; i++ {
				cost += a[i].Distance(b[idx[i]])
			}
			if cost < bestCost {
				bestCost = cost
				copy(best, idx)
			}
			return
		}
		for i := k; i < n; i++ {
			idx[k], idx[i] = idx[i], idx[k]
			permute(k + 1)
			idx[k], idx[i] = idx[i], idx[k]
		}
	}
	permute(0)

	return best, nil
}

// MatchCost returns the total pairwise distance for a given pairing.
func MatchCost(a, b []geometry.Point2D, perm []int) float64 {
	var cost float64
	for i := range a {
		cost += a[i].Distance(b[perm[i]])
	}
	return cost
}
