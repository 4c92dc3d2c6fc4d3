// Package sampler implements sample_select (C1, §4.2): drawing a multiset
// of individuals from a node's compartments under a selector column of the
// event-select matrix E. The fast-path/two-state/general-path structure
// below follows §4.2 literally; the general path's "decrement a scratch
// row one draw at a time" loop is the same sequential-categorical-draw
// shape as the teacher's stratified Monte-Carlo trial loops in
// internal/simulation/engine.go (sample one item, mutate running state,
// repeat n times).
package sampler

import (
	"math"

	"metasim/internal/errset"
	"metasim/internal/rng"
	"metasim/internal/sparse"
)

// SampleSelect draws n individuals (or round(proportion*Nind) when n==0)
// from the compartments listed in column `selectCol` of E, against the
// current compartment counts of one node (uNode, length Nc). It returns a
// length-Nc vector; non-listed compartments are always zero.
func SampleSelect(uNode []int, e *sparse.CSC, selectCol int, n int, proportion float64, stream *rng.Stream) ([]int, error) {
	nc := len(uNode)
	result := make([]int, nc)

	if e == nil || e.Empty() || selectCol < 0 || selectCol >= e.Cols {
		return nil, errset.New(errset.SAMPLE_SELECT, "empty or out-of-range selector column")
	}
	k, _ := e.Column(selectCol)
	if len(k) <= 0 {
		return nil, errset.New(errset.SAMPLE_SELECT, "selector column lists no compartments")
	}

	nInd := 0
	nKinds := 0
	var soleNonEmpty int = -1
	for _, c := range k {
		nInd += uNode[c]
		if uNode[c] > 0 {
			nKinds++
			soleNonEmpty = c
		}
	}

	if n == 0 && proportion > 0 {
		n = int(math.Round(proportion * float64(nInd)))
	}

	if n < 0 || n > nInd {
		return nil, errset.New(errset.SAMPLE_SELECT, "requested sample size out of range")
	}

	switch {
	case n == 0:
		return result, nil
	case n == nInd:
		for _, c := range k {
			result[c] = uNode[c]
		}
		return result, nil
	case len(k) == 1:
		result[k[0]] = n
		return result, nil
	case nKinds == 1:
		result[soleNonEmpty] = n
		return result, nil
	case len(k) == 2:
		k0, k1 := k[0], k[1]
		first := stream.Hypergeometric(uNode[k0], uNode[k1], n)
		result[k0] = first
		result[k1] = n - first
		return result, nil
	default:
		scratch := make([]int, nc)
		copy(scratch, uNode)
		remaining := nInd
		for i := 0; i < n; i++ {
			r := stream.UniformRange(float64(remaining))
			cum := 0
			chosen := k[len(k)-1]
			for _, c := range k {
				cum += scratch[c]
				if float64(cum) > r {
					chosen = c
					break
				}
			}
			scratch[chosen]--
			result[chosen]++
			remaining--
		}
		return result, nil
	}
}
