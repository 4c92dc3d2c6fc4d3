package propensity

// MassAction returns a Func computing standard mass-action kinetics:
// rate = rateConstant * product(uNode[c] for c in reactants). A reactant
// listed twice contributes uNode[c]*(uNode[c]-1) the way a second-order
// self-reaction should, matching the combinatorial convention used for
// within-compartment contacts (e.g. S->I with two S reactants would not
// occur in a standard SIR model, but the primitive is general).
func MassAction(reactants []int, rateConstant float64) Func {
	// Snapshot to avoid aliasing the caller's slice.
	r := append([]int(nil), reactants...)
	return func(uNode []int, vNode []float64, ldataNode []float64, gdata []float64, t float64) float64 {
		rate := rateConstant
		counts := make(map[int]int, len(r))
		for _, c := range r {
			n := uNode[c] - counts[c]
			if n <= 0 {
				return 0
			}
			rate *= float64(n)
			counts[c]++
		}
		return rate
	}
}

// Constant returns a Func with a fixed rate, useful for scheduled-looking
// background transitions (e.g. a constant birth rate into a node).
func Constant(rate float64) Func {
	return func(uNode []int, vNode []float64, ldataNode []float64, gdata []float64, t float64) float64 {
		return rate
	}
}
