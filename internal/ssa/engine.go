// Package ssa implements the per-node direct-method Gillespie stepping
// engine (C6, §4.6): draw an exponential waiting time from the node's total
// rate, pick a transition proportional to its share of that rate, apply the
// state change, and refresh the rates the dependency graph says may have
// changed. The rate-cache-plus-dependency-graph shape mirrors the teacher's
// own incremental-aggregate pattern in internal/stats (running sums kept in
// sync with individual updates rather than recomputed from scratch), here
// applied to propensities instead of percentile statistics.
package ssa

import (
	"math"

	"metasim/internal/errset"
	"metasim/internal/propensity"
	"metasim/internal/rng"
	"metasim/internal/sparse"
)

// RateCache holds the per-node propensities and clocks of all Nn nodes,
// laid out flat as t_rate[Nn*Nt] (§3). The driver allocates one cache and
// shares it across partitions; each partition writes only its own nodes'
// entries.
type RateCache struct {
	Nt        int
	TRate     []float64
	SumTRate  []float64
	TTime     []float64
}

// NewRateCache allocates a cache for nn nodes and nt transitions.
func NewRateCache(nn, nt int) *RateCache {
	return &RateCache{
		Nt:       nt,
		TRate:    make([]float64, nn*nt),
		SumTRate: make([]float64, nn),
		TTime:    make([]float64, nn),
	}
}

// Seed computes every transition's initial rate for node from scratch,
// called once before the day loop begins (§4.8).
func (rc *RateCache) Seed(node int, funcs []propensity.Func, uNode []int, vNode, ldataNode, gdata []float64, t float64) error {
	return rc.recompute(node, funcs, uNode, vNode, ldataNode, gdata, t)
}

func (rc *RateCache) recompute(node int, funcs []propensity.Func, uNode []int, vNode, ldataNode, gdata []float64, t float64) error {
	base := node * rc.Nt
	sum := 0.0
	for j := 0; j < rc.Nt; j++ {
		rate := funcs[j](uNode, vNode, ldataNode, gdata, t)
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
			return errset.New(errset.INVALID_RATE, "propensity returned a non-finite or negative rate")
		}
		rc.TRate[base+j] = rate
		sum += rate
	}
	rc.SumTRate[node] = sum
	return nil
}

// Engine steps nodes through one day of direct-method SSA. The driver
// shares one Engine across partitions, each calling Step for its own nodes.
type Engine struct {
	Nn      int
	Nc      int
	Nt      int
	Funcs   []propensity.Func
	S       *sparse.CSC
	G       *sparse.CSC
	RC      *RateCache
	U       []int     // full Nn*Nc state
	V       []float64 // full Nn*Nd continuous state, read-only during SSA
	LData   []float64 // full Nn*Nld
	GData   []float64 // global parameters
	Nld     int
	Nd      int
}

// SeedAll computes every node's initial rates from scratch, run once before
// the day loop begins (§4.8).
func (e *Engine) SeedAll(t float64) error {
	for node := 0; node < e.Nn; node++ {
		if err := e.RC.Seed(node, e.Funcs, e.U[node*e.Nc:node*e.Nc+e.Nc], e.sliceV(node), e.sliceLData(node), e.GData, t); err != nil {
			return err
		}
	}
	return nil
}

// Step advances node to nextDay, per §4.6's numbered procedure. It returns
// the number of transitions actually fired, for metrics.AddSSASteps.
func (e *Engine) Step(node int, nextDay float64, stream *rng.Stream) (int, error) {
	uNode := e.U[node*e.Nc : node*e.Nc+e.Nc]
	vNode := e.sliceV(node)
	ldataNode := e.sliceLData(node)

	fired := 0
	for {
		sum := e.RC.SumTRate[node]
		if sum <= 0 {
			e.RC.TTime[node] = nextDay
			return fired, nil
		}

		tau := -math.Log(stream.Uniform()) / sum
		if e.RC.TTime[node]+tau >= nextDay {
			e.RC.TTime[node] = nextDay
			return fired, nil
		}
		e.RC.TTime[node] += tau

		tr, ok := e.chooseTransition(node, sum, stream)
		if !ok {
			// No non-zero rate found despite sum > 0: floating-point drift
			// made sum_t_rate lie. Treat as a nil event (§4.6 step 6).
			e.RC.SumTRate[node] = 0
			continue
		}

		if err := e.applyStateChange(node, uNode, tr); err != nil {
			return fired, err
		}
		if err := e.refreshDependents(node, tr, uNode, vNode, ldataNode, e.RC.TTime[node]); err != nil {
			return fired, err
		}
		fired++
	}
}

// chooseTransition draws r ~ Uniform(0, sum) and finds the smallest tr whose
// prefix sum of rates exceeds r, clamping and backward-walking per §4.6
// step 6's numerical-safety rules.
func (e *Engine) chooseTransition(node int, sum float64, stream *rng.Stream) (int, bool) {
	base := node * e.RC.Nt
	r := stream.UniformRange(sum)

	cum := 0.0
	tr := e.RC.Nt - 1
	for j := 0; j < e.RC.Nt; j++ {
		cum += e.RC.TRate[base+j]
		if cum > r {
			tr = j
			break
		}
	}
	if tr >= e.RC.Nt {
		tr = e.RC.Nt - 1
	}

	for tr >= 0 && e.RC.TRate[base+tr] == 0 {
		tr--
	}
	if tr < 0 {
		return 0, false
	}
	return tr, true
}

func (e *Engine) applyStateChange(node int, uNode []int, tr int) error {
	if e.S == nil {
		return nil
	}
	rows, values := e.S.Column(tr)
	for i, c := range rows {
		uNode[c] += values[i]
		if uNode[c] < 0 {
			return errset.New(errset.NEGATIVE_STATE, "SSA transition drove a compartment negative")
		}
	}
	return nil
}

func (e *Engine) refreshDependents(node, tr int, uNode []int, vNode, ldataNode []float64, t float64) error {
	if e.G == nil {
		return nil
	}
	base := node * e.RC.Nt
	rows, _ := e.G.Column(tr)
	for _, j := range rows {
		newRate := e.Funcs[j](uNode, vNode, ldataNode, e.GData, t)
		if math.IsNaN(newRate) || math.IsInf(newRate, 0) || newRate < 0 {
			return errset.New(errset.INVALID_RATE, "refreshed propensity is non-finite or negative")
		}
		delta := newRate - e.RC.TRate[base+j]
		e.RC.TRate[base+j] = newRate
		e.RC.SumTRate[node] += delta
	}
	return nil
}

// Reseed recomputes every transition's rate for node from scratch. Called
// from the post-step phase when the post-step hook forces a refresh or
// update_node[node] was set during E1/E2 (§4.7 step 6).
func (e *Engine) Reseed(node int, t float64) error {
	uNode := e.U[node*e.Nc : node*e.Nc+e.Nc]
	return e.RC.recompute(node, e.Funcs, uNode, e.sliceV(node), e.sliceLData(node), e.GData, t)
}

func (e *Engine) sliceV(node int) []float64 {
	if e.Nd == 0 {
		return nil
	}
	return e.V[node*e.Nd : node*e.Nd+e.Nd]
}

func (e *Engine) sliceLData(node int) []float64 {
	if e.Nld == 0 {
		return nil
	}
	return e.LData[node*e.Nld : node*e.Nld+e.Nld]
}
