package ssa

import (
	"math"
	"testing"

	"metasim/internal/propensity"
	"metasim/internal/rng"
	"metasim/internal/sparse"
)

// §8 scenario 1: an SSA engine with no transitions never advances state,
// only the local clock.
func TestEmptySSALeavesStateUnchanged(t *testing.T) {
	u := []int{10, 0}
	rc := NewRateCache(1, 0)
	e := &Engine{Nc: 2, Nt: 0, RC: rc, U: u}
	stream := rng.DeriveStreams(rng.NewMaster(1), 1)[0]

	if _, err := e.Step(0, 5, stream); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[0] != 10 || u[1] != 0 {
		t.Fatalf("expected unchanged state, got %v", u)
	}
	if rc.TTime[0] != 5 {
		t.Fatalf("expected clock advanced to next day boundary, got %v", rc.TTime[0])
	}
}

// §8 scenario 3: single S->I transition, propensity 0.1*u[S], averaged over
// many seeds should show exponential decay of susceptibles consistent with
// mean u[I] at t=50 lying in [99.0, 100.0).
func TestSingleTransitionMeanMatchesExponentialDecay(t *testing.T) {
	ir := []int{0, 1}
	pr := []int{-1, 1}
	s, err := sparse.New(2, 1, ir, []int{0, 2}, pr)
	if err != nil {
		t.Fatalf("unexpected error building S: %v", err)
	}
	g, err := sparse.New(1, 1, []int{0}, []int{0, 1}, []int{0})
	if err != nil {
		t.Fatalf("unexpected error building G: %v", err)
	}

	funcs := []propensity.Func{
		propensity.MassAction([]int{0}, 0.1),
	}

	const trials = 2000
	sumInfected := 0.0
	for seed := int64(0); seed < trials; seed++ {
		u := []int{100, 0}
		rc := NewRateCache(1, 1)
		e := &Engine{Nc: 2, Nt: 1, Funcs: funcs, S: s, G: g, RC: rc, U: u}
		if err := rc.Seed(0, funcs, u, nil, nil, nil, 0); err != nil {
			t.Fatalf("seed error: %v", err)
		}
		stream := rng.DeriveStreams(rng.NewMaster(seed), 1)[0]
		if _, err := e.Step(0, 50, stream); err != nil {
			t.Fatalf("step error: %v", err)
		}
		sumInfected += float64(u[1])
	}

	mean := sumInfected / float64(trials)
	if mean < 99.0 || mean >= 100.0 {
		t.Fatalf("expected mean infected count in [99,100), got %v", mean)
	}
}

func TestStepFailsOnNegativeStateUnderflow(t *testing.T) {
	ir := []int{0}
	pr := []int{-5}
	s, _ := sparse.New(1, 1, ir, []int{0, 1}, pr)
	g, _ := sparse.New(1, 1, []int{0}, []int{0, 1}, []int{0})

	funcs := []propensity.Func{propensity.Constant(1000)}
	u := []int{2}
	rc := NewRateCache(1, 1)
	e := &Engine{Nc: 1, Nt: 1, Funcs: funcs, S: s, G: g, RC: rc, U: u}
	if err := rc.Seed(0, funcs, u, nil, nil, nil, 0); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	stream := rng.DeriveStreams(rng.NewMaster(1), 1)[0]
	if _, err := e.Step(0, 10, stream); err == nil {
		t.Fatal("expected NEGATIVE_STATE-flavored error from an underflowing transition")
	}
}

func TestReseedRecomputesRatesFromScratch(t *testing.T) {
	funcs := []propensity.Func{propensity.MassAction([]int{0}, 0.2)}
	u := []int{10, 0}
	rc := NewRateCache(1, 1)
	e := &Engine{Nc: 2, Nt: 1, Funcs: funcs, RC: rc, U: u}
	if err := rc.Seed(0, funcs, u, nil, nil, nil, 0); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	if rc.TRate[0] != 2.0 {
		t.Fatalf("expected initial rate 2.0, got %v", rc.TRate[0])
	}
	u[0] = 3
	if err := e.Reseed(0, 0); err != nil {
		t.Fatalf("reseed error: %v", err)
	}
	if math.Abs(rc.TRate[0]-0.6) > 1e-12 {
		t.Fatalf("expected refreshed rate 0.6, got %v", rc.TRate[0])
	}
}
