package sampler

import (
	"testing"

	"metasim/internal/rng"
	"metasim/internal/sparse"
)

func selectAll(nc int) *sparse.CSC {
	ir := make([]int, nc)
	pr := make([]int, nc)
	for i := range ir {
		ir[i] = i
		pr[i] = 1
	}
	m, _ := sparse.New(nc, 1, ir, []int{0, nc}, pr)
	return m
}

func newStream() *rng.Stream {
	return rng.DeriveStreams(rng.NewMaster(1), 1)[0]
}

// Literal scenario 2 from §8: Nc=3, u=[7,3,0], select lists {0,1}, n=10.
func TestDeterministicTwoStateSampler(t *testing.T) {
	e := selectAll(2) // columns 0,1 of a 3-compartment row
	u := []int{7, 3, 0}
	got, err := SampleSelect(u, e, 0, 10, 0, newStream())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{7, 3, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// Literal scenario 6 from §8: EXIT of n=5 from compartments totalling 3 fails.
func TestNegativeStateDetectionViaSampleSelect(t *testing.T) {
	e := selectAll(2)
	u := []int{2, 1, 0}
	if _, err := SampleSelect(u, e, 0, 5, 0, newStream()); err == nil {
		t.Fatal("expected SAMPLE_SELECT error for n > N_ind")
	}
}

func TestZeroSampleReturnsZeroVector(t *testing.T) {
	e := selectAll(3)
	u := []int{5, 5, 5}
	got, err := SampleSelect(u, e, 0, 0, 0, newStream())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range got {
		if v != 0 {
			t.Fatalf("expected all-zero result, got %v", got)
		}
	}
}

func TestSoleNonEmptyCompartmentFastPath(t *testing.T) {
	e := selectAll(3)
	u := []int{0, 4, 0}
	got, err := SampleSelect(u, e, 0, 4, 0, newStream())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1] != 4 || got[0] != 0 || got[2] != 0 {
		t.Fatalf("expected all draws from sole non-empty compartment, got %v", got)
	}
}

func TestProportionDerivesSampleSize(t *testing.T) {
	e := selectAll(2)
	u := []int{10, 10}
	got, err := SampleSelect(u, e, 0, 0, 0.5, newStream())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := got[0] + got[1]
	if sum != 10 { // round(0.5*20) == 10
		t.Fatalf("expected sample size 10, got %d", sum)
	}
}

func TestGeneralPathSumsToN(t *testing.T) {
	ir := []int{0, 1, 2, 3}
	pr := []int{1, 1, 1, 1}
	e, _ := sparse.New(4, 1, ir, []int{0, 4}, pr)
	u := []int{10, 5, 0, 3}
	stream := newStream()
	for trial := 0; trial < 50; trial++ {
		got, err := SampleSelect(u, e, 0, 7, 0, stream)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sum := 0
		for _, v := range got {
			sum += v
		}
		if sum != 7 {
			t.Fatalf("expected sum 7, got %d (vector %v)", sum, got)
		}
		for i, v := range got {
			if v > u[i] {
				t.Fatalf("compartment %d oversampled: %d > %d", i, v, u[i])
			}
		}
	}
}

func TestEmptySelectorColumnFails(t *testing.T) {
	m, _ := sparse.New(3, 1, nil, []int{0, 0}, nil)
	if _, err := SampleSelect([]int{1, 2, 3}, m, 0, 0, 0, newStream()); err == nil {
		t.Fatal("expected SAMPLE_SELECT error for empty selector column")
	}
}
