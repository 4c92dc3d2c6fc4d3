package rng

import "testing"

func TestDeriveStreamsIndependentAndReproducible(t *testing.T) {
	m1 := NewMaster(42)
	s1 := DeriveStreams(m1, 4)

	m2 := NewMaster(42)
	s2 := DeriveStreams(m2, 4)

	for i := range s1 {
		a := s1[i].Uniform()
		b := s2[i].Uniform()
		if a != b {
			t.Fatalf("stream %d diverged: %v != %v", i, a, b)
		}
	}
}

func TestUniformExcludesZero(t *testing.T) {
	s := DeriveStreams(NewMaster(1), 1)[0]
	for i := 0; i < 10000; i++ {
		if u := s.Uniform(); u <= 0 || u >= 1 {
			t.Fatalf("Uniform() out of (0,1): %v", u)
		}
	}
}

func TestHypergeometricBoundaries(t *testing.T) {
	s := DeriveStreams(NewMaster(7), 1)[0]

	if got := s.Hypergeometric(5, 0, 3); got != 3 {
		t.Errorf("all-good urn: expected 3, got %d", got)
	}
	if got := s.Hypergeometric(0, 5, 3); got != 0 {
		t.Errorf("all-bad urn: expected 0, got %d", got)
	}
	if got := s.Hypergeometric(3, 4, 7); got != 3 {
		t.Errorf("draws == total: expected 3, got %d", got)
	}
	if got := s.Hypergeometric(3, 4, 0); got != 0 {
		t.Errorf("zero draws: expected 0, got %d", got)
	}
}

func TestHypergeometricMeanApproximatesExpectation(t *testing.T) {
	s := DeriveStreams(NewMaster(99), 1)[0]
	good, bad, draws := 30, 70, 20
	trials := 20000
	sum := 0
	for i := 0; i < trials; i++ {
		sum += s.Hypergeometric(good, bad, draws)
	}
	mean := float64(sum) / float64(trials)
	want := float64(draws) * float64(good) / float64(good+bad) // = 6.0
	if mean < want-0.3 || mean > want+0.3 {
		t.Errorf("mean %.3f too far from expected %.3f", mean, want)
	}
}
