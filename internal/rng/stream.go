// Package rng provides the per-partition uniform streams the SSA engine and
// sampler draw from (§4.1). The example corpus has no dedicated
// Mersenne-Twister package; every repo that needs randomness (the teacher's
// internal/simulation.Engine, cmd/mockgen/engine) reaches for math/rand with
// one *rand.Rand per goroutine, seeded independently. metasim follows that
// idiom rather than inventing or vendoring a dependency the corpus never
// shows.
package rng

import "math/rand"

// Stream is one partition's private uniform source. Streams are never
// shared across goroutines; the driver hands each partition its own.
type Stream struct {
	r *rand.Rand
}

// NewMaster creates the top-level RNG a run's seed derives from.
func NewMaster(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// DeriveStreams creates n independent Stream values seeded from master, so
// that a run is reproducible for a fixed (seed, Nthread, Nn) as required by
// §4.1 and §9. Derivation order is the partition index, master-sequential.
func DeriveStreams(master *rand.Rand, n int) []*Stream {
	streams := make([]*Stream, n)
	for i := range streams {
		streams[i] = &Stream{r: rand.New(rand.NewSource(master.Int63()))}
	}
	return streams
}

// Uniform draws a float64 on (0,1), excluding both endpoints so that the
// SSA engine's -log(U) never overflows and division by U never panics.
func (s *Stream) Uniform() float64 {
	for {
		u := s.r.Float64()
		if u > 0 {
			return u
		}
	}
}

// UniformRange draws a float64 uniformly on [0, hi).
func (s *Stream) UniformRange(hi float64) float64 {
	return s.r.Float64() * hi
}

// Intn draws a uniform integer on [0, n).
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// Hypergeometric draws the number of "marked" items obtained when sampling
// draws items without replacement from an urn containing marked good items
// and total-marked bad items (total = marked+bad). It is used by the
// sampler's two-state path (§4.2): first compartment count ~
// Hypergeometric(u[k0], u[k1], n).
//
// Implemented as sequential urn simulation rather than inversion-by-CDF:
// correct for any urn size, and matches the style of the general sampler
// path (§4.2) which draws the same way one individual at a time.
func (s *Stream) Hypergeometric(good, bad, draws int) int {
	if draws <= 0 {
		return 0
	}
	total := good + bad
	if draws >= total {
		return good
	}
	successes := 0
	remainingGood := good
	remainingTotal := total
	for i := 0; i < draws; i++ {
		if remainingTotal <= 0 {
			break
		}
		r := s.UniformRange(float64(remainingTotal))
		if r < float64(remainingGood) {
			successes++
			remainingGood--
		}
		remainingTotal--
	}
	return successes
}
