package aggregate

import "math/rand"

// Reservoir maintains a fixed-size uniform random sample of a stream of
// unknown length (Vitter's Algorithm R). The random source is injected
// so property tests can assert convergence deterministically.
type Reservoir struct {
	slots []float64
	seen  int
	rng   *rand.Rand
}

// NewReservoir creates a reservoir with the given number of slots
func NewReservoir(size int, rng *rand.Rand) *Reservoir {
	return &Reservoir{
		slots: make([]float64, 0, size),
		rng:   rng,
	}
}

// Add offers one value to the reservoir. The first cap(slots) values
// fill the reservoir in order; the k-th value thereafter replaces a
// uniformly random slot with probability size/k.
func (r *Reservoir) Add(v float64) {
	r.seen++
	if len(r.slots) < cap(r.slots) {
		r.slots = append(r.slots, v)
		return
	}
	j := r.rng.Intn(r.seen)
	if j < len(r.slots) {
		r.slots[j] = v
	}
}

// Values returns the sampled values accumulated so far. The caller owns
// the ordering; the reservoir makes no guarantee about it.
func (r *Reservoir) Values() []float64 {
	return r.slots
}

// Seen returns how many values have been offered
func (r *Reservoir) Seen() int {
	return r.seen
}
