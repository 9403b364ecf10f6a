package expreplay

import (
	"golang.org/x/exp/rand"
)

// Selector chooses the indices of a buffer to sample
type Selector interface {
	// choose selects BatchSize() indices in [0, n)
	choose(n int) []int

	// BatchSize returns the number of indices that will be selected
	BatchSize() int
}

// uniformSelector selects indices uniformly randomly with replacement
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects indices
// uniformly randomly with replacement
func NewUniformSelector(samples int, seed uint64) Selector {
	source := rand.NewSource(seed)
	rng := rand.New(source)

	return &uniformSelector{samples: samples, rng: rng}
}

// BatchSize returns the number of indices in a selection
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

func (u *uniformSelector) choose(n int) []int {
	selected := make([]int, u.samples)
	for i := range selected {
		selected[i] = u.rng.Intn(n)
	}
	return selected
}
