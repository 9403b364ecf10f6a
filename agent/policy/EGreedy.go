package policy

import (
	"github.com/samuelfneumann/godqn/utils/floatutils"
	"golang.org/x/exp/rand"
)

// EGreedy implements an ε-greedy policy over action values. ε is given
// on each call to SelectAction, so that the policy itself holds only
// its random number generator.
type EGreedy struct {
	rng *rand.Rand
}

// NewEGreedy returns a new EGreedy policy
func NewEGreedy(seed uint64) *EGreedy {
	return &EGreedy{rand.New(rand.NewSource(seed))}
}

// SelectAction selects an action given the values of each action. With
// probability epsilon, an action is chosen uniformly randomly.
// Otherwise, the first action of maximal value is chosen.
func (e *EGreedy) SelectAction(values []float64, epsilon float64) int {
	if e.Explore(epsilon) {
		return e.RandomAction(len(values))
	}
	return Greedy{}.SelectAction(values)
}

// Explore returns true with probability epsilon. Callers which only
// compute action values when needed use Explore and RandomAction in
// place of SelectAction.
func (e *EGreedy) Explore(epsilon float64) bool {
	return e.rng.Float64() < epsilon
}

// RandomAction returns an action chosen uniformly randomly from
// actions actions
func (e *EGreedy) RandomAction(actions int) int {
	return e.rng.Intn(actions)
}

// Greedy implements a greedy policy over action values
type Greedy struct{}

// SelectAction returns the first action of maximal value
func (Greedy) SelectAction(values []float64) int {
	return floatutils.Argmax(values)
}
