package timestep

import "fmt"

// Transition is a single recorded step of experience: the state in
// which an action was taken, the action, the reward received, the
// resulting next state, and whether that next state was terminal.
//
// Terminal is 1.0 only when the episode ended because a terminal state
// was reached. Episodes cut off by a Timeout store 0.0 so that the next
// state is still bootstrapped.
type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Terminal  float64
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | S: %v  |  A: %v  |  R: %.2f  |  "+
		"S': %v  |  Terminal: %v", t.State, t.Action, t.Reward,
		t.NextState, t.Terminal)
}

// Batch is a batch of Transitions stored column-wise. States and
// NextStates are row-major matrices with one row per Transition.
type Batch struct {
	States     []float64
	Actions    []int
	Rewards    []float64
	NextStates []float64
	Terminals  []float64
}

// Size returns the number of Transitions in the Batch
func (b Batch) Size() int {
	return len(b.Actions)
}
