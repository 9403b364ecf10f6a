package dqn

import ts "github.com/samuelfneumann/godqn/timestep"

// Outcome is the result of a single environment step as seen by the
// Agent
type Outcome struct {
	NextState  []float64
	Reward     float64
	Terminated bool
	Truncated  bool
}

// newOutcome converts the TimeStep and done flag returned by an
// environment into an Outcome. An episode which ends with a Timeout is
// truncated. An episode which ends for any other reason is terminated.
func newOutcome(step ts.TimeStep, done bool) Outcome {
	done = done || step.Last()
	truncated := done && step.EndType() == ts.Timeout

	return Outcome{
		NextState:  append([]float64{}, step.Observation.RawVector().Data...),
		Reward:     step.Reward,
		Terminated: done && !truncated,
		Truncated:  truncated,
	}
}

// Done returns whether the episode ended
func (o Outcome) Done() bool {
	return o.Terminated || o.Truncated
}

// Terminal returns the terminal flag stored in a Transition: 1.0 if a
// terminal state was reached and 0.0 otherwise. Terminated takes
// precedence over Truncated.
func (o Outcome) Terminal() float64 {
	if o.Terminated {
		return 1.0
	}
	return 0.0
}
