// Package environment outlines the interfaces and structs needed to
// implement concrete environments that a DQN agent can interact with.
package environment

import (
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode ends. If End returns true, it must
// also have set the StepType of the argument TimeStep to timestep.Last
// and recorded the reason for ending with TimeStep.SetEnd.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Task implements the reward scheme and episode cutoffs of some
// environment.
type Task interface {
	Starter
	Ender
	GetReward(state, action, nextState mat.Vector) float64
	AtGoal(state mat.Matrix) bool
}

// Environment implements a simulated environment.
//
// Step returns the next TimeStep and whether the episode has ended.
// When the episode has ended, the returned TimeStep has StepType
// timestep.Last and an EndType describing whether a terminal state was
// reached or the episode was cut off.
type Environment interface {
	Reset() (ts.TimeStep, error)
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)
	ObservationSpec() Spec
	ActionSpec() Spec
	DiscountSpec() Spec
}

// Closer is an Environment that holds resources that must be released
// after the Environment is no longer needed.
type Closer interface {
	Environment
	Close() error
}
