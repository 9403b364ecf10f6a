package dqn

import (
	"github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// QNetwork approximates action values for discrete actions.
//
// States are passed as row-major matrices with one state per row, and
// action values are returned as row-major matrices with one row of
// action values per state.
type QNetwork interface {
	// Predict computes the action values of states. No gradients are
	// computed.
	Predict(states []float64) ([]float64, error)

	// Optimize performs a single optimizer step on the mean squared
	// error between the values of the actions taken in states and the
	// targets, returning the loss.
	Optimize(states []float64, actions []int, targets []float64) (float64,
		error)

	// Weights returns a deep copy of the parameters
	Weights() map[string]*mat.Dense

	// SetWeights copies the values of weights into the parameters
	SetWeights(weights map[string]*mat.Dense) error
}

// Buffer stores transitions and samples batches of them
type Buffer interface {
	Add(t ts.Transition) error
	Sample() (ts.Batch, error)
	Len() int
	MinCapacity() int
}

// EnvFactory creates a new environment
type EnvFactory func() (environment.Environment, error)

// NetworkFactory creates a new QNetwork for states with features
// features and actions discrete actions
type NetworkFactory func(features, actions int) (QNetwork, error)

// BufferFactory creates a new Buffer for states with features features
// and actions discrete actions
type BufferFactory func(features, actions int) (Buffer, error)
