package qnet

import (
	"fmt"

	"github.com/samuelfneumann/godqn/initwfn"
	"github.com/samuelfneumann/godqn/network"
	"github.com/samuelfneumann/godqn/solver"
)

// Config implements a configuration of a QNet
type Config struct {
	Layers      []int                 `json:"layers"`      // Hidden layer sizes
	Biases      []bool                `json:"biases"`      // Whether each hidden layer has a bias
	Activations []*network.Activation `json:"activations"` // Activation of each hidden layer
	Solver      *solver.Solver        `json:"solver"`
	InitWFn     *initwfn.InitWFn      `json:"init_wfn"`

	// BatchSize is the number of transitions in each batch passed to
	// Optimize, which must match the replay buffer's batch size
	BatchSize int `json:"batch_size"`
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if len(c.Layers) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases \n\twant(%v) "+
			"\n\thave(%v)", len(c.Layers), len(c.Biases))
	}
	if len(c.Layers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations "+
			"\n\twant(%v) \n\thave(%v)", len(c.Layers), len(c.Activations))
	}
	for i, act := range c.Activations {
		if act == nil {
			return fmt.Errorf("validate: activation %v is nil", i)
		}
	}
	if c.Solver == nil {
		return fmt.Errorf("validate: no solver")
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initializer")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: batch size must be positive "+
			"\n\thave(%v)", c.BatchSize)
	}
	return nil
}
