package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// RMSPropConfig implements a specific configuration of the RMSProp
// solver
type RMSPropConfig struct {
	StepSize float64 `json:"step_size"`
	Epsilon  float64 `json:"epsilon"`
	Rho      float64 `json:"rho"`
	Batch    int     `json:"batch"`
	Clip     float64 `json:"clip"` // <= 0 if no clipping
}

// NewDefaultRMSProp returns a new RMSProp Solver with default
// hyperparameters
func NewDefaultRMSProp(stepSize float64, batchSize int) (*Solver, error) {
	return NewRMSProp(stepSize, 1e-8, 0.999, batchSize, -1.0)
}

// NewRMSProp returns a new RMSProp Solver
func NewRMSProp(stepSize, epsilon, rho float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(RMSPropConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Rho:      rho,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Create returns a new Gorgonia RMSProp Solver as described by the
// RMSPropConfig
func (r RMSPropConfig) Create() G.Solver {
	o := append(opts(r.StepSize, r.Batch, r.Clip),
		G.WithEps(r.Epsilon),
		G.WithRho(r.Rho),
	)
	return G.NewRMSPropSolver(o...)
}

// Type returns the type of Solver the config describes
func (r RMSPropConfig) Type() Type {
	return RMSProp
}

// Validate returns an error if the config is invalid
func (r RMSPropConfig) Validate() error {
	if err := validateStepSize(r.StepSize); err != nil {
		return fmt.Errorf("rmsprop: %v", err)
	}
	if r.Rho <= 0 || r.Rho >= 1 {
		return fmt.Errorf("rmsprop: rho must be in (0, 1) \n\thave(%v)",
			r.Rho)
	}
	return nil
}
