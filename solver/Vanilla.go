package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// VanillaConfig describes a configuration of the vanilla gradient
// descent solver.
type VanillaConfig struct {
	StepSize float64 `json:"step_size"`
	Batch    int     `json:"batch"`
	Clip     float64 `json:"clip"` // <= 0 if no clipping
}

// NewVanilla returns a new Vanilla Solver
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Create returns a Gorgonia Vanilla Solver as described by the
// VanillaConfig
func (v VanillaConfig) Create() G.Solver {
	return G.NewVanillaSolver(opts(v.StepSize, v.Batch, v.Clip)...)
}

// Type returns the type of Solver the config describes
func (v VanillaConfig) Type() Type {
	return Vanilla
}

// Validate returns an error if the config is invalid
func (v VanillaConfig) Validate() error {
	if err := validateStepSize(v.StepSize); err != nil {
		return fmt.Errorf("vanilla: %v", err)
	}
	return nil
}
