// Package solver implements functionality to wrap Gorgonia Solvers
// so that they can be JSON serialized into configuraiton files.
package solver

import (
	"fmt"
	"reflect"

	"github.com/samuelfneumann/godqn/utils/typedjson"
	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

var registry = map[string]reflect.Type{
	string(Adam):    reflect.TypeOf(AdamConfig{}),
	string(Vanilla): reflect.TypeOf(VanillaConfig{}),
	string(RMSProp): reflect.TypeOf(RMSPropConfig{}),
}

// Solver wraps Gorgonia Solvers so that they can be JSON marshalled and
// unmarshalled.
//
// Gorgonia Solvers are stateful. Each network that is optimized should
// get its own Gorgonia Solver through Create.
type Solver struct {
	G.Solver
	Config
}

// newSolver returns a new solver with the given configuration.
func newSolver(c Config) (*Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newSolver: %v", err)
	}
	return &Solver{Solver: c.Create(), Config: c}, nil
}

// Type returns the type of the Solver
func (s *Solver) Type() Type {
	return s.Config.Type()
}

func (s *Solver) String() string {
	return fmt.Sprintf("{%v Solver: %+v}", s.Type(), s.Config)
}

// MarshalJSON implements the json.Marshaler interface
func (s *Solver) MarshalJSON() ([]byte, error) {
	return typedjson.Marshal(string(s.Type()), s.Config)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	config, _, err := typedjson.Unmarshal[Config](data, registry)
	if err != nil {
		return fmt.Errorf("solver: %v", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("solver: %v", err)
	}

	s.Config = config
	s.Solver = config.Create()
	return nil
}

// Config implements a Gorgonia Solver configuration and can be used to
// create Gorgonia Solvers they describe.
type Config interface {
	// Create returns a new Gorgonia Solver described by the Config
	Create() G.Solver

	// Type returns the type of Solver the Config describes
	Type() Type

	Validate() error
}

// validateStepSize returns an error if a step size is not positive
func validateStepSize(stepSize float64) error {
	if stepSize <= 0 {
		return fmt.Errorf("step size must be positive \n\thave(%v)",
			stepSize)
	}
	return nil
}

// opts returns the Gorgonia SolverOpts common to all Configs
func opts(stepSize float64, batch int, clip float64) []G.SolverOpt {
	if batch < 1 {
		batch = 1
	}

	o := []G.SolverOpt{
		G.WithLearnRate(stepSize),
		G.WithBatchSize(float64(batch)),
	}
	if clip > 0 {
		o = append(o, G.WithClip(clip))
	}
	return o
}
