package acrobot

import (
	"fmt"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Discrete implements the classic control Acrobot environment with
// discrete actions. Actions are 1-dimensional and in (0, 1, 2):
//
//	Action	Meaning
//	  0		Apply -1 torque
//	  1		Do nothing
//	  2		Apply +1 torque
//
// Actions other than 0, 1, or 2 result in a panic
type Discrete struct {
	*base
}

// NewDiscrete creates a new Discrete action Acrobot environment with
// the argument task
func NewDiscrete(t env.Task, discount float64) (*Discrete, ts.TimeStep,
	error) {
	acrobot, firstStep, err := newBase(t, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %v", err)
	}

	return &Discrete{acrobot}, firstStep, nil
}

// ActionSpec returns the action specification of the environment
func (d *Discrete) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MaxDiscreteAction)})

	return env.NewSpec(shape, env.Action, lowerBound,
		upperBound, env.Discrete)
}

// Step takes one environmental step given action a and returns the next
// timestep and whether or not the episode has ended.
func (d *Discrete) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		panic("actions should be 1-dimensional")
	}

	intAction := int(a.AtVec(0))
	if intAction > MaxDiscreteAction || intAction < MinDiscreteAction {
		panic(fmt.Sprintf("illegal action %v ∉ (0, 1, 2)", intAction))
	}

	torque := float64(intAction-1) * MaxTorque

	nextStep, last := d.update(a, d.nextState(torque))
	return nextStep, last, nil
}
