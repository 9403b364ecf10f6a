package cartpole

import (
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// newCartpole returns a Cartpole which always starts with the pole at
// the given angle and every other state feature at 0
func newCartpole(t *testing.T, angle float64, steps int) *Discrete {
	zero := r1.Interval{Min: 0, Max: 0}
	start := env.NewUniformStarter([]r1.Interval{zero, zero,
		{Min: angle, Max: angle}, zero}, 1)

	task, err := NewBalance(start, steps, FailAngle)
	if err != nil {
		t.Fatal(err)
	}

	c, step, err := NewDiscrete(task, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() {
		t.Errorf("newDiscrete: want(%v) have(%v)", ts.First, step.StepType)
	}
	return c
}

func TestStepLimitTruncates(t *testing.T) {
	steps := 5
	c := newCartpole(t, 0.0, steps)

	// Without force, a perfectly upright pole stays upright
	noop := mat.NewVecDense(1, []float64{1})
	for i := 1; i <= steps; i++ {
		step, done, err := c.Step(noop)
		if err != nil {
			t.Fatal(err)
		}
		if step.Reward != 1.0 {
			t.Errorf("step %v reward: want(1.0) have(%v)", i, step.Reward)
		}
		if i < steps && done {
			t.Fatalf("step %v: episode should not have ended", i)
		}
		if i == steps && (!done || !step.Truncated()) {
			t.Errorf("step %v: want(%v) have(%v)", i, ts.Timeout,
				step.EndType())
		}
	}
}

func TestFallenPoleTerminates(t *testing.T) {
	c := newCartpole(t, 2*FailAngle, 500)

	step, done, err := c.Step(mat.NewVecDense(1, []float64{1}))
	if err != nil {
		t.Fatal(err)
	}
	if !done || !step.Terminated() {
		t.Errorf("fallen pole: want(%v) have(%v)", ts.TerminalStateReached,
			step.EndType())
	}
	if step.Reward != -1.0 {
		t.Errorf("fallen pole reward: want(-1.0) have(%v)", step.Reward)
	}
}

func TestTerminationBeforeTruncation(t *testing.T) {
	c := newCartpole(t, 2*FailAngle, 1)

	step, _, err := c.Step(mat.NewVecDense(1, []float64{1}))
	if err != nil {
		t.Fatal(err)
	}
	if !step.Terminated() {
		t.Errorf("end type: want(%v) have(%v)", ts.TerminalStateReached,
			step.EndType())
	}
}

func TestIllegalActionPanics(t *testing.T) {
	c := newCartpole(t, 0.0, 10)

	defer func() {
		if recover() == nil {
			t.Error("step: illegal action should panic")
		}
	}()
	c.Step(mat.NewVecDense(1, []float64{3}))
}

func TestSpecs(t *testing.T) {
	c := newCartpole(t, 0.0, 10)

	actions, err := env.NumActions(c.ActionSpec())
	if err != nil {
		t.Fatal(err)
	}
	if actions != 3 {
		t.Errorf("actions: want(3) have(%v)", actions)
	}
	if features := c.ObservationSpec().Shape.Len(); features != 4 {
		t.Errorf("features: want(4) have(%v)", features)
	}
}
