package mountaincar

import (
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func newMountainCar(t *testing.T, position, velocity float64,
	steps int) *Discrete {
	start := env.NewUniformStarter([]r1.Interval{
		{Min: position, Max: position},
		{Min: velocity, Max: velocity},
	}, 1)

	m, _, err := NewDiscrete(NewGoal(start, steps, GoalPosition), 1.0)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestGoalTerminates(t *testing.T) {
	m := newMountainCar(t, GoalPosition-0.01, MaxSpeed, 100)

	step, done, err := m.Step(mat.NewVecDense(1, []float64{2}))
	if err != nil {
		t.Fatal(err)
	}
	if !done || !step.Terminated() {
		t.Errorf("goal: want(%v) have(%v)", ts.TerminalStateReached,
			step.EndType())
	}
	if step.Reward != 0.0 {
		t.Errorf("goal reward: want(0.0) have(%v)", step.Reward)
	}
}

func TestStepLimitTruncates(t *testing.T) {
	m := newMountainCar(t, -0.5, 0.0, 3)

	var step ts.TimeStep
	var done bool
	var err error
	for i := 0; i < 3; i++ {
		step, done, err = m.Step(mat.NewVecDense(1, []float64{1}))
		if err != nil {
			t.Fatal(err)
		}
		if step.Reward != -1.0 {
			t.Errorf("step %v reward: want(-1.0) have(%v)", i, step.Reward)
		}
	}

	if !done || !step.Truncated() {
		t.Errorf("cutoff: want(%v) have(%v)", ts.Timeout, step.EndType())
	}
}

func TestInvalidStart(t *testing.T) {
	start := env.NewUniformStarter([]r1.Interval{
		{Min: 5, Max: 5},
		{Min: 0, Max: 0},
	}, 1)

	if _, _, err := NewDiscrete(NewGoal(start, 10, GoalPosition),
		1.0); err == nil {
		t.Error("newDiscrete: out of bounds start state should error")
	}
}
