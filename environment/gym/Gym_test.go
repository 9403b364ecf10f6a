//go:build gym

package gym_test

import (
	"testing"

	"github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/environment/gym"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	envs := []struct {
		name  string
		steps int
	}{
		{"MountainCar-v0", 200},
		{"CartPole-v1", 500},
		{"Acrobot-v1", 500},
	}

	for _, test := range envs {
		env, step, err := gym.New(test.name, test.steps, 0.99, 123)
		if err != nil {
			t.Fatalf("env %v: %v", test.name, err)
		} else if !step.First() {
			t.Errorf("new: first step should have StepType First")
		}

		if _, err := environment.NumActions(env.ActionSpec()); err != nil {
			t.Errorf("env %v: %v", test.name, err)
		}

		for i := 0; i < 15; i++ {
			next, done, err := env.Step(mat.NewVecDense(1, nil))
			if err != nil {
				t.Errorf("env %v: %v", test.name, err)
			}

			if done {
				if next.EndType() == ts.NotEnded {
					t.Errorf("env %v: last step should have an end type",
						test.name)
				}
				if _, err := env.Reset(); err != nil {
					t.Errorf("env %v: %v", test.name, err)
				}
			}
		}

		if err := env.Close(); err != nil {
			t.Errorf("env %v: %v", test.name, err)
		}
	}
}

func TestStepCutoffIsTimeout(t *testing.T) {
	steps := 3
	env, _, err := gym.New("CartPole-v1", steps, 0.99, 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer env.Close()

	// Alternating pushes keep CartPole upright well past three steps
	var last ts.TimeStep
	for i := 0; i < steps; i++ {
		last, _, err = env.Step(mat.NewVecDense(1, []float64{float64(i % 2)}))
		if err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	if !last.Truncated() {
		t.Errorf("step cutoff: want(%v) have(%v)", ts.Timeout, last.EndType())
	}
}
