package environment

import (
	"testing"

	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestStepLimit(t *testing.T) {
	ender := NewStepLimit(3)

	for i := 1; i < 3; i++ {
		step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), i)
		if ender.End(&step) {
			t.Errorf("step %v: episode should not end", i)
		}
		if step.Last() || step.EndType() != ts.NotEnded {
			t.Errorf("step %v: timestep should not be modified", i)
		}
	}

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), 3)
	if !ender.End(&step) {
		t.Fatal("step 3: episode should end")
	}
	if !step.Truncated() || step.Terminated() {
		t.Errorf("step 3: want(%v) have(%v)", ts.Timeout, step.EndType())
	}
}

func TestIntervalLimit(t *testing.T) {
	ender, err := NewIntervalLimit([]r1.Interval{{Min: -1, Max: 1}},
		[]int{1}, ts.TerminalStateReached)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		obs  []float64
		want bool
	}{
		{[]float64{5, 0.5}, false},
		{[]float64{0, 1.5}, true},
		{[]float64{0, -1.5}, true},
		{[]float64{0, 1.0}, false},
	}

	for _, test := range tests {
		step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(2, test.obs), 1)
		if got := ender.End(&step); got != test.want {
			t.Errorf("obs %v: want(%v) have(%v)", test.obs, test.want, got)
		}
		if test.want && !step.Terminated() {
			t.Errorf("obs %v: want(%v) have(%v)", test.obs,
				ts.TerminalStateReached, step.EndType())
		}
	}

	if _, err := NewIntervalLimit(nil, []int{0},
		ts.TerminalStateReached); err == nil {
		t.Error("newIntervalLimit: mismatched lengths should error")
	}
}

func TestFunctionEnder(t *testing.T) {
	ender := NewFunctionEnder(func(v *mat.VecDense) bool {
		return v.AtVec(0) > 0
	}, ts.TerminalStateReached)

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{-1}), 1)
	if ender.End(&step) {
		t.Error("function ender: episode should not end")
	}

	step = ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{1}), 1)
	if !ender.End(&step) || !step.Terminated() {
		t.Errorf("function ender: want(%v) have(%v)", ts.TerminalStateReached,
			step.EndType())
	}
}

func TestNumActions(t *testing.T) {
	one := mat.NewVecDense(1, nil)
	tests := []struct {
		name  string
		spec  Spec
		want  int
		valid bool
	}{
		{"discrete", NewSpec(one, Action, mat.NewVecDense(1, []float64{0}),
			mat.NewVecDense(1, []float64{2}), Discrete), 3, true},
		{"continuous", NewSpec(one, Action, mat.NewVecDense(1, []float64{0}),
			mat.NewVecDense(1, []float64{2}), Continuous), 0, false},
		{"offset", NewSpec(one, Action, mat.NewVecDense(1, []float64{1}),
			mat.NewVecDense(1, []float64{2}), Discrete), 0, false},
		{"observation", NewSpec(one, Observation,
			mat.NewVecDense(1, []float64{0}), mat.NewVecDense(1, []float64{2}),
			Discrete), 0, false},
	}

	for _, test := range tests {
		got, err := NumActions(test.spec)
		if test.valid && err != nil {
			t.Errorf("%v: %v", test.name, err)
		} else if !test.valid && err == nil {
			t.Errorf("%v: should error", test.name)
		}
		if got != test.want {
			t.Errorf("%v: want(%v) have(%v)", test.name, test.want, got)
		}
	}
}
