package policy

import (
	"testing"
)

func TestLinearSchedule(t *testing.T) {
	tests := []struct {
		max, min   float64
		decaySteps int
	}{
		{1.0, 0.1, 10},
		{1.0, 0.01, 1000},
		{0.5, 0.5, 3},
		{0.9, 0.05, 7},
	}

	for _, test := range tests {
		s, err := NewLinearSchedule(test.max, test.min, test.decaySteps)
		if err != nil {
			t.Fatal(err)
		}
		if s.Epsilon() != test.max {
			t.Errorf("initial ε: want(%v) have(%v)", test.max, s.Epsilon())
		}

		prev := s.Epsilon()
		for i := 0; i < 2*test.decaySteps; i++ {
			s.Advance()
			if s.Epsilon() > prev {
				t.Errorf("step %v: ε increased from %v to %v", i, prev,
					s.Epsilon())
			}
			if s.Epsilon() < test.min {
				t.Errorf("step %v: ε %v below min %v", i, s.Epsilon(),
					test.min)
			}
			if i == test.decaySteps-1 && s.Epsilon() != test.min {
				t.Errorf("after %v steps: want(%v) have(%v)",
					test.decaySteps, test.min, s.Epsilon())
			}
			prev = s.Epsilon()
		}
	}
}

func TestLinearScheduleDecay(t *testing.T) {
	s, err := NewLinearSchedule(1.0, 0.0, 4)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.75, 0.5, 0.25, 0.0}
	for i := range want {
		s.Advance()
		if s.Epsilon() != want[i] {
			t.Errorf("step %v: want(%v) have(%v)", i, want[i], s.Epsilon())
		}
	}
}

func TestNewLinearScheduleErrors(t *testing.T) {
	if _, err := NewLinearSchedule(1.0, 0.1, 0); err == nil {
		t.Error("zero decay steps should error")
	}
	if _, err := NewLinearSchedule(0.1, 1.0, 10); err == nil {
		t.Error("min > max should error")
	}
}

func TestGreedyFirstMax(t *testing.T) {
	if a := (Greedy{}).SelectAction([]float64{1, 3, 3, 2}); a != 1 {
		t.Errorf("greedy: want(1) have(%v)", a)
	}
}

func TestEGreedy(t *testing.T) {
	values := []float64{0, 10, 0}
	e := NewEGreedy(42)

	for i := 0; i < 100; i++ {
		if a := e.SelectAction(values, 0.0); a != 1 {
			t.Fatalf("ε = 0: want(1) have(%v)", a)
		}
	}

	counts := make([]int, len(values))
	for i := 0; i < 3000; i++ {
		counts[e.SelectAction(values, 1.0)]++
	}
	for a, count := range counts {
		if count < 800 || count > 1200 {
			t.Errorf("ε = 1: action %v chosen %v/3000 times", a, count)
		}
	}
}
