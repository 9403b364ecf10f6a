// Package policy implements action selection over action values
package policy

import (
	"fmt"
	"math"
)

// LinearSchedule implements a linearly decaying exploration rate ε.
// Each call to Advance decays ε by (max - min) / decaySteps until ε
// reaches min, after which ε stays at min.
type LinearSchedule struct {
	max, min   float64
	decaySteps int
	decisions  int
	epsilon    float64
}

// NewLinearSchedule returns a new LinearSchedule starting at max and
// reaching min after decaySteps calls to Advance.
func NewLinearSchedule(max, min float64, decaySteps int) (*LinearSchedule,
	error) {
	if decaySteps <= 0 {
		return nil, fmt.Errorf("newLinearSchedule: decay steps must be "+
			"positive \n\thave(%v)", decaySteps)
	}
	if min > max {
		return nil, fmt.Errorf("newLinearSchedule: min (%v) cannot exceed "+
			"max (%v)", min, max)
	}

	return &LinearSchedule{
		max:        max,
		min:        min,
		decaySteps: decaySteps,
		epsilon:    max,
	}, nil
}

// Epsilon returns the current exploration rate
func (l *LinearSchedule) Epsilon() float64 {
	return l.epsilon
}

// Decay returns the amount ε decays per call to Advance
func (l *LinearSchedule) Decay() float64 {
	return (l.max - l.min) / float64(l.decaySteps)
}

// Advance decays ε by one step
func (l *LinearSchedule) Advance() {
	if l.decisions >= l.decaySteps {
		return
	}
	l.decisions++

	// ε is computed from the number of decisions rather than by repeated
	// subtraction so that it is exactly min after decaySteps decisions
	if l.decisions == l.decaySteps {
		l.epsilon = l.min
	} else {
		l.epsilon = math.Max(l.min, l.max-float64(l.decisions)*l.Decay())
	}
}
