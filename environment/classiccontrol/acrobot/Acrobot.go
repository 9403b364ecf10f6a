// Package acrobot implements the discrete action classic control
// environment "Acrobot"
package acrobot

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/samuelfneumann/godqn/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	dt float64 = 0.2

	// Physical constants
	LinkLength1 float64 = 1.0 // Metres, length of link 1
	LinkLength2 float64 = 1.0 // Metres, length of link 2
	LinkMass1   float64 = 1.0 // Kg, mass of link 1
	LinkMass2   float64 = 1.0 // Kg, mass of link 2
	LinkCOMPos1 float64 = 0.5 // Metres, centre of mass link 1
	LinkCOMPos2 float64 = 0.5 // Metres, centre of mass link 2
	LinkMOI     float64 = 1.0 // Moments of inertia for both links
	MaxVel1     float64 = 4 * math.Pi
	MaxVel2     float64 = 9 * math.Pi
	Gravity     float64 = 9.8
	MaxAngle    float64 = math.Pi
	MinAngle    float64 = -MaxAngle
	MaxTorque   float64 = 1.0

	// Environment constants
	ObservationDims   int = 4
	ActionDims        int = 1
	MinDiscreteAction int = 0 // Applies -MaxTorque
	MaxDiscreteAction int = 2 // Applies MaxTorque
)

// base implements the classic control environment Acrobot. In this
// environment, a double hinged and double linked pendulum is attached
// to a single actuated fixed base. Torque can be applied at the joint
// between the links to swing the acrobot around.
//
// State feature vectors are 4-dimensional:
//
//	v ⃗ = [θ1, θ2, θ̇1, θ̇2], where:
//	θ1 = angle of the first link measured from the negative y-axis
//	θ2 = angle of the second link relative to the first link
//	θ̇1 = angular velocity of the first link
//	θ̇2 = angular velocity of the second link
//
// Angles are wrapped to stay within [-π, π) and angular velocities are
// clipped to [-MaxVel1, MaxVel1] and [-MaxVel2, MaxVel2].
//
// Dynamics follow the RL book rather than the NeurIPS paper.
type base struct {
	env.Task
	lastStep        ts.TimeStep
	discount        float64
	angleBounds     r1.Interval
	velocity1Bounds r1.Interval
	velocity2Bounds r1.Interval
}

// newBase returns a new base acrobot environment
func newBase(t env.Task, discount float64) (*base, ts.TimeStep, error) {
	acrobot := &base{
		Task:            t,
		discount:        discount,
		angleBounds:     r1.Interval{Min: MinAngle, Max: MaxAngle},
		velocity1Bounds: r1.Interval{Min: -MaxVel1, Max: MaxVel1},
		velocity2Bounds: r1.Interval{Min: -MaxVel2, Max: MaxVel2},
	}

	firstStep, err := acrobot.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newBase: %v", err)
	}
	return acrobot, firstStep, nil
}

// Reset resets the environment, begins a new episode, and returns
// the first timestep of the new episode
func (a *base) Reset() (ts.TimeStep, error) {
	state := a.Start()
	if err := a.validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	startStep := ts.New(ts.First, 0, a.discount, state, 0)
	a.lastStep = startStep

	return startStep, nil
}

// validateState returns an error if state is not a legal state
func (a *base) validateState(state mat.Vector) error {
	if l := state.Len(); l != ObservationDims {
		return fmt.Errorf("illegal state length \n\twant(%v) \n\thave(%v)",
			ObservationDims, l)
	}

	bounds := []r1.Interval{a.angleBounds, a.angleBounds,
		a.velocity1Bounds, a.velocity2Bounds}
	names := []string{"angle 1", "angle 2", "angular velocity 1",
		"angular velocity 2"}
	for i, b := range bounds {
		if v := state.AtVec(i); v < b.Min || v > b.Max {
			return fmt.Errorf("%v %v ∉ [%v, %v]", names[i], v, b.Min, b.Max)
		}
	}
	return nil
}

// nextState returns the next state of the environment given the
// torque to apply
func (a *base) nextState(torque float64) *mat.VecDense {
	s := a.lastStep.Observation
	torque = floatutils.Clip(torque, -MaxTorque, MaxTorque)

	// The torque is appended to the state so that it is held constant
	// during integration
	sAugmented := mat.NewVecDense(s.Len()+1, nil)
	sAugmented.CopyVec(s)
	sAugmented.SetVec(sAugmented.Len()-1, torque)

	integrated := rk4(dsDt, sAugmented, []float64{0.0, dt})
	r, _ := integrated.Dims()
	next := integrated.RawRowView(r - 1)

	ns := mat.NewVecDense(ObservationDims, nil)
	ns.SetVec(0, floatutils.WrapInterval(next[0], a.angleBounds))
	ns.SetVec(1, floatutils.WrapInterval(next[1], a.angleBounds))
	ns.SetVec(2, floatutils.ClipInterval(next[2], a.velocity1Bounds))
	ns.SetVec(3, floatutils.ClipInterval(next[3], a.velocity2Bounds))

	return ns
}

// update constructs the next TimeStep of the environment from the
// action taken and the next state
func (a *base) update(action, newState *mat.VecDense) (ts.TimeStep, bool) {
	reward := a.GetReward(a.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, a.discount, newState,
		a.lastStep.Number+1)

	a.End(&nextStep)

	a.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// ObservationSpec returns the observation specification of the
// environment
func (a *base) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)
	lowerBound := mat.NewVecDense(ObservationDims, []float64{MinAngle,
		MinAngle, -MaxVel1, -MaxVel2})
	upperBound := mat.NewVecDense(ObservationDims, []float64{MaxAngle,
		MaxAngle, MaxVel1, MaxVel2})

	return env.NewSpec(shape, env.Observation, lowerBound,
		upperBound, env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (a *base) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{a.discount})
	upperBound := mat.NewVecDense(1, []float64{a.discount})

	return env.NewSpec(shape, env.Discount, lowerBound,
		upperBound, env.Continuous)
}

// String implements the fmt.Stringer interface
func (a *base) String() string {
	state := a.lastStep.Observation

	return fmt.Sprintf("Acrobot  |  θ1: %v  |  θ2: %v  |  θ̇1: %v  |  θ̇2: %v",
		state.AtVec(0), state.AtVec(1), state.AtVec(2), state.AtVec(3))
}

// dsDt calculates ds/dt for the environment, where s is the current
// state augmented with the applied torque
func dsDt(sAugmented *mat.VecDense, _ float64) []float64 {
	m1, m2 := LinkMass1, LinkMass2
	l1 := LinkLength1
	lc1, lc2 := LinkCOMPos1, LinkCOMPos2
	i1, i2 := LinkMOI, LinkMOI
	g := Gravity

	a := sAugmented.AtVec(sAugmented.Len() - 1)
	theta1 := sAugmented.AtVec(0)
	theta2 := sAugmented.AtVec(1)
	dtheta1 := sAugmented.AtVec(2)
	dtheta2 := sAugmented.AtVec(3)

	d1 := m1*lc1*lc1 + m2*(l1*l1+lc2*lc2+2*l1*lc2*math.Cos(theta2)) + i1 + i2
	d2 := m2*(lc2*lc2+l1*lc2*math.Cos(theta2)) + i2

	phi2 := m2 * lc2 * g * math.Cos(theta1+theta2-math.Pi/2.0)
	phi1 := -m2*l1*lc2*dtheta2*dtheta2*math.Sin(theta2) -
		2*m2*l1*lc2*dtheta2*dtheta1*math.Sin(theta2) +
		(m1*lc1+m2*l1)*g*math.Cos(theta1-math.Pi/2.0) + phi2

	ddtheta2 := (a + d2/d1*phi1 - m2*l1*lc2*dtheta1*dtheta1*
		math.Sin(theta2) - phi2) / (m2*lc2*lc2 + i2 - d2*d2/d1)
	ddtheta1 := -(d2*ddtheta2 + phi1) / d1

	// Last component is da/dt == 0.0
	return []float64{dtheta1, dtheta2, ddtheta1, ddtheta2, 0.0}
}

// rk4 integrates an n-dimensional system of ODEs using 4th order
// Runge-Kutta, returning the state at each time in t as a row
func rk4(derivs func(*mat.VecDense, float64) []float64, y0 *mat.VecDense,
	t []float64) *mat.Dense {
	yout := mat.NewDense(len(t), y0.Len(), nil)
	yout.SetRow(0, y0.RawVector().Data)

	for i := 0; i < len(t)-1; i++ {
		thist := t[i]
		dt := t[i+1] - thist
		dt2 := dt / 2.0

		y := mat.NewVecDense(y0.Len(), nil)
		y.CopyVec(yout.RowView(i))

		k1 := mat.NewVecDense(y.Len(), derivs(y, thist))

		input := mat.NewVecDense(y.Len(), nil)
		input.AddScaledVec(y, dt2, k1)
		k2 := mat.NewVecDense(y.Len(), derivs(input, thist+dt2))

		input.AddScaledVec(y, dt2, k2)
		k3 := mat.NewVecDense(y.Len(), derivs(input, thist+dt2))

		input.AddScaledVec(y, dt, k3)
		k4 := mat.NewVecDense(y.Len(), derivs(input, thist+dt))

		row := mat.NewVecDense(y.Len(), nil)
		row.AddScaledVec(k1, 2.0, k2)
		row.AddScaledVec(row, 2.0, k3)
		row.AddVec(row, k4)
		row.AddScaledVec(y, dt/6.0, row)

		yout.SetRow(i+1, row.RawVector().Data)
	}
	return yout
}
