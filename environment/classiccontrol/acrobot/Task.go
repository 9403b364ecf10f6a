package acrobot

import (
	"math"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// GoalHeight is the classic control goal: the tip must swing one link
// length above the fixed base
const GoalHeight float64 = LinkLength1

// SwingUp implements the classic control Acrobot task where the agent
// must swing the tip of the second link above some height.
//
// Rewards are -1 on each timestep and 0 for the action which swings
// the tip above the goal height. Episodes terminate when the tip
// reaches the goal height and are cut off after a step limit.
type SwingUp struct {
	env.Starter
	goalEnder  *env.FunctionEnder
	stepEnder  *env.StepLimit
	goalHeight float64
}

// NewSwingUp returns a new SwingUp task with start state distribution
// s, episodic step limit episodeSteps, and goal height goalHeight
func NewSwingUp(s env.Starter, episodeSteps int,
	goalHeight float64) *SwingUp {
	task := &SwingUp{
		Starter:    s,
		stepEnder:  env.NewStepLimit(episodeSteps),
		goalHeight: goalHeight,
	}
	task.goalEnder = env.NewFunctionEnder(task.atGoal,
		ts.TerminalStateReached)
	return task
}

// height returns the height of the tip of the acrobot above the
// fixed base
func height(state mat.Vector) float64 {
	return -math.Cos(state.AtVec(0)) -
		math.Cos(state.AtVec(1)+state.AtVec(0))
}

func (s *SwingUp) atGoal(state *mat.VecDense) bool {
	return height(state) > s.goalHeight
}

// AtGoal returns whether the argument state is a goal state
func (s *SwingUp) AtGoal(state mat.Matrix) bool {
	r, _ := state.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, state.At(i, 0))
	}
	return s.atGoal(v)
}

// End determines if a timestep is the last timestep in the episode.
// Reaching the goal takes precedence over the step limit.
func (s *SwingUp) End(t *ts.TimeStep) bool {
	if end := s.goalEnder.End(t); end {
		return true
	}
	return s.stepEnder.End(t)
}

// GetReward returns -1 for all transitions, except for those to a goal
// state, which have reward 0
func (s *SwingUp) GetReward(_, _, nextState mat.Vector) float64 {
	if height(nextState) > s.goalHeight {
		return 0.0
	}
	return -1.0
}

// RewardSpec returns the reward specification of the Task
func (s *SwingUp) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{-1.0})
	upperBound := mat.NewVecDense(1, []float64{0.0})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Discrete)
}
