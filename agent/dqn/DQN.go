// Package dqn implements the Deep Q-Network agent: ε-greedy experience
// collection into a replay buffer, semi-gradient Q-learning updates of
// an online network against bootstrapped targets from a target network,
// and periodic hard synchronization of the target network.
package dqn

import (
	"fmt"
	"io"
	"log"

	"github.com/samuelfneumann/godqn/agent/policy"
	"github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/samuelfneumann/godqn/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// scoreWindow is the number of most recent episodes averaged by Score
const scoreWindow = 5

// Agent implements a Deep Q-Network agent
type Agent struct {
	env     environment.Environment
	evalEnv environment.Environment

	online QNetwork
	target QNetwork
	buffer Buffer

	schedule *policy.LinearSchedule
	behavior *policy.EGreedy
	greedy   policy.Greedy

	config   Config
	features int
	actions  int

	stepCount     uint64
	episodeCount  uint64
	episodeSteps  int
	episodeReward float64
	rewards       []float64
	updates       uint64

	state []float64

	logger *log.Logger
	hooks  []func(Episode)
}

// Episode summarizes a completed training episode
type Episode struct {
	Number    uint64  // Episode number, starting at 1
	Steps     int     // Length of the episode
	Return    float64 // Undiscounted return
	StepCount uint64  // Total training steps taken when the episode ended
	Epsilon   float64
}

// Option configures an Agent
type Option func(*Agent)

// WithLogger sets the logger to which completed episodes are reported
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) {
		a.logger = l
	}
}

// WithEpisodeHook adds a function which is called with a summary of
// each completed training episode
func WithEpisodeHook(f func(Episode)) Option {
	return func(a *Agent) {
		a.hooks = append(a.hooks, f)
	}
}

// New creates and returns a new Agent. The training and evaluation
// environments, online and target networks, and the replay buffer are
// all created from their factories and are owned by the returned
// Agent.
func New(envFn EnvFactory, netFn NetworkFactory, bufFn BufferFactory,
	c Config, seed uint64, opts ...Option) (*Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	env, err := envFn()
	if err != nil {
		return nil, fmt.Errorf("new: could not create environment: %v", err)
	}
	evalEnv, err := envFn()
	if err != nil {
		return nil, fmt.Errorf("new: could not create evaluation "+
			"environment: %v", err)
	}

	actions, err := environment.NumActions(env.ActionSpec())
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	features := env.ObservationSpec().Shape.Len()

	online, err := netFn(features, actions)
	if err != nil {
		return nil, fmt.Errorf("new: could not create online network: %v",
			err)
	}
	target, err := netFn(features, actions)
	if err != nil {
		return nil, fmt.Errorf("new: could not create target network: %v",
			err)
	}

	buffer, err := bufFn(features, actions)
	if err != nil {
		return nil, fmt.Errorf("new: could not create buffer: %v", err)
	}
	if buffer.MinCapacity() > c.MinBuffer {
		return nil, fmt.Errorf("new: buffer minimum capacity (%v) cannot "+
			"exceed min buffer (%v)", buffer.MinCapacity(), c.MinBuffer)
	}

	schedule, err := policy.NewLinearSchedule(c.MaxEpsilon, c.MinEpsilon,
		c.DecaySteps)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	a := &Agent{
		env:      env,
		evalEnv:  evalEnv,
		online:   online,
		target:   target,
		buffer:   buffer,
		schedule: schedule,
		behavior: policy.NewEGreedy(seed),
		config:   c,
		features: features,
		actions:  actions,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.SyncTarget(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if err := a.reset(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return a, nil
}

// SelectAction selects an ε-greedy action with respect to the online
// network in the state obs. ε is not decayed.
func (a *Agent) SelectAction(obs []float64) (int, error) {
	if len(obs) != a.features {
		return 0, fmt.Errorf("selectAction: invalid observation size "+
			"\n\twant(%v) \n\thave(%v)", a.features, len(obs))
	}

	if a.behavior.Explore(a.schedule.Epsilon()) {
		return a.behavior.RandomAction(a.actions), nil
	}

	values, err := a.online.Predict(obs)
	if err != nil {
		return 0, fmt.Errorf("selectAction: %v", err)
	}
	return a.greedy.SelectAction(values), nil
}

// AdvanceExploration decays ε by one exploration decision
func (a *Agent) AdvanceExploration() {
	a.schedule.Advance()
}

// GreedyAction returns the first action of maximal value with respect
// to the target network in the state obs
func (a *Agent) GreedyAction(obs []float64) (int, error) {
	if len(obs) != a.features {
		return 0, fmt.Errorf("greedyAction: invalid observation size "+
			"\n\twant(%v) \n\thave(%v)", a.features, len(obs))
	}

	values, err := a.target.Predict(obs)
	if err != nil {
		return 0, fmt.Errorf("greedyAction: %v", err)
	}
	return a.greedy.SelectAction(values), nil
}

// Step runs the Agent in the training environment for steps steps,
// starting new episodes as old ones end.
func (a *Agent) Step(steps int) error {
	for i := 0; i < steps; i++ {
		if _, err := a.step(); err != nil {
			return err
		}
	}
	return nil
}

// Train runs the Agent in the training environment for episodes
// complete episodes. Any episode left unfinished by Step is abandoned
// first.
func (a *Agent) Train(episodes int) error {
	if a.episodeSteps > 0 {
		if err := a.reset(); err != nil {
			return fmt.Errorf("train: %v", err)
		}
	}

	for i := 0; i < episodes; i++ {
		done := false
		for !done {
			var err error
			if done, err = a.step(); err != nil {
				return err
			}
		}
	}
	return nil
}

// step takes a single step in the training environment, storing the
// transition and updating the networks when enough transitions have
// been stored. The returned bool is whether the episode ended.
func (a *Agent) step() (bool, error) {
	a.stepCount++

	action, err := a.SelectAction(a.state)
	if err != nil {
		return false, fmt.Errorf("step: %v", err)
	}
	a.AdvanceExploration()

	outcome, err := act(a.env, action)
	if err != nil {
		return false, fmt.Errorf("step: %v", err)
	}
	a.episodeReward += outcome.Reward
	a.episodeSteps++

	t := ts.Transition{
		State:     a.state,
		Action:    action,
		Reward:    outcome.Reward,
		NextState: outcome.NextState,
		Terminal:  outcome.Terminal(),
	}
	if err := a.buffer.Add(t); err != nil {
		return false, fmt.Errorf("step: could not store transition: %v", err)
	}

	if a.buffer.Len() >= a.config.MinBuffer {
		if _, err := a.Update(); err != nil {
			return false, fmt.Errorf("step: %v", err)
		}

		if a.stepCount%uint64(a.config.TargetUpdateRate) == 0 {
			if err := a.SyncTarget(); err != nil {
				return false, fmt.Errorf("step: %v", err)
			}
		}
	}

	a.state = outcome.NextState

	if outcome.Done() {
		a.episodeCount++
		a.rewards = append(a.rewards, a.episodeReward)

		ep := Episode{
			Number:    a.episodeCount,
			Steps:     a.episodeSteps,
			Return:    a.episodeReward,
			StepCount: a.stepCount,
			Epsilon:   a.schedule.Epsilon(),
		}
		a.logger.Printf("episode %d: return %.3f, steps %d, ε %.4f",
			ep.Number, ep.Return, ep.Steps, ep.Epsilon)
		for _, hook := range a.hooks {
			hook(ep)
		}

		if err := a.reset(); err != nil {
			return true, fmt.Errorf("step: %v", err)
		}
	}
	return outcome.Done(), nil
}

// reset starts a new episode in the training environment
func (a *Agent) reset() error {
	step, err := a.env.Reset()
	if err != nil {
		return fmt.Errorf("reset: %v", err)
	}

	a.state = append([]float64{}, step.Observation.RawVector().Data...)
	a.episodeReward = 0.0
	a.episodeSteps = 0
	return nil
}

// act takes action in env
func act(env environment.Environment, action int) (Outcome, error) {
	step, done, err := env.Step(mat.NewVecDense(1, []float64{
		float64(action),
	}))
	if err != nil {
		return Outcome{}, err
	}
	return newOutcome(step, done), nil
}

// Update performs a single learning update of the online network on a
// batch sampled from the replay buffer and returns the loss.
func (a *Agent) Update() (float64, error) {
	batch, err := a.buffer.Sample()
	if err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}

	nextValues, err := a.target.Predict(batch.NextStates)
	if err != nil {
		return 0, fmt.Errorf("update: could not predict next values: %v",
			err)
	}

	targets := TDTargets(batch.Rewards, batch.Terminals, nextValues,
		a.actions, a.config.Gamma)

	loss, err := a.online.Optimize(batch.States, batch.Actions, targets)
	if err != nil {
		return 0, fmt.Errorf("update: %v", err)
	}
	a.updates++
	return loss, nil
}

// TDTargets computes the Q-learning update target of each transition
// in a batch:
//
//	y = r + γ * (1 - terminal) * max_a' Q(s', a')
//
// nextValues is a row-major matrix of the action values of each next
// state, with actions columns.
func TDTargets(rewards, terminals, nextValues []float64, actions int,
	gamma float64) []float64 {
	maxNext := floatutils.RowMax(nextValues, actions)

	targets := make([]float64, len(rewards))
	for i := range rewards {
		targets[i] = rewards[i] + gamma*(1-terminals[i])*maxNext[i]
	}
	return targets
}

// SyncTarget copies the weights of the online network into the target
// network
func (a *Agent) SyncTarget() error {
	if err := a.target.SetWeights(a.online.Weights()); err != nil {
		return fmt.Errorf("syncTarget: %v", err)
	}
	return nil
}

// Restore sets the weights of the online network and synchronizes the
// target network
func (a *Agent) Restore(weights map[string]*mat.Dense) error {
	if err := a.online.SetWeights(weights); err != nil {
		return fmt.Errorf("restore: %v", err)
	}
	if err := a.SyncTarget(); err != nil {
		return fmt.Errorf("restore: %v", err)
	}
	return nil
}

// Evaluate runs a single episode in the evaluation environment with
// the greedy policy and returns the undiscounted return. Nothing is
// learned and ε is unchanged.
func (a *Agent) Evaluate() (float64, error) {
	step, err := a.evalEnv.Reset()
	if err != nil {
		return 0, fmt.Errorf("evaluate: %v", err)
	}
	obs := step.Observation.RawVector().Data

	var total float64
	for {
		action, err := a.GreedyAction(obs)
		if err != nil {
			return 0, fmt.Errorf("evaluate: %v", err)
		}

		outcome, err := act(a.evalEnv, action)
		if err != nil {
			return 0, fmt.Errorf("evaluate: %v", err)
		}
		total += outcome.Reward

		if outcome.Done() {
			return total, nil
		}
		obs = outcome.NextState
	}
}

// EvaluateN runs n evaluation episodes and returns the return of each
func (a *Agent) EvaluateN(n int) ([]float64, error) {
	returns := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		ret, err := a.Evaluate()
		if err != nil {
			return returns, err
		}
		returns = append(returns, ret)
	}
	return returns, nil
}

// Score returns the mean return of the last 5 completed training
// episodes, or 0 if no episode has completed
func (a *Agent) Score() float64 {
	return floatutils.TailMean(a.rewards, scoreWindow)
}

// Epsilon returns the current exploration rate
func (a *Agent) Epsilon() float64 {
	return a.schedule.Epsilon()
}

// StepCount returns the number of training steps taken
func (a *Agent) StepCount() uint64 {
	return a.stepCount
}

// EpisodeCount returns the number of training episodes completed
func (a *Agent) EpisodeCount() uint64 {
	return a.episodeCount
}

// EpisodeReward returns the return accumulated so far in the current
// training episode
func (a *Agent) EpisodeReward() float64 {
	return a.episodeReward
}

// Rewards returns the return of each completed training episode
func (a *Agent) Rewards() []float64 {
	return append([]float64{}, a.rewards...)
}

// Updates returns the number of learning updates performed
func (a *Agent) Updates() uint64 {
	return a.updates
}

// Online returns the online network, which is trained and which
// selects actions during training
func (a *Agent) Online() QNetwork {
	return a.online
}

// Target returns the target network, which computes next-state values
// and selects greedy actions during evaluation
func (a *Agent) Target() QNetwork {
	return a.target
}

// Close releases the networks and environments owned by the Agent
func (a *Agent) Close() error {
	for _, net := range []QNetwork{a.online, a.target} {
		if c, ok := net.(io.Closer); ok {
			if err := c.Close(); err != nil {
				return fmt.Errorf("close: %v", err)
			}
		}
	}
	for _, env := range []environment.Environment{a.env, a.evalEnv} {
		if c, ok := env.(environment.Closer); ok {
			if err := c.Close(); err != nil {
				return fmt.Errorf("close: %v", err)
			}
		}
	}
	return nil
}
