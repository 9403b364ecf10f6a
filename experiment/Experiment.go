// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/godqn/agent/dqn"
	"github.com/samuelfneumann/godqn/agent/qnet"
	"github.com/samuelfneumann/godqn/environment/envconfig"
	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/samuelfneumann/godqn/experiment/tracker"
	"github.com/samuelfneumann/godqn/expreplay"
	"github.com/samuelfneumann/godqn/initwfn"
	"github.com/samuelfneumann/godqn/network"
	"github.com/samuelfneumann/godqn/solver"
)

// Experiment outlines structs that can run experiments. Each completed
// episode of an experiment is sent to the experiment's Trackers, which
// cache it and save it when Save is called. New Trackers can be
// registered through the constructor or through Register.
type Experiment interface {
	// Run runs the experiment until its step budget is exhausted or
	// ctx is cancelled
	Run(ctx context.Context) error

	// Save saves all tracked data
	Save() error

	// Register adds a new Tracker to the (possibly already running)
	// experiment
	Register(t tracker.Tracker)
}

// Config represents a configuration of an experiment
type Config struct {
	Env     envconfig.Config `json:"env"`
	Agent   dqn.Config       `json:"agent"`
	Network qnet.Config      `json:"network"`
	Replay  expreplay.Config `json:"replay"`

	// Steps is the total number of training steps to run
	Steps int `json:"steps"`

	// Chunk is the number of training steps between evaluations and
	// checkpoints
	Chunk int `json:"chunk"`

	// EvalEpisodes is the number of greedy evaluation episodes run
	// after each chunk
	EvalEpisodes int `json:"eval_episodes"`

	Seed uint64 `json:"seed"`
}

// DefaultConfig returns the Config of a DQN experiment on Cartpole
func DefaultConfig() (Config, error) {
	adam, err := solver.NewDefaultAdam(1e-3, 1)
	if err != nil {
		return Config{}, fmt.Errorf("defaultConfig: %v", err)
	}
	init, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		return Config{}, fmt.Errorf("defaultConfig: %v", err)
	}

	const batchSize = 32
	return Config{
		Env: envconfig.NewConfig(envconfig.Cartpole, envconfig.Balance, 500,
			0.99),
		Agent: dqn.DefaultConfig(),
		Network: qnet.Config{
			Layers:      []int{64, 64},
			Biases:      []bool{true, true},
			Activations: []*network.Activation{network.ReLU(), network.ReLU()},
			Solver:      adam,
			InitWFn:     init,
			BatchSize:   batchSize,
		},
		Replay: expreplay.Config{
			Capacity:    50_000,
			MinCapacity: batchSize,
			BatchSize:   batchSize,
		},
		Steps:        50_000,
		Chunk:        1_000,
		EvalEpisodes: 5,
		Seed:         1,
	}, nil
}

// LoadConfig reads a JSON Config from the file filename
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v", err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not decode %v: %v",
			filename, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v", err)
	}
	return c, nil
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("validate: env: %v", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: agent: %v", err)
	}
	if err := c.Network.Validate(); err != nil {
		return fmt.Errorf("validate: network: %v", err)
	}
	if err := c.Replay.Validate(); err != nil {
		return fmt.Errorf("validate: replay: %v", err)
	}
	if c.Network.BatchSize != c.Replay.BatchSize {
		return fmt.Errorf("validate: network batch size (%v) must match "+
			"replay batch size (%v)", c.Network.BatchSize, c.Replay.BatchSize)
	}
	if c.Steps < 1 || c.Chunk < 1 {
		return fmt.Errorf("validate: steps and chunk must be positive "+
			"\n\thave(%v, %v)", c.Steps, c.Chunk)
	}
	if c.EvalEpisodes < 0 {
		return fmt.Errorf("validate: eval episodes cannot be negative "+
			"\n\thave(%v)", c.EvalEpisodes)
	}
	return nil
}

// NewAgent creates the DQN Agent described by the Config
func (c Config) NewAgent(opts ...dqn.Option) (*dqn.Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newAgent: %v", err)
	}

	bufFn := func(features, actions int) (dqn.Buffer, error) {
		return expreplay.New(c.Replay, features, actions, c.Seed)
	}

	agent, err := dqn.New(c.Env.Factory(c.Seed), qnet.Factory(c.Network),
		bufFn, c.Agent, c.Seed, opts...)
	if err != nil {
		return nil, fmt.Errorf("newAgent: %v", err)
	}
	return agent, nil
}

// Checkpointers returns Checkpointers which saves the online network
// weights of agent into dir every n steps
func Checkpointers(agent *dqn.Agent, dir string,
	n uint64) ([]checkpointer.Checkpointer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpointers: %v", err)
	}

	c, err := checkpointer.NewNStep(n, agent.Online(),
		checkpointer.FilenameEnumerator(0, filepath.Join(dir, "weights"),
			".bin"))
	if err != nil {
		return nil, fmt.Errorf("checkpointers: %v", err)
	}
	return []checkpointer.Checkpointer{c}, nil
}
