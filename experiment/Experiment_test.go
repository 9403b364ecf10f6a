package experiment

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/samuelfneumann/godqn/experiment/tracker"
	"github.com/samuelfneumann/godqn/solver"
	"github.com/stretchr/testify/require"
)

const configJSON = `{
	"env": {
		"environment": "Cartpole",
		"task": "Balance",
		"episode_steps": 20,
		"discount": 0.99
	},
	"agent": {
		"max_epsilon": 1.0,
		"min_epsilon": 0.05,
		"decay_steps": 30,
		"gamma": 0.99,
		"target_update_rate": 10,
		"min_buffer": 8
	},
	"network": {
		"layers": [8],
		"biases": [true],
		"activations": ["relu"],
		"solver": {"type": "Adam", "config": {
			"step_size": 0.001, "epsilon": 1e-8, "beta1": 0.9,
			"beta2": 0.999, "batch": 1, "clip": -1
		}},
		"init_wfn": {"type": "GlorotU", "config": {"gain": 1.0}},
		"batch_size": 4
	},
	"replay": {"capacity": 100, "min_capacity": 4, "batch_size": 4},
	"steps": 60,
	"chunk": 20,
	"eval_episodes": 1,
	"seed": 3
}`

func testConfig(t *testing.T) Config {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, []byte(configJSON), 0o644))

	c, err := LoadConfig(filename)
	require.NoError(t, err)
	return c
}

func TestLoadConfig(t *testing.T) {
	c := testConfig(t)

	require.Equal(t, 20, c.Env.EpisodeSteps)
	require.Equal(t, 30, c.Agent.DecaySteps)
	require.Equal(t, []int{8}, c.Network.Layers)
	require.Equal(t, solver.Adam, c.Network.Solver.Type())
	require.Equal(t, "relu", c.Network.Activations[0].String())
	require.Equal(t, 4, c.Replay.BatchSize)
	require.Equal(t, uint64(3), c.Seed)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestDefaultConfigRoundTrip(t *testing.T) {
	c, err := DefaultConfig()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, decoded.Validate())
	require.Equal(t, c.Agent, decoded.Agent)
	require.Equal(t, c.Replay, decoded.Replay)
	require.Equal(t, c.Env, decoded.Env)
}

func TestValidate(t *testing.T) {
	invalid := []func(*Config){
		func(c *Config) { c.Replay.BatchSize = 8 },
		func(c *Config) { c.Steps = 0 },
		func(c *Config) { c.Chunk = 0 },
		func(c *Config) { c.EvalEpisodes = -1 },
		func(c *Config) { c.Agent.Gamma = 0 },
		func(c *Config) { c.Env.Environment = "Pong" },
	}
	for i, modify := range invalid {
		c := testConfig(t)
		modify(&c)
		require.Error(t, c.Validate(), "config %v", i)
	}
}

func TestOnline(t *testing.T) {
	c := testConfig(t)
	dir := t.TempDir()

	db, err := tracker.NewSQLite(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	returns := tracker.NewReturn(filepath.Join(dir, "returns.bin"),
		tracker.Train)

	var progress int
	exp, err := NewOnline(c, []tracker.Tracker{db},
		WithCheckpointDir(filepath.Join(dir, "checkpoints")),
		WithProgress(func(steps int) { progress += steps }),
	)
	require.NoError(t, err)
	defer exp.Close()
	exp.Register(returns)

	require.NoError(t, exp.Run(context.Background()))
	require.NoError(t, exp.Save())

	agent := exp.Agent()
	require.Equal(t, uint64(c.Steps), agent.StepCount())
	require.Equal(t, c.Steps, progress)
	require.Positive(t, agent.Updates())

	train, err := db.Records(exp.RunID(), tracker.Train)
	require.NoError(t, err)
	require.Len(t, train, int(agent.EpisodeCount()))
	require.Equal(t, agent.Rewards(), returns.Returns())

	eval, err := db.Records(exp.RunID(), tracker.Eval)
	require.NoError(t, err)
	require.Len(t, eval, c.Steps/c.Chunk*c.EvalEpisodes)

	saved, err := tracker.LoadData(filepath.Join(dir, "returns.bin"))
	require.NoError(t, err)
	require.Equal(t, agent.Rewards(), saved)

	weights, err := checkpointer.Load(filepath.Join(dir, "checkpoints",
		"weights3.bin"))
	require.NoError(t, err)
	require.NoError(t, agent.Restore(weights))
}

func TestOnlineCancelled(t *testing.T) {
	exp, err := NewOnline(testConfig(t), nil)
	require.NoError(t, err)
	defer exp.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, exp.Run(ctx))
	require.Zero(t, exp.Agent().StepCount())
}
