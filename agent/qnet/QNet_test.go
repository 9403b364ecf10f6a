package qnet

import (
	"encoding/json"
	"testing"

	"github.com/samuelfneumann/godqn/initwfn"
	"github.com/samuelfneumann/godqn/network"
	"github.com/samuelfneumann/godqn/solver"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testConfig(t *testing.T) Config {
	t.Helper()

	s, err := solver.NewVanilla(0.1, 1, -1)
	require.NoError(t, err)
	init, err := initwfn.NewGlorotU(1.0)
	require.NoError(t, err)

	return Config{
		Layers:      []int{4},
		Biases:      []bool{true},
		Activations: []*network.Activation{network.ReLU()},
		Solver:      s,
		InitWFn:     init,
		BatchSize:   2,
	}
}

// constantWeights returns weights for a QNet with 2 features and 3
// actions whose action values are always values
func constantWeights(values []float64) map[string]*mat.Dense {
	return map[string]*mat.Dense{
		"L0W": mat.NewDense(2, 4, nil),
		"L0B": mat.NewDense(1, 4, nil),
		"L1W": mat.NewDense(4, 3, nil),
		"L1B": mat.NewDense(1, 3, values),
	}
}

func TestPredict(t *testing.T) {
	q, err := New(2, 3, testConfig(t))
	require.NoError(t, err)
	defer q.Close()
	require.NoError(t, q.SetWeights(constantWeights([]float64{1, 2, 3})))

	tests := []struct {
		name   string
		states []float64
	}{
		{"single", []float64{0.1, 0.2}},
		{"batch", []float64{0.1, 0.2, 0.3, 0.4}},
		{"rows", []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}},
	}
	for _, test := range tests {
		values, err := q.Predict(test.states)
		require.NoError(t, err, test.name)

		rows := len(test.states) / 2
		require.Len(t, values, 3*rows, test.name)
		for i := 0; i < rows; i++ {
			require.Equal(t, []float64{1, 2, 3}, values[3*i:3*i+3], test.name)
		}
	}

	_, err = q.Predict([]float64{0.1, 0.2, 0.3})
	require.Error(t, err)
	_, err = q.Predict(nil)
	require.Error(t, err)
}

func TestOptimizeGathersTakenActions(t *testing.T) {
	q, err := New(2, 3, testConfig(t))
	require.NoError(t, err)
	defer q.Close()
	require.NoError(t, q.SetWeights(constantWeights([]float64{1, 2, 3})))

	states := []float64{0.5, -0.5, 1.0, 2.0}
	actions := []int{0, 2}
	targets := []float64{0, 0}

	// Q(s₁, 0) = 1 and Q(s₂, 2) = 3, so the loss is (1² + 3²) / 2
	loss, err := q.Optimize(states, actions, targets)
	require.NoError(t, err)
	require.InDelta(t, 5.0, loss, 1e-9)

	// Only the output bias has a non-zero gradient, which moves the
	// values of actions 0 and 2 by 0.1 * (Q - y)
	values, err := q.Predict(states[:2])
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.9, 2, 2.7}, values, 1e-9)

	next, err := q.Optimize(states, actions, targets)
	require.NoError(t, err)
	require.Less(t, next, loss)
	require.InDelta(t, (0.9*0.9+2.7*2.7)/2, next, 1e-9)
}

func TestOptimizeErrors(t *testing.T) {
	q, err := New(2, 3, testConfig(t))
	require.NoError(t, err)
	defer q.Close()

	states := []float64{0, 0, 0, 0}
	_, err = q.Optimize(states, []int{0}, []float64{0, 0})
	require.Error(t, err)
	_, err = q.Optimize(states, []int{0, 3}, []float64{0, 0})
	require.Error(t, err)
	_, err = q.Optimize(states[:2], []int{0, 1}, []float64{0, 0})
	require.Error(t, err)
}

func TestWeightsAreIndependent(t *testing.T) {
	c := testConfig(t)
	online, err := New(2, 3, c)
	require.NoError(t, err)
	defer online.Close()
	target, err := New(2, 3, c)
	require.NoError(t, err)
	defer target.Close()

	require.NoError(t, target.SetWeights(online.Weights()))
	before := target.Weights()

	_, err = online.Optimize([]float64{1, 1, 1, 1}, []int{0, 1},
		[]float64{10, 10})
	require.NoError(t, err)
	require.NotEqual(t, before["L1B"].RawMatrix().Data,
		online.Weights()["L1B"].RawMatrix().Data)

	after := target.Weights()
	for name, w := range before {
		require.True(t, mat.Equal(w, after[name]), name)
	}

	weights := online.Weights()
	weights["L1B"].Set(0, 0, 1000)
	require.NotEqual(t, 1000.0, online.Weights()["L1B"].At(0, 0))
}

func TestFactory(t *testing.T) {
	net, err := Factory(testConfig(t))(4, 2)
	require.NoError(t, err)
	defer net.(*QNet).Close()

	values, err := net.Predict([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.Len(t, values, 2)
}

func TestConfigJSON(t *testing.T) {
	c := testConfig(t)
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, decoded.Validate())
	require.Equal(t, c.Layers, decoded.Layers)
	require.Equal(t, c.BatchSize, decoded.BatchSize)
	require.Equal(t, solver.Vanilla, decoded.Solver.Type())
	require.Equal(t, "relu", decoded.Activations[0].String())

	invalid := []func(*Config){
		func(c *Config) { c.Biases = nil },
		func(c *Config) { c.Activations = nil },
		func(c *Config) { c.Solver = nil },
		func(c *Config) { c.InitWFn = nil },
		func(c *Config) { c.BatchSize = 0 },
	}
	for i, modify := range invalid {
		c := testConfig(t)
		modify(&c)
		require.Error(t, c.Validate(), "config %v", i)
	}
}
