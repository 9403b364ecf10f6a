package expreplay

import (
	"testing"

	"github.com/samuelfneumann/godqn/timestep"
	"github.com/stretchr/testify/require"
)

// transition returns a transition whose every field encodes i
func transition(i int) timestep.Transition {
	return timestep.Transition{
		State:     []float64{float64(i), float64(i)},
		Action:    i % 3,
		Reward:    float64(i),
		NextState: []float64{float64(i + 1), float64(i + 1)},
		Terminal:  float64(i % 2),
	}
}

func TestSampleGating(t *testing.T) {
	b, err := New(Config{Capacity: 10, MinCapacity: 3, BatchSize: 4}, 2, 3, 1)
	require.NoError(t, err)

	_, err = b.Sample()
	require.True(t, IsEmptyBuffer(err))
	require.True(t, IsInsufficientSamples(err))

	for i := 0; i < 2; i++ {
		require.NoError(t, b.Add(transition(i)))
	}
	_, err = b.Sample()
	require.False(t, IsEmptyBuffer(err))
	require.True(t, IsInsufficientSamples(err))

	require.NoError(t, b.Add(transition(2)))
	batch, err := b.Sample()
	require.NoError(t, err)
	require.Equal(t, 4, batch.Size())
	require.Len(t, batch.States, 8)
	require.Len(t, batch.NextStates, 8)
}

func TestSampledTransitionsAreConsistent(t *testing.T) {
	b, err := New(Config{Capacity: 5, MinCapacity: 1, BatchSize: 32}, 2, 3, 7)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, b.Add(transition(i)))
	}

	batch, err := b.Sample()
	require.NoError(t, err)
	for i := 0; i < batch.Size(); i++ {
		want := transition(int(batch.Rewards[i]))
		require.Equal(t, want.State, batch.States[2*i:2*i+2])
		require.Equal(t, want.NextState, batch.NextStates[2*i:2*i+2])
		require.Equal(t, want.Action, batch.Actions[i])
		require.Equal(t, want.Terminal, batch.Terminals[i])
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	b, err := New(Config{Capacity: 3, MinCapacity: 1, BatchSize: 64}, 2, 3, 3)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Add(transition(i)))
	}
	require.Equal(t, 3, b.Len())
	require.Equal(t, 3, b.Capacity())

	batch, err := b.Sample()
	require.NoError(t, err)
	for _, r := range batch.Rewards {
		require.GreaterOrEqual(t, r, 2.0, "transition %v was not "+
			"overwritten", r)
	}
}

func TestAddRejectsMalformedTransitions(t *testing.T) {
	b, err := New(Config{Capacity: 3, MinCapacity: 1, BatchSize: 1}, 2, 3, 3)
	require.NoError(t, err)

	bad := []timestep.Transition{
		{State: []float64{1}, NextState: []float64{1, 2}},
		{State: []float64{1, 2}, NextState: []float64{1, 2, 3}},
		{State: []float64{1, 2}, NextState: []float64{1, 2}, Action: 3},
		{State: []float64{1, 2}, NextState: []float64{1, 2}, Action: -1},
		{State: []float64{1, 2}, NextState: []float64{1, 2}, Terminal: 0.5},
	}
	for i, tr := range bad {
		require.Error(t, b.Add(tr), "transition %v", i)
	}
	require.Equal(t, 0, b.Len())
}

func TestNewValidates(t *testing.T) {
	configs := []Config{
		{Capacity: 10, MinCapacity: 0, BatchSize: 1},
		{Capacity: 2, MinCapacity: 3, BatchSize: 1},
		{Capacity: 10, MinCapacity: 3, BatchSize: 0},
	}
	for _, c := range configs {
		_, err := New(c, 2, 3, 1)
		require.Error(t, err, "config %+v", c)
	}
}
