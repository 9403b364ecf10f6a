package solver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
)

func TestJSON(t *testing.T) {
	adam, err := NewDefaultAdam(0.01, 1)
	require.NoError(t, err)
	vanilla, err := NewVanilla(0.1, 1, 5.0)
	require.NoError(t, err)
	rmsprop, err := NewDefaultRMSProp(0.001, 1)
	require.NoError(t, err)

	for _, s := range []*Solver{adam, vanilla, rmsprop} {
		data, err := json.Marshal(s)
		require.NoError(t, err)

		var decoded Solver
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, s.Type(), decoded.Type())
		require.Equal(t, s.Config, decoded.Config)
		require.NotNil(t, decoded.Solver)
	}
}

func TestUnmarshalConfigFile(t *testing.T) {
	data := []byte(`{"type": "Adam", "config": {"step_size": 0.001,
		"epsilon": 1e-8, "beta1": 0.9, "beta2": 0.999, "batch": 1}}`)

	var s Solver
	require.NoError(t, json.Unmarshal(data, &s))
	require.Equal(t, Adam, s.Type())
	require.IsType(t, &G.AdamSolver{}, s.Solver)
}

func TestCreateReturnsFreshSolvers(t *testing.T) {
	s, err := NewDefaultAdam(0.01, 1)
	require.NoError(t, err)

	first, second := s.Create(), s.Create()
	require.NotSame(t, first, second)
}

func TestValidate(t *testing.T) {
	_, err := NewVanilla(0, 1, 0)
	require.Error(t, err)

	_, err = NewAdam(0.1, 1e-8, 1.0, 0.999, 1, 0)
	require.Error(t, err)

	_, err = NewRMSProp(0.1, 1e-8, 0.0, 1, 0)
	require.Error(t, err)

	var s Solver
	require.Error(t, json.Unmarshal([]byte(`{"type": "Vanilla",
		"config": {"step_size": -1}}`), &s))
}
