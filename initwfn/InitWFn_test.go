package initwfn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func TestJSON(t *testing.T) {
	glorot, err := NewGlorotU(1.0)
	require.NoError(t, err)
	he, err := NewHeN(2.0)
	require.NoError(t, err)
	zeroes, err := NewZeroes()
	require.NoError(t, err)
	constant, err := NewConstant(0.5)
	require.NoError(t, err)

	for _, init := range []*InitWFn{glorot, he, zeroes, constant} {
		data, err := json.Marshal(init)
		require.NoError(t, err)

		var decoded InitWFn
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, init.Config, decoded.Config)
		require.NotNil(t, decoded.InitWFn())
	}
}

func TestCreate(t *testing.T) {
	var init InitWFn
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type": "Constant", "config": {"value": 0.25}}`), &init))

	values := init.InitWFn()(tensor.Float64, 2, 3)
	require.Equal(t, []float64{0.25, 0.25, 0.25, 0.25, 0.25, 0.25},
		values.([]float64))

	zeroes, err := NewZeroes()
	require.NoError(t, err)
	require.Equal(t, make([]float64, 4),
		zeroes.InitWFn()(G.Float64, 4).([]float64))
}

func TestUnknownType(t *testing.T) {
	var init InitWFn
	require.Error(t, json.Unmarshal([]byte(`{"type": "Xavier"}`), &init))
}
