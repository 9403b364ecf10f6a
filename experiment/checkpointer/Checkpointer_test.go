package checkpointer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type constantWeights map[string]*mat.Dense

func (c constantWeights) Weights() map[string]*mat.Dense {
	return c
}

func testWeights() constantWeights {
	return constantWeights{
		"L0W": mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
		"L0B": mat.NewDense(1, 3, []float64{-1, 0, 1}),
	}
}

func TestSaveLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "weights.bin")
	weights := testWeights()

	require.NoError(t, Save(filename, weights))
	loaded, err := Load(filename)
	require.NoError(t, err)

	require.Len(t, loaded, len(weights))
	for name, w := range weights {
		require.True(t, mat.Equal(w, loaded[name]), name)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}

func TestFilenameEnumerator(t *testing.T) {
	next := FilenameEnumerator(0, "dir/weights", ".bin")
	require.Equal(t, "dir/weights1.bin", next())
	require.Equal(t, "dir/weights2.bin", next())
}

func TestNStep(t *testing.T) {
	dir := t.TempDir()
	c, err := NewNStep(10, testWeights(),
		FilenameEnumerator(0, filepath.Join(dir, "weights"), ".bin"))
	require.NoError(t, err)

	for _, step := range []uint64{5, 9, 10, 12, 19, 35, 39} {
		require.NoError(t, c.Checkpoint(step))
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	loaded, err := Load(filepath.Join(dir, "weights2.bin"))
	require.NoError(t, err)
	require.True(t, mat.Equal(testWeights()["L0W"], loaded["L0W"]))

	_, err = NewNStep(0, testWeights(), nil)
	require.Error(t, err)
}
