package tracker

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func records(runID string) []Record {
	return []Record{
		{RunID: runID, Kind: Train, Episode: 1, Step: 10, Length: 10, Return: 10},
		{RunID: runID, Kind: Train, Episode: 2, Step: 17, Length: 7, Return: 7},
		{RunID: runID, Kind: Eval, Episode: 1, Step: 17, Length: 20, Return: 20},
		{RunID: runID, Kind: Train, Episode: 3, Step: 30, Length: 13, Return: -1.5},
	}
}

func TestReturn(t *testing.T) {
	dir := t.TempDir()
	train := NewReturn(filepath.Join(dir, "train.bin"), Train)
	eval := NewReturn(filepath.Join(dir, "eval.bin"), Eval)

	for _, r := range records("run") {
		require.NoError(t, train.Track(r))
		require.NoError(t, eval.Track(r))
	}
	require.Equal(t, []float64{10, 7, -1.5}, train.Returns())
	require.NoError(t, train.Save())
	require.NoError(t, eval.Save())

	data, err := LoadData(filepath.Join(dir, "train.bin"))
	require.NoError(t, err)
	require.Equal(t, []float64{10, 7, -1.5}, data)

	data, err = LoadData(filepath.Join(dir, "eval.bin"))
	require.NoError(t, err)
	require.Equal(t, []float64{20}, data)

	_, err = LoadData(filepath.Join(dir, "missing.bin"))
	require.Error(t, err)
}

func TestEpisodeLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths.bin")
	lengths := NewEpisodeLength(filename)

	for _, r := range records("run") {
		require.NoError(t, lengths.Track(r))
	}
	require.NoError(t, lengths.Save())

	data, err := LoadLengths(filename)
	require.NoError(t, err)
	require.Equal(t, []int{10, 7, 13}, data)
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	first, second := uuid.NewString(), uuid.NewString()
	for _, id := range []string{first, second} {
		for _, r := range records(id) {
			require.NoError(t, s.Track(r))
		}
	}
	require.NoError(t, s.Save())

	train, err := s.Records(first, Train)
	require.NoError(t, err)
	require.Len(t, train, 3)
	require.Equal(t, records(first)[0], train[0])
	require.Equal(t, records(first)[3], train[2])

	eval, err := s.Records(second, Eval)
	require.NoError(t, err)
	require.Equal(t, []Record{records(second)[2]}, eval)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Equal(t, []string{first, second}, runs)

	none, err := s.Records(uuid.NewString(), Train)
	require.NoError(t, err)
	require.Empty(t, none)
}
