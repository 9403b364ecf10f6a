// Package checkpointer implements periodic snapshots of network
// weights during an experiment
package checkpointer

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Weighted is an object whose weights can be checkpointed
type Weighted interface {
	Weights() map[string]*mat.Dense
}

// Checkpointer checkpoints Weighted objects based on the number of
// steps taken in an experiment
type Checkpointer interface {
	Checkpoint(step uint64) error
}

// Save gob-encodes weights into the file filename
func Save(filename string, weights map[string]*mat.Dense) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create checkpoint: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(weights); err != nil {
		return fmt.Errorf("save: could not encode weights: %v", err)
	}
	return file.Close()
}

// Load loads and returns the weights saved in the file filename
func Load(filename string) (map[string]*mat.Dense, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load: could not open checkpoint: %v", err)
	}
	defer file.Close()

	var weights map[string]*mat.Dense
	if err := gob.NewDecoder(file).Decode(&weights); err != nil {
		return nil, fmt.Errorf("load: could not decode weights: %v", err)
	}
	return weights, nil
}
