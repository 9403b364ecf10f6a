package checkpointer

import "fmt"

// nStep implements checkpointing every N steps
type nStep struct {
	interval uint64
	last     uint64
	object   Weighted

	// filename returns the filename of the next checkpoint. To save
	// each checkpoint in a separate file with an incremented number as
	// a suffix (e.g. file1.bin, file2.bin, ..., fileK.bin), use
	// FilenameEnumerator.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints object every n
// steps.
func NewNStep(n uint64, object Weighted,
	filename func() string) (Checkpointer, error) {
	if n == 0 {
		return nil, fmt.Errorf("newNStep: checkpoint interval must be " +
			"positive")
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the weights of the tracked object if a multiple of
// n steps has been passed since the last checkpoint. Experiments which
// step in chunks may skip over exact multiples of n, so only one
// checkpoint is saved however many multiples were passed.
func (n *nStep) Checkpoint(step uint64) error {
	if step/n.interval <= n.last/n.interval {
		return nil
	}
	n.last = step

	if err := Save(n.filename(), n.object.Weights()); err != nil {
		return fmt.Errorf("checkpoint: %v", err)
	}
	return nil
}
