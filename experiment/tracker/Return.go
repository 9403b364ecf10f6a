package tracker

import "fmt"

// Return tracks and saves the episodic returns of one Kind of episode
// in an experiment
type Return struct {
	kind           Kind
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker which tracks
// episodes of kind kind and saves their returns to filename
func NewReturn(filename string, kind Kind) *Return {
	return &Return{
		kind:     kind,
		filename: filename,
	}
}

// Track caches the return of the episode described by r if it is of
// the tracked Kind
func (o *Return) Track(r Record) error {
	if r.Kind == o.kind {
		o.episodeReturns = append(o.episodeReturns, r.Return)
	}
	return nil
}

// Returns returns the tracked returns
func (o *Return) Returns() []float64 {
	return append([]float64{}, o.episodeReturns...)
}

// Save gob-encodes the tracked returns to disk
func (o *Return) Save() error {
	if err := save(o.filename, o.episodeReturns); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
