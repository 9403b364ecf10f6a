package tracker

import "fmt"

// EpisodeLength tracks and saves the lengths of training episodes in
// an experiment
type EpisodeLength struct {
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track caches the length of the training episode described by r
func (e *EpisodeLength) Track(r Record) error {
	if r.Kind == Train {
		e.episodeLengths = append(e.episodeLengths, r.Length)
	}
	return nil
}

// Save gob-encodes the tracked episode lengths to disk
func (e *EpisodeLength) Save() error {
	if err := save(e.filename, e.episodeLengths); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// LoadLengths loads and returns the episode lengths saved by an
// EpisodeLength Tracker
func LoadLengths(filename string) ([]int, error) {
	var data []int
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadLengths: %v", err)
	}
	return data, nil
}
