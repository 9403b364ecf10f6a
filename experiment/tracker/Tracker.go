// Package tracker implements Trackers, which record and save the data
// generated by an experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Kind is the kind of episode a Record describes
type Kind string

const (
	Train Kind = "train"
	Eval  Kind = "eval"
)

// Record describes a single completed episode of an experiment
type Record struct {
	RunID   string
	Kind    Kind
	Episode uint64
	Step    uint64 // Training steps taken when the episode ended
	Length  int
	Return  float64
}

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished
type Tracker interface {
	Track(r Record) error
	Save() error
}

// LoadData loads and returns the data saved by a gob-encoded Tracker
func LoadData(filename string) ([]float64, error) {
	var data []float64
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadData: %v", err)
	}
	return data, nil
}

// load decodes the gob-encoded file filename into data
func load(filename string, data interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("could not open data file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("could not decode data: %v", err)
	}
	return nil
}

// save gob-encodes data into the file filename
func save(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not open save file: %v", err)
	}
	defer file.Close()

	enc := gob.NewEncoder(file)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("could not encode data: %v", err)
	}
	return file.Close()
}
