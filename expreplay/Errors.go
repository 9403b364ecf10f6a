package expreplay

import (
	"errors"
	"fmt"
)

var (
	errEmptyBuffer         = errors.New("buffer is empty")
	errInsufficientSamples = errors.New("insufficient samples in buffer")
)

// ExpReplayError records an error from an experience replay buffer and
// the operation that caused it.
type ExpReplayError struct {
	Op  string
	Err error
}

func (e *ExpReplayError) Error() string {
	return fmt.Sprintf("%v: %v", e.Op, e.Err)
}

func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

// IsEmptyBuffer returns whether err was caused by sampling an empty
// buffer
func IsEmptyBuffer(err error) bool {
	var e *ExpReplayError
	return errors.As(err, &e) && e.Err == errEmptyBuffer
}

// IsInsufficientSamples returns whether err was caused by sampling a
// buffer holding fewer than its minimum number of samples. An empty
// buffer also holds insufficient samples.
func IsInsufficientSamples(err error) bool {
	var e *ExpReplayError
	return errors.As(err, &e) &&
		(e.Err == errInsufficientSamples || e.Err == errEmptyBuffer)
}
