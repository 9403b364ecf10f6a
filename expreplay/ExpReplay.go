// Package expreplay implements a fixed-capacity experience replay
// buffer
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/godqn/timestep"
)

// Config implements a specific configuration of a Buffer
type Config struct {
	Capacity    int `json:"capacity"`
	MinCapacity int `json:"min_capacity"`
	BatchSize   int `json:"batch_size"`
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if c.MinCapacity < 1 {
		return fmt.Errorf("validate: min capacity must be >= 1 "+
			"\n\thave(%v)", c.MinCapacity)
	}
	if c.Capacity < c.MinCapacity {
		return fmt.Errorf("validate: capacity (%v) cannot be less than "+
			"min capacity (%v)", c.Capacity, c.MinCapacity)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: batch size must be >= 1 \n\thave(%v)",
			c.BatchSize)
	}
	return nil
}

// Buffer implements an experience replay buffer over a ring of
// transitions. Once full, the oldest transition is overwritten first.
// Transitions are sampled uniformly randomly with replacement.
//
// Transitions are stored column-wise in flat slices so that states can
// be copied directly into a batch.
type Buffer struct {
	stateCache     []float64
	actionCache    []int
	rewardCache    []float64
	nextStateCache []float64
	terminalCache  []float64

	currentInUsePos int
	isFull          bool

	sampler Selector

	minCapacity int
	capacity    int
	featureSize int
	actions     int
}

// New creates and returns a new Buffer for transitions with
// featureSize state features and actions discrete actions.
func New(c Config, featureSize, actions int, seed uint64) (*Buffer, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if featureSize < 1 || actions < 1 {
		return nil, fmt.Errorf("new: feature size and actions must be "+
			"positive \n\thave(%v, %v)", featureSize, actions)
	}

	return &Buffer{
		stateCache:     make([]float64, c.Capacity*featureSize),
		actionCache:    make([]int, c.Capacity),
		rewardCache:    make([]float64, c.Capacity),
		nextStateCache: make([]float64, c.Capacity*featureSize),
		terminalCache:  make([]float64, c.Capacity),

		sampler: NewUniformSelector(c.BatchSize, seed),

		minCapacity: c.MinCapacity,
		capacity:    c.Capacity,
		featureSize: featureSize,
		actions:     actions,
	}, nil
}

// Add adds a transition to the buffer, overwriting the oldest
// transition if the buffer is full
func (b *Buffer) Add(t timestep.Transition) error {
	if len(t.State) != b.featureSize || len(t.NextState) != b.featureSize {
		return fmt.Errorf("add: invalid feature size \n\twant(%v)"+
			"\n\thave(%v, %v)", b.featureSize, len(t.State),
			len(t.NextState))
	}
	if t.Action < 0 || t.Action >= b.actions {
		return fmt.Errorf("add: action %v ∉ [0, %v)", t.Action, b.actions)
	}
	if t.Terminal != 0.0 && t.Terminal != 1.0 {
		return fmt.Errorf("add: terminal must be 0 or 1 \n\thave(%v)",
			t.Terminal)
	}

	index := b.currentInUsePos
	stateInd := index * b.featureSize
	copy(b.stateCache[stateInd:stateInd+b.featureSize], t.State)
	copy(b.nextStateCache[stateInd:stateInd+b.featureSize], t.NextState)

	b.actionCache[index] = t.Action
	b.rewardCache[index] = t.Reward
	b.terminalCache[index] = t.Terminal

	b.currentInUsePos++
	if b.currentInUsePos >= b.capacity {
		b.currentInUsePos = 0
		b.isFull = true
	}
	return nil
}

// Sample samples and returns a batch of transitions from the buffer.
// If the buffer holds fewer than MinCapacity() transitions, an
// *ExpReplayError is returned.
func (b *Buffer) Sample() (timestep.Batch, error) {
	if b.Len() == 0 {
		return timestep.Batch{}, &ExpReplayError{
			Op:  "sample",
			Err: errEmptyBuffer,
		}
	}
	if b.Len() < b.MinCapacity() {
		return timestep.Batch{}, &ExpReplayError{
			Op:  "sample",
			Err: errInsufficientSamples,
		}
	}

	indices := b.sampler.choose(b.Len())

	batch := timestep.Batch{
		States:     make([]float64, len(indices)*b.featureSize),
		Actions:    make([]int, len(indices)),
		Rewards:    make([]float64, len(indices)),
		NextStates: make([]float64, len(indices)*b.featureSize),
		Terminals:  make([]float64, len(indices)),
	}
	for i, index := range indices {
		batchStartInd := i * b.featureSize
		expStartInd := index * b.featureSize
		copy(batch.States[batchStartInd:batchStartInd+b.featureSize],
			b.stateCache[expStartInd:expStartInd+b.featureSize])
		copy(batch.NextStates[batchStartInd:batchStartInd+b.featureSize],
			b.nextStateCache[expStartInd:expStartInd+b.featureSize])

		batch.Actions[i] = b.actionCache[index]
		batch.Rewards[i] = b.rewardCache[index]
		batch.Terminals[i] = b.terminalCache[index]
	}
	return batch, nil
}

// Len returns the current number of transitions in the buffer
func (b *Buffer) Len() int {
	if b.isFull {
		return b.capacity
	}
	return b.currentInUsePos
}

// Capacity returns the maximum number of transitions in the buffer
func (b *Buffer) Capacity() int {
	return b.capacity
}

// MinCapacity returns the number of transitions required to be in the
// buffer before the buffer can be sampled
func (b *Buffer) MinCapacity() int {
	return b.minCapacity
}

// BatchSize returns the number of transitions returned by Sample()
func (b *Buffer) BatchSize() int {
	return b.sampler.BatchSize()
}

// String returns the string representation of the buffer
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer | Len: %v  |  Capacity: %v  |  "+
		"Min Capacity: %v  |  Batch Size: %v", b.Len(), b.capacity,
		b.minCapacity, b.BatchSize())
}
