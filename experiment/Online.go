package experiment

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/samuelfneumann/godqn/agent/dqn"
	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/samuelfneumann/godqn/experiment/tracker"
)

// Online is an Experiment that trains an agent online, evaluating the
// agent's greedy policy after every chunk of training steps.
type Online struct {
	agent         *dqn.Agent
	runID         string
	config        Config
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	checkpointDir string
	logger        *log.Logger

	// progress is called after each chunk with the number of training
	// steps taken in the chunk
	progress func(steps int)

	evalEpisodes uint64
	trackErr     error
}

// Option configures an Online experiment
type Option func(*Online)

// WithLogger sets the logger of the experiment and its agent
func WithLogger(l *log.Logger) Option {
	return func(o *Online) {
		o.logger = l
	}
}

// WithProgress sets a function which is called after each chunk of
// training with the number of steps taken in the chunk
func WithProgress(f func(steps int)) Option {
	return func(o *Online) {
		o.progress = f
	}
}

// WithCheckpointDir checkpoints the online network weights into dir
// after every chunk of training
func WithCheckpointDir(dir string) Option {
	return func(o *Online) {
		o.checkpointDir = dir
	}
}

// NewOnline creates and returns a new online experiment described by
// c. Every completed training and evaluation episode is sent to each
// Tracker in t.
func NewOnline(c Config, t []tracker.Tracker, opts ...Option) (*Online,
	error) {
	o := &Online{
		runID:    uuid.NewString(),
		config:   c,
		trackers: t,
		logger:   log.New(log.Writer(), "", log.LstdFlags),
		progress: func(int) {},
	}
	for _, opt := range opts {
		opt(o)
	}

	agent, err := c.NewAgent(
		dqn.WithLogger(o.logger),
		dqn.WithEpisodeHook(o.trackTrain),
	)
	if err != nil {
		return nil, fmt.Errorf("newOnline: %v", err)
	}
	o.agent = agent

	if o.checkpointDir != "" {
		o.checkpointers, err = Checkpointers(agent, o.checkpointDir,
			uint64(c.Chunk))
		if err != nil {
			agent.Close()
			return nil, fmt.Errorf("newOnline: %v", err)
		}
	}
	return o, nil
}

// RunID returns the unique id of the experiment run
func (o *Online) RunID() string {
	return o.runID
}

// Agent returns the agent trained by the experiment
func (o *Online) Agent() *dqn.Agent {
	return o.agent
}

// Register registers a Tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Run trains the agent for the configured number of steps in chunks.
// After each chunk the agent is checkpointed and evaluated. Cancelling
// ctx stops the experiment at the next chunk boundary.
func (o *Online) Run(ctx context.Context) error {
	for int(o.agent.StepCount()) < o.config.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run: %v", err)
		}

		steps := o.config.Chunk
		if remaining := o.config.Steps - int(o.agent.StepCount()); remaining < steps {
			steps = remaining
		}
		if err := o.agent.Step(steps); err != nil {
			return fmt.Errorf("run: %v", err)
		}
		if o.trackErr != nil {
			return fmt.Errorf("run: %v", o.trackErr)
		}

		for _, c := range o.checkpointers {
			if err := c.Checkpoint(o.agent.StepCount()); err != nil {
				return fmt.Errorf("run: %v", err)
			}
		}

		if err := o.evaluate(); err != nil {
			return fmt.Errorf("run: %v", err)
		}
		o.progress(steps)
	}
	return nil
}

// evaluate runs the configured number of evaluation episodes and
// tracks their returns
func (o *Online) evaluate() error {
	if o.config.EvalEpisodes == 0 {
		return nil
	}

	returns, err := o.agent.EvaluateN(o.config.EvalEpisodes)
	if err != nil {
		return err
	}

	for _, ret := range returns {
		o.evalEpisodes++
		err := o.track(tracker.Record{
			RunID:   o.runID,
			Kind:    tracker.Eval,
			Episode: o.evalEpisodes,
			Step:    o.agent.StepCount(),
			Return:  ret,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// trackTrain tracks a completed training episode
func (o *Online) trackTrain(e dqn.Episode) {
	err := o.track(tracker.Record{
		RunID:   o.runID,
		Kind:    tracker.Train,
		Episode: e.Number,
		Step:    e.StepCount,
		Length:  e.Steps,
		Return:  e.Return,
	})
	if err != nil && o.trackErr == nil {
		o.trackErr = err
	}
}

// track sends r to each Tracker
func (o *Online) track(r tracker.Record) error {
	for _, t := range o.trackers {
		if err := t.Track(r); err != nil {
			return fmt.Errorf("track: %v", err)
		}
	}
	return nil
}

// Save saves the data cached by each Tracker
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// Close releases the agent
func (o *Online) Close() error {
	return o.agent.Close()
}
