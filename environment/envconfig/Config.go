// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"
	"strings"

	env "github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/environment/classiccontrol/acrobot"
	"github.com/samuelfneumann/godqn/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/godqn/environment/classiccontrol/mountaincar"
	"gonum.org/v1/gonum/spatial/r1"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	MountainCar EnvName = "MountainCar"
	Cartpole    EnvName = "Cartpole"
	Acrobot     EnvName = "Acrobot"
)

// TaskName stores the tasks that can be configured with this package.
// Note that not all tasks can be used with all environments. The tasks
// that can be used with each environment are as follows:
//
//	Environment			Task
//	MountainCar			Goal
//	Cartpole			Balance
//	Acrobot				SwingUp
//	Gym:<id>			(ignored)
type TaskName string

// Tasks available for configuration
const (
	Goal    TaskName = "Goal"
	Balance TaskName = "Balance"
	SwingUp TaskName = "SwingUp"
)

// creator creates an environment given a Config and a seed
type creator func(c Config, seed uint64) (env.Environment, error)

var creators = map[EnvName]creator{
	MountainCar: CreateMountainCar,
	Cartpole:    CreateCartpole,
	Acrobot:     CreateAcrobot,
}

// Config implements a specific configuration of a specific environment
// and specific task. Not all environments can have all tasks.
type Config struct {
	Environment  EnvName  `json:"environment"`
	Task         TaskName `json:"task"`
	EpisodeSteps int      `json:"episode_steps"`
	Discount     float64  `json:"discount"`
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, taskName TaskName, episodeSteps int,
	discount float64) Config {
	return Config{
		Environment:  envName,
		Task:         taskName,
		EpisodeSteps: episodeSteps,
		Discount:     discount,
	}
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if _, ok := c.creator(); !ok {
		return fmt.Errorf("validate: no such environment %v", c.Environment)
	}
	if c.EpisodeSteps < 1 {
		return fmt.Errorf("validate: episode steps must be positive "+
			"\n\twant(>0) \n\thave(%v)", c.EpisodeSteps)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1] "+
			"\n\thave(%v)", c.Discount)
	}
	return nil
}

// Create returns the environment described by the Config
func (c Config) Create(seed uint64) (env.Environment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	create, _ := c.creator()
	return create(c, seed)
}

// Factory returns a function which creates a new environment described
// by the Config each time it is called. The nth environment created is
// seeded with seed+n so that no two environments share a random
// stream.
func (c Config) Factory(seed uint64) func() (env.Environment, error) {
	var created uint64
	return func() (env.Environment, error) {
		e, err := c.Create(seed + created)
		created++
		return e, err
	}
}

func (c Config) creator() (creator, bool) {
	create, ok := creators[c.Environment]
	if !ok && strings.HasPrefix(string(c.Environment), string(gymPrefix)) {
		create, ok = creators[gymPrefix]
	}
	return create, ok
}

// gymPrefix prefixes the names of OpenAI Gym environments, for example
// "Gym:CartPole-v1". Gym environments are available only when built
// with the gym build tag.
const gymPrefix EnvName = "Gym:"

// CreateMountainCar is a factory for creating the MountainCar
// environment with default physical parameters and default task
// parameters.
func CreateMountainCar(c Config, seed uint64) (env.Environment, error) {
	position := r1.Interval{Min: -0.6, Max: -0.4}
	velocity := r1.Interval{Min: 0.0, Max: 0.0}

	s := env.NewUniformStarter([]r1.Interval{position, velocity}, seed)

	var task env.Task
	switch c.Task {
	case Goal:
		task = mountaincar.NewGoal(s, c.EpisodeSteps,
			mountaincar.GoalPosition)

	default:
		return nil, fmt.Errorf("createMountainCar: MountainCar environment "+
			"has no task %v", c.Task)
	}

	e, _, err := mountaincar.NewDiscrete(task, c.Discount)
	if err != nil {
		return nil, fmt.Errorf("createMountainCar: %v", err)
	}
	return e, nil
}

// CreateCartpole is a factory for creating the Cartpole environment
// with default physical parameters and default task parameters.
func CreateCartpole(c Config, seed uint64) (env.Environment, error) {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)

	var task env.Task
	var err error
	switch c.Task {
	case Balance:
		task, err = cartpole.NewBalance(s, c.EpisodeSteps, cartpole.FailAngle)
		if err != nil {
			return nil, fmt.Errorf("createCartpole: %v", err)
		}

	default:
		return nil, fmt.Errorf("createCartpole: Cartpole environment has "+
			"no task %v", c.Task)
	}

	e, _, err := cartpole.NewDiscrete(task, c.Discount)
	if err != nil {
		return nil, fmt.Errorf("createCartpole: %v", err)
	}
	return e, nil
}

// CreateAcrobot is a factory for creating the Acrobot environment with
// default physical parameters and default task parameters.
func CreateAcrobot(c Config, seed uint64) (env.Environment, error) {
	bounds := r1.Interval{Min: -0.1, Max: 0.1}
	s := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)

	var task env.Task
	switch c.Task {
	case SwingUp:
		task = acrobot.NewSwingUp(s, c.EpisodeSteps, acrobot.GoalHeight)

	default:
		return nil, fmt.Errorf("createAcrobot: Acrobot environment has no "+
			"task %v", c.Task)
	}

	e, _, err := acrobot.NewDiscrete(task, c.Discount)
	if err != nil {
		return nil, fmt.Errorf("createAcrobot: %v", err)
	}
	return e, nil
}
