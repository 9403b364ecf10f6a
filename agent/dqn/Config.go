package dqn

import "fmt"

// Config implements a configuration of a DQN Agent
type Config struct {
	MaxEpsilon float64 `json:"max_epsilon"`
	MinEpsilon float64 `json:"min_epsilon"`

	// DecaySteps is the number of exploration decisions over which ε
	// decays linearly from MaxEpsilon to MinEpsilon
	DecaySteps int `json:"decay_steps"`

	Gamma float64 `json:"gamma"`

	// TargetUpdateRate is the number of steps between target network
	// synchronizations
	TargetUpdateRate int `json:"target_update_rate"`

	// MinBuffer is the number of transitions the buffer must hold
	// before updates begin
	MinBuffer int `json:"min_buffer"`
}

// DefaultConfig returns a Config with commonly used hyperparameters
func DefaultConfig() Config {
	return Config{
		MaxEpsilon:       1.0,
		MinEpsilon:       0.01,
		DecaySteps:       10_000,
		Gamma:            0.99,
		TargetUpdateRate: 500,
		MinBuffer:        1_000,
	}
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if c.MaxEpsilon < 0 || c.MaxEpsilon > 1 {
		return fmt.Errorf("validate: max epsilon must be in [0, 1] "+
			"\n\thave(%v)", c.MaxEpsilon)
	}
	if c.MinEpsilon < 0 || c.MinEpsilon > 1 {
		return fmt.Errorf("validate: min epsilon must be in [0, 1] "+
			"\n\thave(%v)", c.MinEpsilon)
	}
	if c.MinEpsilon > c.MaxEpsilon {
		return fmt.Errorf("validate: min epsilon (%v) cannot exceed max "+
			"epsilon (%v)", c.MinEpsilon, c.MaxEpsilon)
	}
	if c.DecaySteps <= 0 {
		return fmt.Errorf("validate: decay steps must be positive "+
			"\n\thave(%v)", c.DecaySteps)
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in (0, 1] \n\thave(%v)",
			c.Gamma)
	}
	if c.TargetUpdateRate < 1 {
		return fmt.Errorf("validate: target update rate must be positive "+
			"\n\thave(%v)", c.TargetUpdateRate)
	}
	if c.MinBuffer < 1 {
		return fmt.Errorf("validate: min buffer must be positive "+
			"\n\thave(%v)", c.MinBuffer)
	}
	return nil
}
