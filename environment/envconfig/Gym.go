//go:build gym

package envconfig

import (
	"fmt"
	"strings"

	env "github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/environment/gym"
)

func init() {
	creators[gymPrefix] = CreateGym
}

// CreateGym is a factory for creating OpenAI Gym environments. The
// Config's Environment must be the Gym environment id prefixed by
// "Gym:".
func CreateGym(c Config, seed uint64) (env.Environment, error) {
	name := strings.TrimPrefix(string(c.Environment), string(gymPrefix))

	e, _, err := gym.New(name, c.EpisodeSteps, c.Discount, seed)
	if err != nil {
		return nil, fmt.Errorf("createGym: %v", err)
	}
	return e, nil
}
