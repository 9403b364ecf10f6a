package main

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/godqn/experiment"
	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

func newEvaluateCmd() *cobra.Command {
	var (
		config   string
		weights  string
		episodes int
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the greedy policy of a checkpointed agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config == "" || weights == "" {
				return fmt.Errorf("evaluate: --config and --weights are " +
					"required")
			}
			if episodes < 1 {
				return fmt.Errorf("evaluate: episodes must be positive")
			}

			c, err := experiment.LoadConfig(config)
			if err != nil {
				return fmt.Errorf("evaluate: %v", err)
			}
			w, err := checkpointer.Load(weights)
			if err != nil {
				return fmt.Errorf("evaluate: %v", err)
			}

			agent, err := c.NewAgent()
			if err != nil {
				return fmt.Errorf("evaluate: %v", err)
			}
			defer agent.Close()
			if err := agent.Restore(w); err != nil {
				return fmt.Errorf("evaluate: %v", err)
			}

			returns, err := agent.EvaluateN(episodes)
			if err != nil {
				return fmt.Errorf("evaluate: %v", err)
			}

			out := cmd.OutOrStdout()
			for i, ret := range returns {
				fmt.Fprintf(out, "episode %v: %.3f\n", i+1, ret)
			}
			mean, std := stat.MeanStdDev(returns, nil)
			if episodes == 1 {
				std = 0
			}
			fmt.Fprintf(out, "%v %v ± %.3f\n", aurora.Bold("mean return:"),
				aurora.Green(fmt.Sprintf("%.3f", mean)), std)
			return nil
		},
	}
	configFlag(cmd, &config)
	cmd.Flags().StringVarP(&weights, "weights", "w", "",
		"gob-encoded weight checkpoint")
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 10,
		"number of evaluation episodes")
	return cmd
}
