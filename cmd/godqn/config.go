package main

import (
	"encoding/json"
	"fmt"

	"github.com/samuelfneumann/godqn/experiment"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default experiment config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := experiment.DefaultConfig()
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(c, "", "\t")
			if err != nil {
				return fmt.Errorf("config: %v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
