// Command godqn trains and evaluates Deep Q-Network agents on the
// classic control environments
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables supplying flag defaults
const (
	configEnv = "GODQN_CONFIG"
	dbEnv     = "GODQN_DB"
)

var logger = log.New(os.Stderr, "godqn: ", log.LstdFlags)

func main() {
	for _, envFile := range []string{".env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd := &cobra.Command{
		Use:           "godqn",
		Short:         "Train and evaluate Deep Q-Network agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newTrainCmd(), newEvaluateCmd(), newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}

// configFlag adds the --config flag, defaulting to $GODQN_CONFIG
func configFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "config", "c", os.Getenv(configEnv),
		"experiment config JSON file (default $"+configEnv+")")
}
