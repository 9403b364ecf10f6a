package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/godqn/experiment"
	"github.com/samuelfneumann/godqn/experiment/tracker"
	"github.com/samuelfneumann/progressbar"
	"github.com/spf13/cobra"
)

type trainFlags struct {
	config        string
	db            string
	returns       string
	lengths       string
	checkpointDir string
}

func newTrainCmd() *cobra.Command {
	var f trainFlags

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train an agent as described by an experiment config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return train(cmd, f)
		},
	}
	configFlag(cmd, &f.config)
	cmd.Flags().StringVar(&f.db, "db", os.Getenv(dbEnv),
		"SQLite database recording each episode (default $"+dbEnv+")")
	cmd.Flags().StringVar(&f.returns, "returns", "",
		"file to save gob-encoded training returns to")
	cmd.Flags().StringVar(&f.lengths, "lengths", "",
		"file to save gob-encoded training episode lengths to")
	cmd.Flags().StringVar(&f.checkpointDir, "checkpoint-dir", "",
		"directory to save weight checkpoints to after each chunk")
	return cmd
}

func train(cmd *cobra.Command, f trainFlags) error {
	if f.config == "" {
		return fmt.Errorf("train: no config given, use --config or $%v",
			configEnv)
	}
	c, err := experiment.LoadConfig(f.config)
	if err != nil {
		return fmt.Errorf("train: %v", err)
	}

	var trackers []tracker.Tracker
	if f.db != "" {
		db, err := tracker.NewSQLite(f.db)
		if err != nil {
			return fmt.Errorf("train: %v", err)
		}
		defer db.Close()
		trackers = append(trackers, db)
	}
	if f.returns != "" {
		trackers = append(trackers, tracker.NewReturn(f.returns, tracker.Train))
	}
	if f.lengths != "" {
		trackers = append(trackers, tracker.NewEpisodeLength(f.lengths))
	}

	chunks := (c.Steps + c.Chunk - 1) / c.Chunk
	bar := progressbar.New(50, chunks, time.Second, true)

	opts := []experiment.Option{
		experiment.WithLogger(logger),
		experiment.WithProgress(func(int) { bar.Increment() }),
	}
	if f.checkpointDir != "" {
		opts = append(opts, experiment.WithCheckpointDir(f.checkpointDir))
	}

	exp, err := experiment.NewOnline(c, trackers, opts...)
	if err != nil {
		return fmt.Errorf("train: %v", err)
	}
	defer exp.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Printf("run %v: training for %v steps", exp.RunID(), c.Steps)
	bar.Display()
	runErr := exp.Run(ctx)
	bar.Close()

	// Data from an interrupted run is still saved
	if err := exp.Save(); err != nil {
		return fmt.Errorf("train: %v", err)
	}
	if runErr != nil {
		return fmt.Errorf("train: %v", runErr)
	}

	agent := exp.Agent()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%v %v\n", aurora.Bold("run:"), exp.RunID())
	fmt.Fprintf(out, "%v %v steps, %v episodes, %v updates\n",
		aurora.Bold("trained:"), agent.StepCount(), agent.EpisodeCount(),
		agent.Updates())
	fmt.Fprintf(out, "%v %v\n", aurora.Bold("score:"),
		aurora.Green(fmt.Sprintf("%.3f", agent.Score())))
	return nil
}
