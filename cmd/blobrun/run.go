package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/blobspace/plan"
)

var runSizes bool

var runCmd = &cobra.Command{
	Use:   "run <plan.yaml>",
	Short: "Execute a plan",
	Long: `Execute a plan until its steps complete or an interrupt is received.

An interrupt stops the plan before its next iteration.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runSizes, "sizes", false, "Print the blob size report after the plan finishes")
}

func runPlan(cmd *cobra.Command, args []string) error {
	p, err := plan.LoadFile(args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	sig, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws := newWorkspace()
	defer closeWorkspace(ws)

	// The plan runs on ctx so an interrupt lets the current iteration finish
	// and the predicate ends the plan cleanly.
	logger.Info("running plan", zap.String("plan", p.Name), zap.String("file", args[0]))
	if !ws.RunPlan(ctx, *p, untilDone(sig)) {
		return fmt.Errorf("plan %q failed", p.Name)
	}
	if sig.Err() != nil && ctx.Err() == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "interrupted")
	}

	if runSizes {
		return renderSizes(cmd.OutOrStdout(), ws.BlobSizes())
	}
	return nil
}

// untilDone continues a plan until stop is cancelled.
func untilDone(stop context.Context) plan.ShouldContinue {
	return func(int64) bool { return stop.Err() == nil }
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
