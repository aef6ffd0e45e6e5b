package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/blobspace/plan"
)

var netSizes bool

var netCmd = &cobra.Command{
	Use:   "net <plan.yaml> <net>",
	Short: "Run a single net from a plan file once",
	Args:  cobra.ExactArgs(2),
	RunE:  runNet,
}

func init() {
	rootCmd.AddCommand(netCmd)
	netCmd.Flags().BoolVar(&netSizes, "sizes", false, "Print the blob size report after the run")
}

func runNet(cmd *cobra.Command, args []string) error {
	p, err := plan.LoadFile(args[0])
	if err != nil {
		return err
	}
	def, ok := p.Net(args[1])
	if !ok {
		return fmt.Errorf("plan %q has no net %q", p.Name, args[1])
	}

	ws := newWorkspace()
	defer closeWorkspace(ws)

	ok, err = ws.RunNetOnce(commandContext(cmd), def)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("net %q failed", def.Name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "net %s ok\n", def.Name)

	if netSizes {
		return renderSizes(cmd.OutOrStdout(), ws.BlobSizes())
	}
	return nil
}
