package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/wippyai/blobspace/graph"
	"github.com/wippyai/blobspace/plan"
)

var checkCmd = &cobra.Command{
	Use:   "check <plan.yaml>",
	Short: "Report net and operator types a plan uses that are not registered",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := plan.LoadFile(args[0])
	if err != nil {
		return err
	}
	problems := checkTypes(p, graph.Default)
	for _, msg := range problems {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
	if len(problems) > 0 {
		return fmt.Errorf("plan %q uses %d unregistered types", p.Name, len(problems))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "plan %s ok\n", p.Name)
	return nil
}

func checkTypes(p *plan.Def, reg *graph.Registry) []string {
	netTypes := reg.Types()
	ops := reg.Operators()

	var problems []string
	for _, n := range p.Nets {
		typ := n.Type
		if typ == "" {
			typ = graph.TypeSimple
		}
		if !slices.Contains(netTypes, typ) {
			problems = append(problems, fmt.Sprintf("net %s: unknown net type %q", n.Name, typ))
		}
		for i, od := range n.Ops {
			if !ops.Has(od.Type) {
				problems = append(problems, fmt.Sprintf("net %s: operator %d (%s): unknown operator type %q", n.Name, i, od.Label(), od.Type))
			}
		}
	}
	return problems
}
