package plan

import (
	"context"

	"github.com/wippyai/blobspace/blob"
	"github.com/wippyai/blobspace/graph"
)

// ShouldContinue reports whether the step should run another iteration.
type ShouldContinue func(iteration int64) bool

// AlwaysContinue never stops a plan early.
func AlwaysContinue(int64) bool { return true }

// Def declares a plan.
type Def struct {
	Name  string      `yaml:"name"`
	Nets  []graph.Def `yaml:"nets,omitempty"`
	Steps []Step      `yaml:"steps,omitempty"`
}

// Net returns the plan's net definition with the given name.
func (p *Def) Net(name string) (graph.Def, bool) {
	for _, n := range p.Nets {
		if n.Name == name {
			return n, true
		}
	}
	return graph.Def{}, false
}

// Step is one node of the execution tree.
type Step struct {
	Name               string   `yaml:"name,omitempty"`
	ShouldStopBlob     string   `yaml:"should_stop_blob,omitempty"`
	Nets               []string `yaml:"nets,omitempty"`
	Substeps           []Step   `yaml:"substeps,omitempty"`
	NumIter            int64    `yaml:"num_iter,omitempty"`
	ConcurrentSubsteps bool     `yaml:"concurrent_substeps,omitempty"`
	OnlyOnce           bool     `yaml:"only_once,omitempty"`
}

// Workspace is the execution context a plan runs against.
type Workspace interface {
	CreateNet(ctx context.Context, def graph.Def, overwrite bool) (graph.Net, error)
	GetNet(name string) (graph.Net, bool)
	RunNet(ctx context.Context, name string) bool
	GetBlob(name string) (*blob.Blob, bool)
}

// Runner executes plans.
type Runner interface {
	Run(ctx context.Context, ws Workspace, p Def, shouldContinue ShouldContinue) bool
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, ws Workspace, p Def, shouldContinue ShouldContinue) bool

func (f RunnerFunc) Run(ctx context.Context, ws Workspace, p Def, shouldContinue ShouldContinue) bool {
	return f(ctx, ws, p, shouldContinue)
}
