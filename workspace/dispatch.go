package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/blobspace/errors"
	"github.com/wippyai/blobspace/graph"
	"github.com/wippyai/blobspace/operator"
	"github.com/wippyai/blobspace/plan"
)

// RunNet runs the registered net called name. It returns false when no such
// net exists or the run fails.
func (w *Workspace) RunNet(ctx context.Context, name string) bool {
	n, ok := w.nets[name]
	if !ok {
		w.logger.Error("net does not exist yet", zap.String("net", name))
		return false
	}
	if err := n.Run(ctx); err != nil {
		w.logger.Error("running net", zap.String("net", name), zap.Error(err))
		return false
	}
	return true
}

// RunNetOnce constructs def, runs it once and releases it. The net is never
// registered. Construction failure is returned as an error; run failure is
// reported as false.
func (w *Workspace) RunNetOnce(ctx context.Context, def graph.Def) (bool, error) {
	n, err := w.netReg.Create(ctx, def, w)
	if err != nil {
		return false, errors.Construction("net", def.Name, def.Type, err)
	}
	defer w.closeTransient(ctx, def.Name, n)

	if err := n.Run(ctx); err != nil {
		w.logger.Error("running transient net", zap.String("net", def.Name), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (w *Workspace) closeTransient(ctx context.Context, name string, n graph.Net) {
	if err := graph.CloseNet(ctx, n); err != nil {
		w.logger.Warn("closing transient net", zap.String("net", name), zap.Error(err))
	}
}

// RunOperatorOnce constructs def, runs it once and releases it. It returns
// false when construction or the run fails.
func (w *Workspace) RunOperatorOnce(ctx context.Context, def operator.Def) bool {
	op, err := w.opReg.Create(ctx, def, w)
	if err != nil {
		w.logger.Error("creating operator", zap.String("op", def.Label()), zap.Error(err))
		return false
	}
	defer func() {
		if err := operator.CloseOperator(ctx, op); err != nil {
			w.logger.Warn("closing operator", zap.String("op", def.Label()), zap.Error(err))
		}
	}()

	if err := op.Run(ctx); err != nil {
		w.logger.Error("running operator", zap.String("op", def.Label()), zap.Error(err))
		return false
	}
	return true
}

// RunPlan executes p against the workspace. A nil shouldContinue never stops
// the plan early.
func (w *Workspace) RunPlan(ctx context.Context, p plan.Def, shouldContinue plan.ShouldContinue) bool {
	if shouldContinue == nil {
		shouldContinue = plan.AlwaysContinue
	}
	return w.planner.Run(ctx, w, p, shouldContinue)
}

var (
	_ graph.Workspace    = (*Workspace)(nil)
	_ operator.Workspace = (*Workspace)(nil)
	_ plan.Workspace     = (*Workspace)(nil)
)
