package graph

import (
	"context"

	"github.com/wippyai/blobspace/operator"
)

// SimpleNet runs its operators sequentially.
type SimpleNet struct {
	*base
}

// NewSimple constructs a SimpleNet. It matches Constructor.
func NewSimple(ctx context.Context, def Def, ws Workspace, ops *operator.Registry) (Net, error) {
	b, err := newBase(ctx, def, ws, ops)
	if err != nil {
		return nil, err
	}
	return &SimpleNet{base: b}, nil
}

// Run executes every operator in order, stopping at the first failure.
func (n *SimpleNet) Run(ctx context.Context) error {
	for i := range n.ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.runOp(ctx, i); err != nil {
			return err
		}
	}
	return nil
}
