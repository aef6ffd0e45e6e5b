package graph

import (
	"context"

	"github.com/wippyai/blobspace/operator"
)

// DAGNet runs operators level by level. Operators within a level have no
// read/write conflicts on blobs and run concurrently on the thread pool.
type DAGNet struct {
	*base
	ws     Workspace
	levels [][]int
}

// NewDAG constructs a DAGNet. It matches Constructor.
func NewDAG(ctx context.Context, def Def, ws Workspace, ops *operator.Registry) (Net, error) {
	b, err := newBase(ctx, def, ws, ops)
	if err != nil {
		return nil, err
	}
	return &DAGNet{base: b, ws: ws, levels: buildLevels(def.Ops)}, nil
}

// Levels returns operator indices grouped by execution level.
func (n *DAGNet) Levels() [][]int {
	return n.levels
}

// Run executes each level on the workspace thread pool.
func (n *DAGNet) Run(ctx context.Context) error {
	if len(n.levels) == 0 {
		return nil
	}
	pool := n.ws.ThreadPool()
	for _, level := range n.levels {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := pool.Run(ctx, len(level), func(ctx context.Context, i int) error {
			return n.runOp(ctx, level[i])
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// buildLevels orders operators so that every read-after-write,
// write-after-write and write-after-read pair lands on increasing levels.
func buildLevels(defs []operator.Def) [][]int {
	lastWriter := make(map[string]int)
	readers := make(map[string][]int)
	depth := make([]int, len(defs))
	var levels [][]int

	for i, d := range defs {
		lvl := 0
		after := func(j int) {
			if depth[j]+1 > lvl {
				lvl = depth[j] + 1
			}
		}
		for _, in := range d.Inputs {
			if w, ok := lastWriter[in]; ok {
				after(w)
			}
		}
		for _, out := range d.Outputs {
			if w, ok := lastWriter[out]; ok {
				after(w)
			}
			for _, r := range readers[out] {
				if r != i {
					after(r)
				}
			}
		}

		depth[i] = lvl
		if lvl == len(levels) {
			levels = append(levels, nil)
		}
		levels[lvl] = append(levels[lvl], i)

		for _, in := range d.Inputs {
			readers[in] = append(readers[in], i)
		}
		for _, out := range d.Outputs {
			lastWriter[out] = i
			readers[out] = nil
		}
	}
	return levels
}
