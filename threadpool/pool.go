package threadpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool runs batches of tasks with bounded parallelism.
type Pool struct {
	size int
}

// New creates a pool running at most size tasks at once. size < 1 is treated as 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size}
}

// Size returns the fixed number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Run calls fn for every index in [0, n) and returns the first error.
// After a failure the context passed to remaining tasks is cancelled and
// tasks that have not started are skipped.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if n == 1 || p.size == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Go runs the given tasks on the pool and returns the first error.
func (p *Pool) Go(ctx context.Context, tasks ...func(context.Context) error) error {
	return p.Run(ctx, len(tasks), func(ctx context.Context, i int) error {
		return tasks[i](ctx)
	})
}
