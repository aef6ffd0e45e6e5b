// Package threadpool provides the bounded worker pool used by nets and plans.
//
// A Pool has a fixed size chosen at construction. Work is submitted as a
// batch and the call blocks until every task returns:
//
//	pool := threadpool.New(4)
//	err := pool.Run(ctx, len(ops), func(ctx context.Context, i int) error {
//	    return ops[i].Run(ctx)
//	})
//
// # Sizing
//
// NumThreads derives the size from the core count. On mobile platforms the
// count may be capped to leave cores for the rest of the device:
//
//	cores   capped threads
//	<=3     unchanged
//	4-5     3
//	>5      cores / 2
//
// CapEnabled decides whether the cap applies for a GOOS. Desktop and server
// platforms never cap.
//
// # Lazy Construction
//
// Provider builds the pool on first use. Concurrent first callers wait for
// the winner and all receive the same Pool.
package threadpool
