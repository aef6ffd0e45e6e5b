// Package workspace provides the scoped execution environment that owns
// blobs and nets and dispatches their execution.
//
// # Quick Start
//
//	ws := workspace.New()
//	defer ws.Close(ctx)
//
//	// Populate blobs
//	ws.CreateBlob("x").Set(tensor.New(2, 3))
//
//	// Register and run a net
//	if _, err := ws.CreateNet(ctx, graph.Def{Name: "train", Ops: ops}, false); err != nil {
//	    log.Fatal(err)
//	}
//	ok := ws.RunNet(ctx, "train")
//
//	// Or run a plan
//	ok = ws.RunPlan(ctx, planDef, nil)
//
// # Parent Workspaces
//
// A workspace created WithParent sees the parent's blobs when it has no
// local blob of the same name. The parent is never modified through the
// child: CreateBlob, RemoveBlob and net registration act on the child only,
// and nets are never inherited. The parent must outlive the child.
//
//	shared := workspace.New()
//	shared.CreateBlob("weights")
//
//	child := workspace.New(workspace.WithParent(shared))
//	b, _ := child.GetBlob("weights") // the parent's blob
//
// # Failure Reporting
//
// Each dispatch call has its own contract:
//
//	CreateNet        error on missing name, duplicate name or failed construction
//	RunNet           false on unregistered name or run failure
//	RunNetOnce       error on failed construction, false on run failure
//	RunOperatorOnce  false on failed construction or run failure
//	RunPlan          whatever the plan runner reports
//
// Soft failures are logged through zap. Lookups that miss (GetBlob, GetNet,
// RemoveBlob, DeleteNet) are not errors.
//
// # Thread Safety
//
// Blob and net registration is NOT thread-safe; callers serialize it.
// ThreadPool is safe for concurrent use. Read-only lookups, including
// fallthrough into a parent, may run concurrently with other readers.
package workspace
