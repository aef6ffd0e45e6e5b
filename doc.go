// Package blobspace is a scoped execution environment for dataflow
// computations: named, type-erased blobs, nets of operators that read and
// write them, and plans that drive nets in nested, conditional loops.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	blobspace/
//	├── workspace/       Blob and net registry, dispatch, diagnostics
//	├── blob/            Type-erased value container and shape capability
//	├── tensor/          Float32 tensor payload with shared storage
//	├── operator/        Operator definitions, registry and builtin operators
//	├── wasmop/          WasmCall operator backed by wazero
//	├── graph/           Net definitions and the simple and dag executors
//	├── plan/            Plan definitions, YAML loading and the step executor
//	├── threadpool/      Lazily built worker pool with mobile sizing rules
//	├── config/          TOML and environment configuration
//	├── errors/          Structured error types
//	└── cmd/blobrun/     Command line runner and interactive inspector
//
// # Quick Start
//
//	ws := workspace.New()
//	defer ws.Close(ctx)
//
//	_, err := ws.CreateNet(ctx, graph.Def{
//	    Name: "init",
//	    Ops: []operator.Def{
//	        {Type: "ConstantFill", Outputs: []string{"x"}, Args: map[string]any{"value": 1.0}},
//	    },
//	}, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ws.RunNet(ctx, "init")
//
// Plans are usually loaded from YAML:
//
//	p, err := plan.LoadFile("train.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok := ws.RunPlan(ctx, *p, nil)
//
// # Blobs and Shapes
//
// A blob holds any Go value. Payload types that describe their storage
// register a shape function with blob.RegisterShapeFunc; only those blobs
// appear in workspace size reports. Tensors register themselves.
//
// # Thread Safety
//
// Workspace registration is NOT thread-safe and should be driven by a single
// goroutine. The thread pool is safe for concurrent use and is what the dag
// net and concurrent plan steps run on.
package blobspace
