// Package operator provides the operator construction service.
//
// An operator is the smallest unit of computation: it reads input blobs and
// writes output blobs of a workspace. Operators are built from a Def by a
// Creator registered under the operator type:
//
//	operator.MustRegister("Relu", func(ctx context.Context, def operator.Def, ws operator.Workspace) (operator.Operator, error) {
//	    io, err := operator.Bind(def, ws, 1, 1)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &relu{io: io}, nil
//	})
//
// Creators resolve input blobs and create output blobs at construction time.
// Run never touches the workspace blob map, so operators of one net can run
// concurrently as long as they write distinct blobs.
//
// Unknown types are reported with errors.KindUnknownType; a missing input
// blob with errors.KindNotFound.
//
// # Builtin Operators
//
//	ConstantFill  outputs: 1     args: shape ([]int), value (float)
//	Add           inputs: 2+     elementwise sum into one output
//	Scale         inputs: 1      args: scale (float)
//	Copy          inputs: 1      output owns a copy
//	Alias         inputs: 1      output shares the input storage
//	Free          outputs: 1+    resets every output blob
//	StopIf        inputs: 1      args: threshold; writes bool output
package operator
