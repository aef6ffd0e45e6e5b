// Package wasmop provides the WasmCall operator, which runs an exported
// function of a core WebAssembly module on scalar blobs.
//
// Importing the package registers the operator with operator.Default:
//
//	import _ "github.com/wippyai/blobspace/wasmop"
//
//	ws.RunOperatorOnce(ctx, operator.Def{
//	    Type:    "WasmCall",
//	    Inputs:  []string{"a", "b"},
//	    Outputs: []string{"sum"},
//	    Args:    map[string]any{"path": "add.wasm", "func": "add"},
//	})
//
// # Arguments
//
//	func    exported function name (required)
//	module  name of a blob holding the module bytes ([]byte)
//	path    module file, used when module is not set
//
// # Value Mapping
//
// Each input blob feeds one parameter, converted to the parameter type:
//
//	WASM type   accepted payloads
//	────────────────────────────────────────────────────────
//	i32, i64    int, int32, int64, single-element tensor
//	f32, f64    float32, float64, ints, single-element tensor
//
// Each result is written to the matching output blob as int32, int64,
// float32 or float64.
//
// # Resources
//
// Every operator owns a wazero runtime holding the compiled and instantiated
// module. The runtime is released when the operator is closed; workspaces
// close transient operators and nets on return or removal.
package wasmop
