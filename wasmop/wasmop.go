package wasmop

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/blobspace/blob"
	"github.com/wippyai/blobspace/errors"
	"github.com/wippyai/blobspace/operator"
	"github.com/wippyai/blobspace/tensor"
)

// Type is the operator type name.
const Type = "WasmCall"

func init() {
	operator.MustRegister(Type, New)
}

// Call is a constructed WasmCall operator.
type Call struct {
	runtime wazero.Runtime
	fn      api.Function
	io      *operator.IO
	params  []api.ValueType
	results []api.ValueType
}

// New constructs a WasmCall operator. It matches operator.Creator.
func New(ctx context.Context, def operator.Def, ws operator.Workspace) (operator.Operator, error) {
	funcName, err := def.String("func", "")
	if err != nil || funcName == "" {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Name(def.Label()).Type(Type).Cause(err).
			Detail("argument func is required").Build()
	}

	wasm, err := moduleBytes(def, ws)
	if err != nil {
		return nil, err
	}

	io, err := operator.Bind(def, ws, -1, -1)
	if err != nil {
		return nil, err
	}

	rt := wazero.NewRuntime(ctx)
	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Load("compile module", err)
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Construction("wasm instance", def.Label(), Type, err)
	}

	fn := mod.ExportedFunction(funcName)
	if fn == nil {
		_ = rt.Close(ctx)
		return nil, errors.NotFound(errors.PhaseConstruct, "exported function", funcName)
	}

	fd := fn.Definition()
	c := &Call{
		runtime: rt,
		fn:      fn,
		io:      io,
		params:  fd.ParamTypes(),
		results: fd.ResultTypes(),
	}
	if len(io.Inputs) != len(c.params) {
		_ = rt.Close(ctx)
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Name(def.Label()).Type(Type).
			Detail("function %s takes %d params, got %d inputs", funcName, len(c.params), len(io.Inputs)).
			Build()
	}
	if len(io.Outputs) != len(c.results) {
		_ = rt.Close(ctx)
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Name(def.Label()).Type(Type).
			Detail("function %s returns %d results, got %d outputs", funcName, len(c.results), len(io.Outputs)).
			Build()
	}
	return c, nil
}

func moduleBytes(def operator.Def, ws operator.Workspace) ([]byte, error) {
	blobName, err := def.String("module", "")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConstruct, errors.KindInvalidInput, err, "argument module")
	}
	if blobName != "" {
		b, ok := ws.GetBlob(blobName)
		if !ok {
			return nil, errors.NotFound(errors.PhaseConstruct, "module blob", blobName)
		}
		wasm, ok := blob.As[[]byte](b)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseConstruct, blobName, "[]byte", b.TypeName())
		}
		return wasm, nil
	}

	path, err := def.String("path", "")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConstruct, errors.KindInvalidInput, err, "argument path")
	}
	if path == "" {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "WasmCall needs a module or path argument")
	}
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read module "+path, err)
	}
	return wasm, nil
}

// Run calls the function with the current input values.
func (c *Call) Run(ctx context.Context) error {
	params := make([]uint64, len(c.params))
	for i, vt := range c.params {
		v, err := encode(vt, c.io.Inputs[i].Get())
		if err != nil {
			return errors.New(errors.PhaseRun, errors.KindTypeMismatch).
				Name(c.io.Def.Inputs[i]).Cause(err).Build()
		}
		params[i] = v
	}

	results, err := c.fn.Call(ctx, params...)
	if err != nil {
		return errors.RunFailed("wasm function", c.fn.Definition().Name(), err)
	}
	for i, vt := range c.results {
		c.io.Outputs[i].Set(decode(vt, results[i]))
	}
	return nil
}

// Close releases the wazero runtime.
func (c *Call) Close(ctx context.Context) error {
	return c.runtime.Close(ctx)
}

func encode(vt api.ValueType, payload any) (uint64, error) {
	if t, ok := payload.(*tensor.Tensor); ok {
		if t.Size() != 1 {
			return 0, fmt.Errorf("tensor with %d elements is not a scalar", t.Size())
		}
		payload = t.Data()[0]
	}

	switch vt {
	case api.ValueTypeI32:
		n, ok := toInt(payload)
		if !ok {
			return 0, fmt.Errorf("cannot pass %T as i32", payload)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("value %d overflows i32", n)
		}
		return api.EncodeI32(int32(n)), nil
	case api.ValueTypeI64:
		n, ok := toInt(payload)
		if !ok {
			return 0, fmt.Errorf("cannot pass %T as i64", payload)
		}
		return api.EncodeI64(n), nil
	case api.ValueTypeF32:
		f, ok := toFloat(payload)
		if !ok {
			return 0, fmt.Errorf("cannot pass %T as f32", payload)
		}
		return api.EncodeF32(float32(f)), nil
	case api.ValueTypeF64:
		f, ok := toFloat(payload)
		if !ok {
			return 0, fmt.Errorf("cannot pass %T as f64", payload)
		}
		return api.EncodeF64(f), nil
	default:
		return 0, fmt.Errorf("unsupported param type %s", api.ValueTypeName(vt))
	}
}

func decode(vt api.ValueType, v uint64) any {
	switch vt {
	case api.ValueTypeI32:
		return api.DecodeI32(v)
	case api.ValueTypeI64:
		return int64(v)
	case api.ValueTypeF32:
		return api.DecodeF32(v)
	case api.ValueTypeF64:
		return api.DecodeF64(v)
	default:
		return v
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float32:
		return integral(float64(n))
	case float64:
		return integral(n)
	default:
		return 0, false
	}
}

// integral converts f when it is a whole number representable as int64.
func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
