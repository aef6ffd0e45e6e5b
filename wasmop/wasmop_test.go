package wasmop

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/blobspace/blob"
	"github.com/wippyai/blobspace/errors"
	"github.com/wippyai/blobspace/operator"
	"github.com/wippyai/blobspace/tensor"
)

// (module (func (export "add") (param i32 i32) (result i32)
//
//	local.get 0 local.get 1 i32.add))
var addWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
}

type mapWorkspace map[string]*blob.Blob

func (m mapWorkspace) GetBlob(name string) (*blob.Blob, bool) {
	b, ok := m[name]
	return b, ok
}

func (m mapWorkspace) CreateBlob(name string) *blob.Blob {
	if b, ok := m[name]; ok {
		return b
	}
	b := blob.New()
	m[name] = b
	return b
}

func TestWasmCall_FromBlob(t *testing.T) {
	ctx := context.Background()
	ws := mapWorkspace{}
	ws.CreateBlob("mod").Set(addWasm)
	ws.CreateBlob("a").Set(int32(2))
	ws.CreateBlob("b").Set(tensor.Scalar(3))

	op, err := operator.Default.Create(ctx, operator.Def{
		Type:    Type,
		Inputs:  []string{"a", "b"},
		Outputs: []string{"sum"},
		Args:    map[string]any{"module": "mod", "func": "add"},
	}, ws)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer operator.CloseOperator(ctx, op)

	if err := op.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	sum, ok := blob.As[int32](ws["sum"])
	if !ok || sum != 5 {
		t.Fatalf("sum = %v (%s), want int32 5", ws["sum"].Get(), ws["sum"].TypeName())
	}

	ws["a"].Set(int64(40))
	if err := op.Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum, _ := blob.As[int32](ws["sum"]); sum != 43 {
		t.Errorf("sum = %d, want 43", sum)
	}
}

func TestWasmCall_FromPath(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "add.wasm")
	if err := os.WriteFile(path, addWasm, 0o644); err != nil {
		t.Fatalf("write wasm: %v", err)
	}

	ws := mapWorkspace{}
	ws.CreateBlob("a").Set(1)
	ws.CreateBlob("b").Set(1)
	op, err := New(ctx, operator.Def{
		Type:    Type,
		Inputs:  []string{"a", "b"},
		Outputs: []string{"sum"},
		Args:    map[string]any{"path": path, "func": "add"},
	}, ws)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer operator.CloseOperator(ctx, op)

	if err := op.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum, _ := blob.As[int32](ws["sum"]); sum != 2 {
		t.Errorf("sum = %d, want 2", sum)
	}
}

func TestWasmCall_ConstructionErrors(t *testing.T) {
	ctx := context.Background()
	ws := mapWorkspace{}
	ws.CreateBlob("mod").Set(addWasm)
	ws.CreateBlob("a").Set(int32(1))
	ws.CreateBlob("text").Set("not wasm")

	tests := []struct {
		name string
		def  operator.Def
		kind errors.Kind
	}{
		{
			name: "missing func",
			def:  operator.Def{Type: Type, Args: map[string]any{"module": "mod"}},
			kind: errors.KindInvalidInput,
		},
		{
			name: "missing export",
			def:  operator.Def{Type: Type, Args: map[string]any{"module": "mod", "func": "mul"}},
			kind: errors.KindNotFound,
		},
		{
			name: "arity mismatch",
			def:  operator.Def{Type: Type, Inputs: []string{"a"}, Outputs: []string{"o"}, Args: map[string]any{"module": "mod", "func": "add"}},
			kind: errors.KindInvalidInput,
		},
		{
			name: "module blob of wrong type",
			def:  operator.Def{Type: Type, Args: map[string]any{"module": "text", "func": "add"}},
			kind: errors.KindTypeMismatch,
		},
		{
			name: "no module source",
			def:  operator.Def{Type: Type, Args: map[string]any{"func": "add"}},
			kind: errors.KindInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, tt.def, ws)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestWasmCall_BadInputPayload(t *testing.T) {
	ctx := context.Background()
	ws := mapWorkspace{}
	ws.CreateBlob("mod").Set(addWasm)
	ws.CreateBlob("a").Set("two")
	ws.CreateBlob("b").Set(int32(3))

	op, err := New(ctx, operator.Def{
		Type:    Type,
		Inputs:  []string{"a", "b"},
		Outputs: []string{"sum"},
		Args:    map[string]any{"module": "mod", "func": "add"},
	}, ws)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer operator.CloseOperator(ctx, op)

	if err := op.Run(ctx); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestWasmCall_IntegerConversion(t *testing.T) {
	ctx := context.Background()
	ws := mapWorkspace{}
	ws.CreateBlob("mod").Set(addWasm)
	ws.CreateBlob("a").Set(float64(7))
	ws.CreateBlob("b").Set(int32(5))

	op, err := New(ctx, operator.Def{
		Type:    Type,
		Inputs:  []string{"a", "b"},
		Outputs: []string{"sum"},
		Args:    map[string]any{"module": "mod", "func": "add"},
	}, ws)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer operator.CloseOperator(ctx, op)

	if err := op.Run(ctx); err != nil {
		t.Fatalf("integral float64: %v", err)
	}
	if sum, _ := blob.As[int32](ws["sum"]); sum != 12 {
		t.Errorf("sum = %d, want 12", sum)
	}

	for _, v := range []any{int64(1 << 32), int64(math.MinInt32 - 1), float64(2.5)} {
		ws["a"].Set(v)
		if err := op.Run(ctx); !errors.IsKind(err, errors.KindTypeMismatch) {
			t.Errorf("input %v (%T): expected type mismatch, got %v", v, v, err)
		}
	}
}
