package operator

import (
	"context"
	"fmt"

	"github.com/wippyai/blobspace/blob"
	"github.com/wippyai/blobspace/errors"
)

// Workspace is the blob access an operator is constructed against.
type Workspace interface {
	GetBlob(name string) (*blob.Blob, bool)
	CreateBlob(name string) *blob.Blob
}

// Operator is a constructed, runnable operator.
type Operator interface {
	Run(ctx context.Context) error
}

// Closer is implemented by operators holding resources beyond their blobs.
type Closer interface {
	Close(ctx context.Context) error
}

// Creator builds an operator from its definition.
type Creator func(ctx context.Context, def Def, ws Workspace) (Operator, error)

// IO holds the blobs an operator was bound to.
type IO struct {
	Inputs  []*blob.Blob
	Outputs []*blob.Blob
	Def     Def
}

// Bind resolves def's inputs and creates its outputs. minIn and minOut are
// the minimum counts; -1 skips the check.
func Bind(def Def, ws Workspace, minIn, minOut int) (*IO, error) {
	if minIn >= 0 && len(def.Inputs) < minIn {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Name(def.Label()).Type(def.Type).
			Detail("expected at least %d inputs, got %d", minIn, len(def.Inputs)).
			Build()
	}
	if minOut >= 0 && len(def.Outputs) < minOut {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Name(def.Label()).Type(def.Type).
			Detail("expected at least %d outputs, got %d", minOut, len(def.Outputs)).
			Build()
	}

	io := &IO{Def: def}
	for _, name := range def.Inputs {
		b, ok := ws.GetBlob(name)
		if !ok {
			return nil, errors.NotFound(errors.PhaseConstruct, "input blob", name)
		}
		io.Inputs = append(io.Inputs, b)
	}
	for _, name := range def.Outputs {
		io.Outputs = append(io.Outputs, ws.CreateBlob(name))
	}
	return io, nil
}

// Input returns input i as T.
func Input[T any](io *IO, i int) (T, error) {
	v, ok := blob.As[T](io.Inputs[i])
	if !ok {
		var zero T
		return zero, errors.TypeMismatch(errors.PhaseRun, io.Def.Inputs[i],
			fmt.Sprintf("%T", zero), io.Inputs[i].TypeName())
	}
	return v, nil
}

// Func adapts a plain function to Operator.
type Func func(ctx context.Context) error

func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}

// CloseOperator closes op if it implements Closer.
func CloseOperator(ctx context.Context, op Operator) error {
	if c, ok := op.(Closer); ok {
		return c.Close(ctx)
	}
	return nil
}
