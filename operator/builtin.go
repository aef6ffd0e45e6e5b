package operator

import (
	"context"
	"fmt"

	"github.com/wippyai/blobspace/blob"
	"github.com/wippyai/blobspace/errors"
	"github.com/wippyai/blobspace/tensor"
)

func init() {
	MustRegister("ConstantFill", newConstantFill)
	MustRegister("Add", newAdd)
	MustRegister("Scale", newScale)
	MustRegister("Copy", newCopy)
	MustRegister("Alias", newAlias)
	MustRegister("Free", newFree)
	MustRegister("StopIf", newStopIf)
}

func newTensor() *tensor.Tensor { return tensor.New(0) }

func invalidArg(def Def, err error) error {
	return errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
		Name(def.Label()).Type(def.Type).Cause(err).Detail("bad argument").Build()
}

func newConstantFill(_ context.Context, def Def, ws Workspace) (Operator, error) {
	io, err := Bind(def, ws, 0, 1)
	if err != nil {
		return nil, err
	}
	shape, err := def.Ints("shape")
	if err != nil {
		return nil, invalidArg(def, err)
	}
	if shape == nil {
		shape = []int64{1}
	}
	for i, d := range shape {
		if d < 0 {
			return nil, invalidArg(def, fmt.Errorf("argument \"shape\"[%d]: negative dimension %d", i, d))
		}
	}
	value, err := def.Float("value", 0)
	if err != nil {
		return nil, invalidArg(def, err)
	}
	return Func(func(context.Context) error {
		for _, out := range io.Outputs {
			t := blob.GetOrCreate(out, newTensor)
			t.Resize(shape...)
			t.Fill(float32(value))
		}
		return nil
	}), nil
}

func newAdd(_ context.Context, def Def, ws Workspace) (Operator, error) {
	io, err := Bind(def, ws, 2, 1)
	if err != nil {
		return nil, err
	}
	return Func(func(context.Context) error {
		ins := make([]*tensor.Tensor, len(io.Inputs))
		for i := range io.Inputs {
			t, err := Input[*tensor.Tensor](io, i)
			if err != nil {
				return err
			}
			if i > 0 && t.Size() != ins[0].Size() {
				return errors.InvalidData(errors.PhaseRun, def.Inputs[i],
					fmt.Sprintf("size %d does not match %d", t.Size(), ins[0].Size()))
			}
			ins[i] = t
		}
		out := blob.GetOrCreate(io.Outputs[0], newTensor)
		out.ResizeLike(ins[0])
		dst := out.Data()
		for j := range dst {
			var sum float32
			for _, in := range ins {
				sum += in.Data()[j]
			}
			dst[j] = sum
		}
		return nil
	}), nil
}

func newScale(_ context.Context, def Def, ws Workspace) (Operator, error) {
	io, err := Bind(def, ws, 1, 1)
	if err != nil {
		return nil, err
	}
	scale, err := def.Float("scale", 1)
	if err != nil {
		return nil, invalidArg(def, err)
	}
	return Func(func(context.Context) error {
		in, err := Input[*tensor.Tensor](io, 0)
		if err != nil {
			return err
		}
		out := blob.GetOrCreate(io.Outputs[0], newTensor)
		out.ResizeLike(in)
		src, dst := in.Data(), out.Data()
		for i := range dst {
			dst[i] = src[i] * float32(scale)
		}
		return nil
	}), nil
}

func newCopy(_ context.Context, def Def, ws Workspace) (Operator, error) {
	io, err := Bind(def, ws, 1, 1)
	if err != nil {
		return nil, err
	}
	return Func(func(context.Context) error {
		in, err := Input[*tensor.Tensor](io, 0)
		if err != nil {
			return err
		}
		blob.GetOrCreate(io.Outputs[0], newTensor).CopyFrom(in)
		return nil
	}), nil
}

func newAlias(_ context.Context, def Def, ws Workspace) (Operator, error) {
	io, err := Bind(def, ws, 1, 1)
	if err != nil {
		return nil, err
	}
	return Func(func(context.Context) error {
		in, err := Input[*tensor.Tensor](io, 0)
		if err != nil {
			return err
		}
		blob.GetOrCreate(io.Outputs[0], newTensor).ShareData(in)
		return nil
	}), nil
}

func newFree(_ context.Context, def Def, ws Workspace) (Operator, error) {
	io, err := Bind(def, ws, 0, 1)
	if err != nil {
		return nil, err
	}
	return Func(func(context.Context) error {
		for _, out := range io.Outputs {
			out.Reset()
		}
		return nil
	}), nil
}

func newStopIf(_ context.Context, def Def, ws Workspace) (Operator, error) {
	io, err := Bind(def, ws, 1, 1)
	if err != nil {
		return nil, err
	}
	threshold, err := def.Float("threshold", 1)
	if err != nil {
		return nil, invalidArg(def, err)
	}
	return Func(func(context.Context) error {
		v, err := scalarValue(def.Inputs[0], io.Inputs[0])
		if err != nil {
			return err
		}
		io.Outputs[0].Set(v >= threshold)
		return nil
	}), nil
}

func scalarValue(name string, b *blob.Blob) (float64, error) {
	switch v := b.Get().(type) {
	case *tensor.Tensor:
		if v.Size() == 0 {
			return 0, errors.InvalidData(errors.PhaseRun, name, "empty tensor")
		}
		return float64(v.Data()[0]), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		if f, ok := toFloat(v); ok {
			return f, nil
		}
		return 0, errors.TypeMismatch(errors.PhaseRun, name, "scalar", b.TypeName())
	}
}
