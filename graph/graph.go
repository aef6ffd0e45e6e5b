package graph

import (
	"context"

	"github.com/wippyai/blobspace/errors"
	"github.com/wippyai/blobspace/operator"
	"github.com/wippyai/blobspace/threadpool"
)

// Def declares a net.
type Def struct {
	Name string         `yaml:"name"`
	Type string         `yaml:"type,omitempty"`
	Ops  []operator.Def `yaml:"ops,omitempty"`
}

// Workspace is the execution context a net is constructed against.
type Workspace interface {
	operator.Workspace
	ThreadPool() *threadpool.Pool
}

// Net is a constructed, runnable net.
type Net interface {
	Name() string
	Run(ctx context.Context) error
}

// Constructor builds a net from its definition.
type Constructor func(ctx context.Context, def Def, ws Workspace, ops *operator.Registry) (Net, error)

// CloseNet closes n if it holds resources.
func CloseNet(ctx context.Context, n Net) error {
	if c, ok := n.(operator.Closer); ok {
		return c.Close(ctx)
	}
	return nil
}

type base struct {
	name string
	defs []operator.Def
	ops  []operator.Operator
}

func (b *base) Name() string {
	return b.name
}

// Close closes every operator and returns the first error.
func (b *base) Close(ctx context.Context) error {
	var first error
	for _, op := range b.ops {
		if err := operator.CloseOperator(ctx, op); err != nil && first == nil {
			first = err
		}
	}
	b.ops = nil
	return first
}

func (b *base) runOp(ctx context.Context, i int) error {
	if err := b.ops[i].Run(ctx); err != nil {
		return errors.New(errors.PhaseRun, errors.KindRunFailed).
			Name(b.defs[i].Label()).Type(b.defs[i].Type).
			Detail("operator %d of net %s", i, b.name).
			Cause(err).Build()
	}
	return nil
}

func newBase(ctx context.Context, def Def, ws Workspace, reg *operator.Registry) (*base, error) {
	b := &base{name: def.Name, defs: def.Ops}
	for i, od := range def.Ops {
		op, err := reg.Create(ctx, od, ws)
		if err != nil {
			_ = b.Close(ctx)
			return nil, errors.New(errors.PhaseConstruct, errors.KindConstruction).
				Name(def.Name).Type(def.Type).
				Detail("operator %d (%s)", i, od.Label()).
				Cause(err).Build()
		}
		b.ops = append(b.ops, op)
	}
	return b, nil
}
