package graph

import (
	"context"
	"sort"
	"sync"

	"github.com/wippyai/blobspace/errors"
	"github.com/wippyai/blobspace/operator"
)

const (
	TypeSimple = "simple"
	TypeDAG    = "dag"
)

// Registry maps net types to constructors.
type Registry struct {
	ops          *operator.Registry
	constructors map[string]Constructor
	mu           sync.RWMutex
}

// NewRegistry creates a registry with the simple and dag types, building
// operators from ops (operator.Default when nil).
func NewRegistry(ops *operator.Registry) *Registry {
	if ops == nil {
		ops = operator.Default
	}
	r := &Registry{
		ops:          ops,
		constructors: make(map[string]Constructor),
	}
	r.constructors[TypeSimple] = NewSimple
	r.constructors[TypeDAG] = NewDAG
	return r
}

// Default is the registry used by workspaces unless configured otherwise.
var Default = NewRegistry(nil)

// Operators returns the operator registry nets are built from.
func (r *Registry) Operators() *operator.Registry {
	return r.ops
}

// Register adds a constructor for typ.
func (r *Registry) Register(typ string, c Constructor) error {
	if typ == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "net type is required")
	}
	if c == nil {
		return errors.InvalidInput(errors.PhaseRegistry, "net constructor is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.constructors[typ]; ok {
		return errors.Duplicate(errors.PhaseRegistry, "net type", typ, "")
	}
	r.constructors[typ] = c
	return nil
}

// Types returns the registered net types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.constructors))
	for t := range r.constructors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Create builds a net for def against ws.
func (r *Registry) Create(ctx context.Context, def Def, ws Workspace) (Net, error) {
	typ := def.Type
	if typ == "" {
		typ = TypeSimple
	}

	r.mu.RLock()
	c, ok := r.constructors[typ]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.UnknownType(errors.PhaseConstruct, "net", typ)
	}

	n, err := c(ctx, def, ws, r.ops)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errors.Construction("net", def.Name, typ, nil)
	}
	return n, nil
}
