package operator

import (
	"context"
	"sort"
	"sync"

	"github.com/wippyai/blobspace/errors"
)

// Registry maps operator types to creators.
type Registry struct {
	creators map[string]Creator
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{creators: make(map[string]Creator)}
}

// Default is the registry holding the builtin operators.
var Default = NewRegistry()

// Register adds a creator for typ.
func (r *Registry) Register(typ string, c Creator) error {
	if typ == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "operator type is required")
	}
	if c == nil {
		return errors.InvalidInput(errors.PhaseRegistry, "operator creator is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.creators[typ]; ok {
		return errors.Duplicate(errors.PhaseRegistry, "operator type", typ, "")
	}
	r.creators[typ] = c
	return nil
}

// Has reports whether typ is registered.
func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.creators[typ]
	return ok
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.creators))
	for t := range r.creators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Create builds an operator for def against ws.
func (r *Registry) Create(ctx context.Context, def Def, ws Workspace) (Operator, error) {
	r.mu.RLock()
	c, ok := r.creators[def.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.UnknownType(errors.PhaseConstruct, "operator", def.Type)
	}

	op, err := c(ctx, def, ws)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, errors.Construction("operator", def.Label(), def.Type, nil)
	}
	return op, nil
}

// Register adds a creator to the Default registry.
func Register(typ string, c Creator) error {
	return Default.Register(typ, c)
}

// MustRegister adds a creator to the Default registry and panics on failure.
func MustRegister(typ string, c Creator) {
	if err := Default.Register(typ, c); err != nil {
		panic(err)
	}
}
