package workspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/blobspace/errors"
	"github.com/wippyai/blobspace/graph"
)

// CreateNet constructs def and registers it under def.Name.
//
// An existing net of the same name is an error unless overwrite is set, in
// which case the old net is unregistered and closed before the new one is
// built. When construction fails nothing is registered under the name.
func (w *Workspace) CreateNet(ctx context.Context, def graph.Def, overwrite bool) (graph.Net, error) {
	if def.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "net definition should have a name")
	}

	if old, ok := w.nets[def.Name]; ok {
		if !overwrite {
			err := errors.Duplicate(errors.PhaseRegistry, "net", def.Name,
				fmt.Sprintf("refusing to overwrite existing net %q without overwrite=true", def.Name))
			w.logger.Error("net already exists", zap.String("net", def.Name), zap.Error(err))
			return nil, err
		}
		w.logger.Debug("replacing existing net", zap.String("net", def.Name))
		w.dropNet(ctx, def.Name, old)
	}

	w.logger.Debug("initializing net", zap.String("net", def.Name), zap.String("type", def.Type))
	n, err := w.netReg.Create(ctx, def, w)
	if err != nil {
		w.logger.Error("creating net", zap.String("net", def.Name), zap.String("type", def.Type), zap.Error(err))
		return nil, err
	}

	w.nets[def.Name] = n
	w.notify(Event{Type: EventNetCreated, Name: def.Name})
	return n, nil
}

// GetNet returns the registered net called name.
func (w *Workspace) GetNet(name string) (graph.Net, bool) {
	n, ok := w.nets[name]
	return n, ok
}

// DeleteNet unregisters and closes the net called name. It reports whether a
// net was registered.
func (w *Workspace) DeleteNet(ctx context.Context, name string) bool {
	n, ok := w.nets[name]
	if !ok {
		return false
	}
	w.dropNet(ctx, name, n)
	return true
}

// Nets returns the sorted names of the registered nets.
func (w *Workspace) Nets() []string {
	return sortedKeys(w.nets)
}

func (w *Workspace) dropNet(ctx context.Context, name string, n graph.Net) {
	delete(w.nets, name)
	if err := graph.CloseNet(ctx, n); err != nil {
		w.logger.Warn("closing net", zap.String("net", name), zap.Error(err))
	}
	w.notify(Event{Type: EventNetDeleted, Name: name})
}
