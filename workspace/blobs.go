package workspace

import (
	"go.uber.org/zap"

	"github.com/wippyai/blobspace/blob"
)

// CreateBlob returns the local blob called name, creating an empty one when
// absent. A parent's blob of the same name is shadowed, not returned.
func (w *Workspace) CreateBlob(name string) *blob.Blob {
	if b, ok := w.blobs[name]; ok {
		w.logger.Debug("blob already exists", zap.String("blob", name))
		return b
	}
	b := blob.New()
	w.blobs[name] = b
	w.logger.Debug("created blob", zap.String("blob", name))
	w.notify(Event{Type: EventBlobCreated, Name: name})
	return b
}

// RemoveBlob deletes the local blob called name and releases its payload.
// It reports whether a blob was removed. Parent blobs are never removed.
func (w *Workspace) RemoveBlob(name string) bool {
	b, ok := w.blobs[name]
	if !ok {
		return false
	}
	delete(w.blobs, name)
	b.Reset()
	w.logger.Debug("removed blob", zap.String("blob", name))
	w.notify(Event{Type: EventBlobRemoved, Name: name})
	return true
}

// GetBlob returns the blob called name, looking in the parent chain when no
// local blob exists.
func (w *Workspace) GetBlob(name string) (*blob.Blob, bool) {
	if b, ok := w.lookupBlob(name); ok {
		return b, true
	}
	w.logger.Warn("blob does not exist", zap.String("blob", name))
	return nil, false
}

// HasBlob reports whether GetBlob would find name.
func (w *Workspace) HasBlob(name string) bool {
	_, ok := w.lookupBlob(name)
	return ok
}

func (w *Workspace) lookupBlob(name string) (*blob.Blob, bool) {
	for ws := w; ws != nil; ws = ws.parent {
		if b, ok := ws.blobs[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// LocalBlobs returns the sorted names of the blobs this workspace owns.
func (w *Workspace) LocalBlobs() []string {
	return sortedKeys(w.blobs)
}

// Blobs returns the local blob names followed by the parent's Blobs.
// A name shadowed locally appears once per level that holds it.
func (w *Workspace) Blobs() []string {
	names := w.LocalBlobs()
	if w.parent != nil {
		names = append(names, w.parent.Blobs()...)
	}
	return names
}
