package workspace

// EventType identifies a registry change.
type EventType uint8

const (
	EventBlobCreated EventType = iota
	EventBlobRemoved
	EventNetCreated
	EventNetDeleted
)

func (t EventType) String() string {
	switch t {
	case EventBlobCreated:
		return "blob-created"
	case EventBlobRemoved:
		return "blob-removed"
	case EventNetCreated:
		return "net-created"
	case EventNetDeleted:
		return "net-deleted"
	default:
		return "unknown"
	}
}

// Event describes a blob or net registry change.
type Event struct {
	Name string
	Type EventType
}

// Observer receives registry events after the change is applied.
type Observer interface {
	OnWorkspaceEvent(Event)
}

// Subscribe adds an observer.
func (w *Workspace) Subscribe(o Observer) {
	w.obsMu.Lock()
	defer w.obsMu.Unlock()
	w.observers = append(w.observers, o)
}

// Unsubscribe removes an observer.
func (w *Workspace) Unsubscribe(o Observer) {
	w.obsMu.Lock()
	defer w.obsMu.Unlock()
	for i, obs := range w.observers {
		if obs == o {
			w.observers = append(w.observers[:i], w.observers[i+1:]...)
			return
		}
	}
}

func (w *Workspace) notify(e Event) {
	w.obsMu.RLock()
	defer w.obsMu.RUnlock()
	for _, o := range w.observers {
		o.OnWorkspaceEvent(e)
	}
}
