package blob

import (
	"reflect"
	"sync"
)

// Shape describes the memory footprint of a payload.
type Shape struct {
	Dims []int64
	// SharesData is set when the payload aliases storage owned by another blob.
	SharesData bool
	// Capacity is the allocated size in bytes.
	Capacity uint64
}

// ShapeFunc computes the shape of a payload of the type it was registered for.
type ShapeFunc func(payload any) Shape

var (
	shapeFuncs   = make(map[reflect.Type]ShapeFunc)
	shapeFuncsMu sync.RWMutex
)

// RegisterShapeFunc registers the shape capability for payloads of type T.
// A later registration for the same type replaces the earlier one.
func RegisterShapeFunc[T any](fn func(T) Shape) {
	t := reflect.TypeFor[T]()
	shapeFuncsMu.Lock()
	defer shapeFuncsMu.Unlock()
	shapeFuncs[t] = func(payload any) Shape {
		return fn(payload.(T))
	}
}

// UnregisterShapeFunc removes the shape capability for payloads of type T.
func UnregisterShapeFunc[T any]() {
	t := reflect.TypeFor[T]()
	shapeFuncsMu.Lock()
	defer shapeFuncsMu.Unlock()
	delete(shapeFuncs, t)
}

// ShapeFuncFor looks up the shape capability registered for t.
func ShapeFuncFor(t reflect.Type) (ShapeFunc, bool) {
	if t == nil {
		return nil, false
	}
	shapeFuncsMu.RLock()
	defer shapeFuncsMu.RUnlock()
	fn, ok := shapeFuncs[t]
	return fn, ok
}

// Shape reports the payload's shape if its type has a registered capability.
func (b *Blob) Shape() (Shape, bool) {
	fn, ok := ShapeFuncFor(b.Type())
	if !ok {
		return Shape{}, false
	}
	return fn(b.payload), true
}
