package blob

import (
	"reflect"
)

// Blob is an opaquely typed value container. The zero value is an empty blob.
type Blob struct {
	payload any
}

// New creates an empty blob.
func New() *Blob {
	return &Blob{}
}

// Set replaces the payload. A previous payload implementing io.Closer is closed.
func (b *Blob) Set(v any) {
	b.release()
	b.payload = v
}

// Get returns the raw payload, nil when empty.
func (b *Blob) Get() any {
	return b.payload
}

// IsEmpty reports whether the blob holds no payload.
func (b *Blob) IsEmpty() bool {
	return b.payload == nil
}

// Type returns the payload's dynamic type, nil when empty.
func (b *Blob) Type() reflect.Type {
	if b.payload == nil {
		return nil
	}
	return reflect.TypeOf(b.payload)
}

// TypeName returns a printable payload type name.
func (b *Blob) TypeName() string {
	t := b.Type()
	if t == nil {
		return "nothing"
	}
	return t.String()
}

// Reset releases the payload and leaves the blob empty.
func (b *Blob) Reset() {
	b.release()
	b.payload = nil
}

func (b *Blob) release() {
	if c, ok := b.payload.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

// As returns the payload as T if the blob holds a T.
func As[T any](b *Blob) (T, bool) {
	v, ok := b.payload.(T)
	return v, ok
}

// GetOrCreate returns the payload as T, replacing it with newFn() when the
// blob is empty or holds another type.
func GetOrCreate[T any](b *Blob, newFn func() T) T {
	if v, ok := b.payload.(T); ok {
		return v
	}
	v := newFn()
	b.Set(v)
	return v
}
