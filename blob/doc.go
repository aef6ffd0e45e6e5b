// Package blob provides the value container owned by a workspace.
//
// A Blob holds a single payload of any Go type. The payload type is not
// constrained; typed access goes through the generic helpers:
//
//	b := blob.New()
//	b.Set(int64(7))
//
//	v, ok := blob.As[int64](b) // 7, true
//	_, ok = blob.As[string](b) // false
//
// # Shape Capability
//
// Payload types are defined outside this package, so shape reporting is a
// capability registered per payload type rather than a method every payload
// must implement:
//
//	blob.RegisterShapeFunc(func(t *tensor.Tensor) blob.Shape {
//	    return blob.Shape{Dims: t.Dims(), Capacity: t.CapacityBytes()}
//	})
//
//	shape, ok := b.Shape() // ok is false for payloads without a capability
//
// # Thread Safety
//
// A Blob is NOT thread-safe. Operators that run concurrently must write
// distinct blobs. The shape capability table is safe for concurrent use.
package blob
