// Package tensor provides a dense float32 tensor payload for blobs.
//
// Importing the package registers the tensor shape capability with the blob
// package, so tensors show up in workspace size reports.
package tensor

import (
	"fmt"

	"github.com/wippyai/blobspace/blob"
)

const elemSize = 4

// Tensor is a dense row-major float32 tensor.
type Tensor struct {
	dims   []int64
	data   []float32
	shared bool
}

func init() {
	blob.RegisterShapeFunc(func(t *Tensor) blob.Shape {
		return blob.Shape{
			Dims:       t.Dims(),
			SharesData: t.shared,
			Capacity:   t.CapacityBytes(),
		}
	})
}

// New allocates a zero-filled tensor with the given dimensions.
func New(dims ...int64) *Tensor {
	t := &Tensor{}
	t.Resize(dims...)
	return t
}

// FromSlice wraps data in a tensor; len(data) must equal the product of dims.
func FromSlice(data []float32, dims ...int64) (*Tensor, error) {
	if n := numel(dims); n != int64(len(data)) {
		return nil, fmt.Errorf("tensor: %d values do not fill shape %v (%d elements)", len(data), dims, n)
	}
	return &Tensor{dims: append([]int64(nil), dims...), data: data}, nil
}

// Scalar returns a single-element tensor.
func Scalar(v float32) *Tensor {
	return &Tensor{dims: []int64{1}, data: []float32{v}}
}

// Dims returns a copy of the dimensions.
func (t *Tensor) Dims() []int64 {
	return append([]int64(nil), t.dims...)
}

// Size returns the number of elements.
func (t *Tensor) Size() int {
	return len(t.data)
}

// Data returns the backing slice. Writes are visible to tensors sharing it.
func (t *Tensor) Data() []float32 {
	return t.data
}

// CapacityBytes returns the allocated storage in bytes.
func (t *Tensor) CapacityBytes() uint64 {
	return uint64(cap(t.data)) * elemSize
}

// SharesData reports whether the storage belongs to another tensor.
func (t *Tensor) SharesData() bool {
	return t.shared
}

// Resize changes the dimensions. Storage is reused when it is large enough
// and owned; a resized tensor stops sharing. Negative dimensions are
// treated as zero.
func (t *Tensor) Resize(dims ...int64) {
	n := numel(dims)
	t.dims = t.dims[:0]
	for _, d := range dims {
		t.dims = append(t.dims, max(d, 0))
	}
	if !t.shared && int64(cap(t.data)) >= n {
		t.data = t.data[:n]
		return
	}
	t.data = make([]float32, n)
	t.shared = false
}

// ResizeLike resizes t to other's dimensions.
func (t *Tensor) ResizeLike(other *Tensor) {
	t.Resize(other.dims...)
}

// ShareData makes t an alias of src's storage.
func (t *Tensor) ShareData(src *Tensor) {
	if t == src {
		return
	}
	t.dims = src.Dims()
	t.data = src.data
	t.shared = true
}

// CopyFrom copies src's dimensions and values into owned storage.
func (t *Tensor) CopyFrom(src *Tensor) {
	t.ResizeLike(src)
	copy(t.data, src.data)
}

// Fill sets every element to v.
func (t *Tensor) Fill(v float32) {
	for i := range t.data {
		t.data[i] = v
	}
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v", t.dims)
}

func numel(dims []int64) int64 {
	n := int64(1)
	for _, d := range dims {
		if d <= 0 {
			return 0
		}
		n *= d
	}
	return n
}
