// Package field defines the square scalar grid shared by every generation stage.
package field

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfig reports a generation or transformation parameter outside its domain.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrShapeMismatch reports operands of differing dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrDegenerateRange reports a normalization attempt on a constant field.
	ErrDegenerateRange = errors.New("degenerate range")
)

// Scalar is a size×size grid of float64 values stored row-major.
// Rows are indexed by z, columns by x.
type Scalar struct {
	size   int
	values []float64
}

// New allocates a zero-filled field. size must be positive.
func New(size int) (*Scalar, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	}
	return &Scalar{size: size, values: make([]float64, size*size)}, nil
}

// Filled allocates a field with every cell set to v.
func Filled(size int, v float64) (*Scalar, error) {
	f, err := New(size)
	if err != nil {
		return nil, err
	}
	for i := range f.values {
		f.values[i] = v
	}
	return f, nil
}

// FromRows copies a square matrix into a new field.
func FromRows(rows [][]float64) (*Scalar, error) {
	f, err := New(len(rows))
	if err != nil {
		return nil, err
	}
	for z, row := range rows {
		if len(row) != f.size {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShapeMismatch, z, len(row), f.size)
		}
		copy(f.values[z*f.size:], row)
	}
	return f, nil
}

// FromValues wraps a copy of row-major values into a field of the given size.
func FromValues(size int, values []float64) (*Scalar, error) {
	f, err := New(size)
	if err != nil {
		return nil, err
	}
	if len(values) != size*size {
		return nil, fmt.Errorf("%w: got %d values for size %d", ErrShapeMismatch, len(values), size)
	}
	copy(f.values, values)
	return f, nil
}

// Size returns the edge length of the grid.
func (f *Scalar) Size() int { return f.size }

// Len returns the number of cells.
func (f *Scalar) Len() int { return len(f.values) }

func (f *Scalar) idx(x, z int) int { return z*f.size + x }

// At returns the value at column x, row z.
func (f *Scalar) At(x, z int) float64 { return f.values[f.idx(x, z)] }

// Set writes the value at column x, row z. Only producers call Set, before
// handing the field to a caller.
func (f *Scalar) Set(x, z int, v float64) { f.values[f.idx(x, z)] = v }

// Values returns a copy of the row-major cell values.
func (f *Scalar) Values() []float64 {
	out := make([]float64, len(f.values))
	copy(out, f.values)
	return out
}

// Rows returns a copy of the field as a slice of rows.
func (f *Scalar) Rows() [][]float64 {
	rows := make([][]float64, f.size)
	for z := range rows {
		rows[z] = make([]float64, f.size)
		copy(rows[z], f.values[z*f.size:(z+1)*f.size])
	}
	return rows
}

// Map returns a new field with fn applied to every cell.
func (f *Scalar) Map(fn func(v float64) float64) *Scalar {
	out := &Scalar{size: f.size, values: make([]float64, len(f.values))}
	for i, v := range f.values {
		out.values[i] = fn(v)
	}
	return out
}

// SameShape reports whether both fields have identical dimensions.
func (f *Scalar) SameShape(other *Scalar) bool {
	return f != nil && other != nil && f.size == other.size
}

// Equal reports exact cell-wise equality.
func (f *Scalar) Equal(other *Scalar) bool {
	if !f.SameShape(other) {
		return false
	}
	for i, v := range f.values {
		if other.values[i] != v {
			return false
		}
	}
	return true
}

// Bounds returns the minimum and maximum cell values.
func (f *Scalar) Bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Min returns the smallest cell value.
func (f *Scalar) Min() float64 {
	lo, _ := f.Bounds()
	return lo
}

// Max returns the largest cell value.
func (f *Scalar) Max() float64 {
	_, hi := f.Bounds()
	return hi
}

// Sum returns the sum of all cells.
func (f *Scalar) Sum() float64 {
	sum := 0.0
	for _, v := range f.values {
		sum += v
	}
	return sum
}

// Mean returns the arithmetic mean of all cells.
func (f *Scalar) Mean() float64 {
	return f.Sum() / float64(len(f.values))
}

// Finite reports whether every cell is neither NaN nor infinite.
func (f *Scalar) Finite() bool {
	for _, v := range f.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CheckShape returns ErrShapeMismatch unless a and b have equal dimensions.
func CheckShape(a, b *Scalar) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil operand", ErrShapeMismatch)
	}
	if a.size != b.size {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.size, a.size, b.size, b.size)
	}
	return nil
}
