// Package combine blends and gates scalar fields.
package combine

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
)

// Additive returns base + added*blend cell by cell. blend is not clamped:
// values outside [0,1] amplify or invert the added field.
func Additive(base, added *field.Scalar, blend float64) (*field.Scalar, error) {
	if err := field.CheckShape(base, added); err != nil {
		return nil, fmt.Errorf("additive blend: %w", err)
	}
	out, err := field.New(base.Size())
	if err != nil {
		return nil, err
	}
	n := base.Size()
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			out.Set(x, z, base.At(x, z)+added.At(x, z)*blend)
		}
	}
	return out, nil
}

// Multiply returns a*b cell by cell. With one operand normalized to [0,1] it
// acts as a spatial gate on the other.
func Multiply(a, b *field.Scalar) (*field.Scalar, error) {
	if err := field.CheckShape(a, b); err != nil {
		return nil, fmt.Errorf("gated multiply: %w", err)
	}
	out, err := field.New(a.Size())
	if err != nil {
		return nil, err
	}
	n := a.Size()
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			out.Set(x, z, a.At(x, z)*b.At(x, z))
		}
	}
	return out, nil
}

// Normalize rescales f linearly so its minimum maps to 0 and its maximum to 1.
// A constant field has no range and yields ErrDegenerateRange.
func Normalize(f *field.Scalar) (*field.Scalar, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil field", field.ErrInvalidConfig)
	}
	lo, hi := f.Bounds()
	span := hi - lo
	if span == 0 {
		return nil, fmt.Errorf("normalize: %w: all cells equal %v", field.ErrDegenerateRange, lo)
	}
	return f.Map(func(v float64) float64 {
		return (v - lo) / span
	}), nil
}

// NormalizeOrZero is Normalize with the all-zero field as the fallback for
// constant input. A zero gate suppresses everything it multiplies.
func NormalizeOrZero(f *field.Scalar) (*field.Scalar, error) {
	out, err := Normalize(f)
	if errors.Is(err, field.ErrDegenerateRange) {
		return field.New(f.Size())
	}
	return out, err
}
