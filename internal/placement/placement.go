// Package placement turns scalar fields into binary placement masks and
// local placement densities.
package placement

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
)

// Threshold returns a mask holding 1 where f is strictly greater than t and
// 0 elsewhere. Cells equal to t are excluded.
func Threshold(f *field.Scalar, t float64) (*field.Scalar, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil field", field.ErrInvalidConfig)
	}
	if math.IsNaN(t) {
		return nil, fmt.Errorf("%w: threshold is NaN", field.ErrInvalidConfig)
	}
	return f.Map(func(v float64) float64 {
		if v > t {
			return 1.0
		}
		return 0.0
	}), nil
}

// Density averages the mask over a window×window neighbourhood of every cell.
//
// On each axis the window spans offsets -(window/2) .. -(window/2)+window-1,
// so odd windows are centered and even windows lean one cell toward the
// origin. Indices past the border are mirrored about the edge
// (d c b a | a b c d | d c b a), repeating when the window exceeds the grid.
// The filter is separable: a horizontal pass followed by a vertical pass.
func Density(mask *field.Scalar, window int) (*field.Scalar, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", field.ErrInvalidConfig)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: density window must be positive, got %d", field.ErrInvalidConfig, window)
	}

	n := mask.Size()
	lo := -(window / 2)
	hi := lo + window - 1
	count := float64(window)

	rows, err := field.New(n)
	if err != nil {
		return nil, err
	}
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			sum := 0.0
			for k := lo; k <= hi; k++ {
				sum += mask.At(reflectIndex(x+k, n), z)
			}
			rows.Set(x, z, sum/count)
		}
	}

	out, err := field.New(n)
	if err != nil {
		return nil, err
	}
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			sum := 0.0
			for k := lo; k <= hi; k++ {
				sum += rows.At(x, reflectIndex(z+k, n))
			}
			out.Set(x, z, clamp01(sum/count))
		}
	}
	return out, nil
}

// reflectIndex mirrors i into [0,n) with half-sample symmetry.
func reflectIndex(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
