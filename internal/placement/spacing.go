package placement

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
)

// Spacing returns, for every cell, the Euclidean distance in cells to the
// nearest placement (mask value > 0). Placed cells are 0 and distances are
// capped at maxDistance, which is also the value of every cell when the mask
// holds no placement.
//
// It uses the Felzenszwalb & Huttenlocher separable squared distance
// transform: one lower-envelope pass over rows, then one over columns.
func Spacing(mask *field.Scalar, maxDistance float64) (*field.Scalar, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", field.ErrInvalidConfig)
	}
	if !(maxDistance > 0) || math.IsInf(maxDistance, 0) {
		return nil, fmt.Errorf("%w: max distance must be positive and finite, got %v", field.ErrInvalidConfig, maxDistance)
	}

	n := mask.Size()
	maxDistSq := maxDistance * maxDistance
	// Any sum involving this sentinel already exceeds maxDistSq.
	far := 2 * maxDistSq

	sq := make([]float64, n*n)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			if mask.At(x, z) > 0 {
				sq[z*n+x] = 0
			} else {
				sq[z*n+x] = far
			}
		}
	}

	in := make([]float64, n)
	out := make([]float64, n)
	env := newEnvelope(n)

	for z := 0; z < n; z++ {
		row := sq[z*n : (z+1)*n]
		copy(in, row)
		env.transform(in, out)
		copy(row, out)
	}

	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			in[z] = sq[z*n+x]
		}
		env.transform(in, out)
		for z := 0; z < n; z++ {
			sq[z*n+x] = out[z]
		}
	}

	for i, d := range sq {
		if d >= maxDistSq {
			sq[i] = maxDistance
		} else {
			sq[i] = math.Sqrt(d)
		}
	}
	return field.FromValues(n, sq)
}

// envelope holds the scratch buffers of the 1D transform.
type envelope struct {
	v []int     // parabola vertices in the lower envelope
	z []float64 // boundaries between consecutive parabolas
}

func newEnvelope(n int) *envelope {
	return &envelope{v: make([]int, n), z: make([]float64, n+1)}
}

// transform writes min_i((q-i)^2 + in[i]) to out[q] for every q.
func (e *envelope) transform(in, out []float64) {
	n := len(in)
	if n == 0 {
		return
	}
	v, z := e.v, e.z

	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		var s float64
		// z[0] is -Inf, so the loop always stops at k == 0.
		for {
			s = ((in[q] + float64(q*q)) - (in[v[k]] + float64(v[k]*v[k]))) / (2 * float64(q-v[k]))
			if s > z[k] {
				break
			}
			k--
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dx := float64(q - v[k])
		out[q] = dx*dx + in[v[k]]
	}
}
