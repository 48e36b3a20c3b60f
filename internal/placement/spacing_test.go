package placement

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpacingSinglePlacement(t *testing.T) {
	mask, err := field.New(9)
	require.NoError(t, err)
	mask.Set(4, 4, 1)

	s, err := Spacing(mask, 100)
	require.NoError(t, err)

	for z := 0; z < 9; z++ {
		for x := 0; x < 9; x++ {
			want := math.Hypot(float64(x-4), float64(z-4))
			assert.InDelta(t, want, s.At(x, z), 1e-12, "cell (%d,%d)", x, z)
		}
	}
}

func TestSpacingNearestOfTwo(t *testing.T) {
	mask, err := field.New(8)
	require.NoError(t, err)
	mask.Set(0, 0, 1)
	mask.Set(7, 7, 1)

	s, err := Spacing(mask, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.At(0, 0))
	assert.Equal(t, 0.0, s.At(7, 7))
	assert.InDelta(t, math.Hypot(2, 1), s.At(2, 1), 1e-12)
	assert.InDelta(t, math.Hypot(1, 2), s.At(6, 5), 1e-12)
}

func TestSpacingMatchesBruteForce(t *testing.T) {
	mask, err := field.FromRows([][]float64{
		{0, 0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0, 0},
	})
	require.NoError(t, err)

	s, err := Spacing(mask, 100)
	require.NoError(t, err)

	n := mask.Size()
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			best := math.Inf(1)
			for pz := 0; pz < n; pz++ {
				for px := 0; px < n; px++ {
					if mask.At(px, pz) > 0 {
						best = math.Min(best, math.Hypot(float64(x-px), float64(z-pz)))
					}
				}
			}
			assert.InDelta(t, best, s.At(x, z), 1e-9, "cell (%d,%d)", x, z)
		}
	}
}

func TestSpacingCapsAtMaxDistance(t *testing.T) {
	mask, err := field.New(10)
	require.NoError(t, err)
	mask.Set(0, 0, 1)

	s, err := Spacing(mask, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, s.At(2, 0), 1e-12)
	assert.Equal(t, 3.0, s.At(3, 0))
	assert.Equal(t, 3.0, s.At(9, 9))
}

func TestSpacingEmptyMask(t *testing.T) {
	mask, err := field.New(5)
	require.NoError(t, err)

	s, err := Spacing(mask, 4)
	require.NoError(t, err)
	lo, hi := s.Bounds()
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 4.0, hi)
}

func TestSpacingRejectsBadInput(t *testing.T) {
	mask, _ := field.New(2)
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Spacing(mask, d)
		assert.ErrorIs(t, err, field.ErrInvalidConfig, "max distance %v", d)
	}
	_, err := Spacing(nil, 1)
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
}
