package placement

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/MeKo-Tech/terrainnoise/internal/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdIsStrict(t *testing.T) {
	const threshold = 0.2
	eps := math.Nextafter(threshold, 1)

	f, err := field.FromRows([][]float64{
		{threshold, eps},
		{-1, 0.9},
	})
	require.NoError(t, err)

	mask, err := Threshold(f, threshold)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mask.At(0, 0), "a cell equal to the threshold is excluded")
	assert.Equal(t, 1.0, mask.At(1, 0), "a cell just above the threshold is included")
	assert.Equal(t, 0.0, mask.At(0, 1))
	assert.Equal(t, 1.0, mask.At(1, 1))
}

func TestThresholdProducesBinaryMask(t *testing.T) {
	gen, err := noise.NewGenerator(32, nil)
	require.NoError(t, err)
	f, err := gen.Generate(noise.Config{Octaves: 3, Persistence: 0.4, Lacunarity: 2, Scale: 8, Seed: 99})
	require.NoError(t, err)

	mask, err := Threshold(f, 0)
	require.NoError(t, err)
	for _, v := range mask.Values() {
		require.True(t, v == 0 || v == 1, "mask value %v", v)
	}
}

func TestThresholdRejectsNaN(t *testing.T) {
	f, _ := field.Filled(2, 0)
	_, err := Threshold(f, math.NaN())
	require.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestDensityOfFullMaskIsOne(t *testing.T) {
	full, err := field.Filled(10, 1)
	require.NoError(t, err)

	for _, window := range []int{1, 2, 3, 8, 25} {
		d, err := Density(full, window)
		require.NoError(t, err)
		for _, v := range d.Values() {
			require.Equal(t, 1.0, v, "window %d", window)
		}
	}
}

func TestDensityBounds(t *testing.T) {
	gen, err := noise.NewGenerator(40, nil)
	require.NoError(t, err)
	f, err := gen.Generate(noise.Config{Octaves: 2, Persistence: 0.5, Lacunarity: 2, Scale: 5, Seed: 4})
	require.NoError(t, err)
	mask, err := Threshold(f, 0.1)
	require.NoError(t, err)

	for _, window := range []int{1, 4, 7, 8} {
		d, err := Density(mask, window)
		require.NoError(t, err)
		lo, hi := d.Bounds()
		assert.GreaterOrEqual(t, lo, 0.0)
		assert.LessOrEqual(t, hi, 1.0)
	}
}

func TestDensityWindowOneIsIdentity(t *testing.T) {
	mask, err := field.FromRows([][]float64{{1, 0, 1}, {0, 0, 1}, {1, 1, 0}})
	require.NoError(t, err)

	d, err := Density(mask, 1)
	require.NoError(t, err)
	assert.True(t, d.Equal(mask))
}

func TestDensityMirrorsAtCorner(t *testing.T) {
	mask, err := field.New(4)
	require.NoError(t, err)
	mask.Set(0, 0, 1)

	d, err := Density(mask, 3)
	require.NoError(t, err)

	// The window at (0,0) reads index -1 as index 0 on both axes, so the
	// single placement counts twice per axis: (2/3)*(2/3).
	assert.InDelta(t, 4.0/9.0, d.At(0, 0), 1e-12)
	assert.InDelta(t, 2.0/9.0, d.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0/9.0, d.At(1, 1), 1e-12)
	assert.Equal(t, 0.0, d.At(2, 2))
	assert.Equal(t, 0.0, d.At(3, 3))
}

func TestDensityEvenWindowLeansTowardOrigin(t *testing.T) {
	// A full column keeps the vertical pass neutral.
	mask, err := field.New(6)
	require.NoError(t, err)
	for z := 0; z < 6; z++ {
		mask.Set(3, z, 1)
	}

	d, err := Density(mask, 2)
	require.NoError(t, err)

	// Window 2 covers offsets -1..0: column 3 is seen by columns 3 and 4.
	assert.Equal(t, 0.5, d.At(3, 2))
	assert.Equal(t, 0.5, d.At(4, 2))
	assert.Equal(t, 0.0, d.At(2, 2))
	assert.Equal(t, 0.0, d.At(5, 2))
}

func TestDensityRejectsWindow(t *testing.T) {
	mask, _ := field.Filled(3, 1)
	_, err := Density(mask, 0)
	require.ErrorIs(t, err, field.ErrInvalidConfig)
	_, err = Density(nil, 3)
	require.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestReflectIndex(t *testing.T) {
	tests := []struct {
		in, n, want int
	}{
		{0, 4, 0},
		{3, 4, 3},
		{-1, 4, 0},
		{-2, 4, 1},
		{4, 4, 3},
		{5, 4, 2},
		{8, 4, 0},
		{-5, 4, 3},
		{-9, 4, 0},
		{7, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reflectIndex(tt.in, tt.n), "reflectIndex(%d, %d)", tt.in, tt.n)
	}
}

func TestSummarize(t *testing.T) {
	terrain, err := field.FromRows([][]float64{{0.2, 0.4}, {0.6, 0.8}})
	require.NoError(t, err)
	mask, err := field.FromRows([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	density, err := Density(mask, 2)
	require.NoError(t, err)

	s, err := Summarize(terrain, mask, density)
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalCells)
	assert.Equal(t, 2, s.PlacedCells)
	assert.InDelta(t, 50.0, s.Coverage, 1e-12)
	assert.InDelta(t, 0.5, s.MeanTerrain, 1e-12)
	assert.Equal(t, density.Max(), s.MaxDensity)
	assert.Contains(t, s.String(), "2/4 cells placed")

	other, _ := field.Filled(3, 0)
	_, err = Summarize(terrain, other, density)
	require.ErrorIs(t, err, field.ErrShapeMismatch)
}
