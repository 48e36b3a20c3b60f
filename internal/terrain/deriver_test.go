package terrain

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/MeKo-Tech/terrainnoise/internal/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeriver(t *testing.T, size int, seed int64) *Deriver {
	t.Helper()
	gen, err := noise.NewGenerator(size, nil)
	require.NoError(t, err)
	d, err := NewDeriver(gen, seed, DefaultPresets())
	require.NoError(t, err)
	return d
}

func TestRidgeFold(t *testing.T) {
	cases := map[float64]float64{
		-1:   0,
		-0.5: 0.5,
		0:    1,
		0.25: 0.75,
		1:    0,
	}
	for in, want := range cases {
		assert.Equal(t, want, Ridge(in), "ridge(%v)", in)
	}

	base, err := field.FromRows([][]float64{{-1, -0.5}, {0, 1}})
	require.NoError(t, err)
	folded := RidgeFold(base)

	lo, hi := folded.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
	assert.Equal(t, 1.0, folded.At(0, 1), "zero crossing becomes the peak")
	assert.Equal(t, -0.5, base.At(1, 0), "base must stay untouched")
}

func TestRidgesMatchFoldedBase(t *testing.T) {
	d := newTestDeriver(t, 32, 12345)

	ridges, err := d.Ridges()
	require.NoError(t, err)

	gen, err := noise.NewGenerator(32, nil)
	require.NoError(t, err)
	base, err := gen.Generate(DefaultPresets().Ridges.Config(12345))
	require.NoError(t, err)

	for z := 0; z < 32; z++ {
		for x := 0; x < 32; x++ {
			require.Equal(t, 1-math.Abs(base.At(x, z)), ridges.At(x, z))
		}
	}

	lo, hi := ridges.Bounds()
	assert.GreaterOrEqual(t, lo, 0.0)
	assert.LessOrEqual(t, hi, 1.0)
}

func TestDerivedSignalsAreDeterministicAndShaped(t *testing.T) {
	d := newTestDeriver(t, 24, 42)
	again := newTestDeriver(t, 24, 42)

	for _, s := range Signals {
		t.Run(string(s), func(t *testing.T) {
			a, err := d.Derive(s)
			require.NoError(t, err)
			b, err := again.Derive(s)
			require.NoError(t, err)

			assert.Equal(t, 24, a.Size())
			assert.True(t, a.Equal(b))
			assert.True(t, a.Finite())
		})
	}
}

func TestNamedAccessorsMatchDerive(t *testing.T) {
	d := newTestDeriver(t, 16, 7)

	accessors := map[Signal]func() (*field.Scalar, error){
		Continentalness: d.Continentalness,
		Erosion:         d.Erosion,
		Ridges:          d.Ridges,
		Boulders:        d.Boulders,
		BoulderPattern:  d.BoulderPattern,
	}
	for s, fn := range accessors {
		got, err := fn()
		require.NoError(t, err)
		want, err := d.Derive(s)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "signal %s", s)
	}
}

func TestSeedChangesSignals(t *testing.T) {
	a, err := newTestDeriver(t, 32, 1).Erosion()
	require.NoError(t, err)
	b, err := newTestDeriver(t, 32, 2).Erosion()
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
}

func TestDefaultPresetValues(t *testing.T) {
	p := DefaultPresets()
	assert.Equal(t, Preset{Octaves: 6, Persistence: 0.6, Lacunarity: 2, Scale: 200}, p.Continentalness)
	assert.Equal(t, Preset{Octaves: 5, Persistence: 0.5, Lacunarity: 2, Scale: 80}, p.Erosion)
	assert.Equal(t, Preset{Octaves: 4, Persistence: 0.5, Lacunarity: 2, Scale: 60}, p.Ridges)
	assert.Equal(t, 30.0, p.Boulders.Scale)
	assert.Equal(t, 40.0, p.BoulderPattern.Scale)
	require.NoError(t, p.Validate())
}

func TestNewDeriverRejectsBadPresets(t *testing.T) {
	gen, err := noise.NewGenerator(8, nil)
	require.NoError(t, err)

	p := DefaultPresets()
	p.Erosion.Lacunarity = 1
	_, err = NewDeriver(gen, 1, p)
	require.ErrorIs(t, err, field.ErrInvalidConfig)

	_, err = NewDeriver(nil, 1, DefaultPresets())
	require.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestUnknownSignal(t *testing.T) {
	d := newTestDeriver(t, 8, 1)
	_, err := d.Derive("caves")
	require.ErrorIs(t, err, field.ErrInvalidConfig)
}
