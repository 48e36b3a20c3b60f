package terrain

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/MeKo-Tech/terrainnoise/internal/noise"
)

// Ridge folds a noise value so zero crossings become peaks: 1 - |v|.
func Ridge(v float64) float64 {
	return 1.0 - math.Abs(v)
}

// RidgeFold applies Ridge to every cell, returning a new field.
func RidgeFold(f *field.Scalar) *field.Scalar {
	return f.Map(Ridge)
}

// Deriver produces terrain signals for one seed. It holds no mutable state.
type Deriver struct {
	gen     *noise.Generator
	presets Presets
	seed    int64
}

// NewDeriver binds a generator, a seed and a preset table.
func NewDeriver(gen *noise.Generator, seed int64, presets Presets) (*Deriver, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: nil generator", field.ErrInvalidConfig)
	}
	if err := presets.Validate(); err != nil {
		return nil, err
	}
	return &Deriver{gen: gen, seed: seed, presets: presets}, nil
}

// Seed returns the seed every signal is derived from.
func (d *Deriver) Seed() int64 { return d.seed }

// Presets returns the preset table in use.
func (d *Deriver) Presets() Presets { return d.presets }

// Derive generates the named signal.
func (d *Deriver) Derive(s Signal) (*field.Scalar, error) {
	preset, err := d.presets.Lookup(s)
	if err != nil {
		return nil, err
	}
	f, err := d.gen.Generate(preset.Config(d.seed))
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", s, err)
	}
	if s == Ridges {
		return RidgeFold(f), nil
	}
	return f, nil
}

// Continentalness is large-scale landmass variation.
func (d *Deriver) Continentalness() (*field.Scalar, error) { return d.Derive(Continentalness) }

// Erosion modulates terrain smoothness.
func (d *Deriver) Erosion() (*field.Scalar, error) { return d.Derive(Erosion) }

// Ridges is a folded base field with maxima at the base's zero crossings.
func (d *Deriver) Ridges() (*field.Scalar, error) { return d.Derive(Ridges) }

// Boulders is the feature noise shown next to the terrain signals.
func (d *Deriver) Boulders() (*field.Scalar, error) { return d.Derive(Boulders) }

// BoulderPattern is the clustered feature noise fed to placement.
func (d *Deriver) BoulderPattern() (*field.Scalar, error) { return d.Derive(BoulderPattern) }
