// Package terrain derives named terrain signals from fixed noise presets.
package terrain

import (
	"fmt"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/MeKo-Tech/terrainnoise/internal/noise"
)

// Signal names a derived terrain field.
type Signal string

const (
	Continentalness Signal = "continentalness"
	Erosion         Signal = "erosion"
	Ridges          Signal = "ridges"
	Boulders        Signal = "boulders"
	BoulderPattern  Signal = "boulder_pattern"
)

// Signals lists every derivable signal in presentation order.
var Signals = []Signal{Continentalness, Erosion, Ridges, Boulders, BoulderPattern}

// Preset is the seed-independent part of a noise configuration.
type Preset struct {
	Octaves     int     `mapstructure:"octaves"`
	Persistence float64 `mapstructure:"persistence"`
	Lacunarity  float64 `mapstructure:"lacunarity"`
	Scale       float64 `mapstructure:"scale"`
}

// Config binds the preset to a seed.
func (p Preset) Config(seed int64) noise.Config {
	return noise.Config{
		Algorithm:   noise.AlgorithmPerlin,
		Octaves:     p.Octaves,
		Persistence: p.Persistence,
		Lacunarity:  p.Lacunarity,
		Scale:       p.Scale,
		Seed:        seed,
	}
}

// Presets holds the parameters of every signal.
type Presets struct {
	Continentalness Preset `mapstructure:"continentalness"`
	Erosion         Preset `mapstructure:"erosion"`
	Ridges          Preset `mapstructure:"ridges"`
	Boulders        Preset `mapstructure:"boulders"`
	BoulderPattern  Preset `mapstructure:"boulder_pattern"`
}

// DefaultPresets returns the stock parameters.
//
// Continentalness is low frequency with many octaves, erosion sits at medium
// frequency, and ridges fold a medium-frequency base. The two boulder presets
// differ only in scale: the comparison view uses a tighter 30, the placement
// flow a clustered 40.
func DefaultPresets() Presets {
	return Presets{
		Continentalness: Preset{Octaves: 6, Persistence: 0.6, Lacunarity: 2.0, Scale: 200.0},
		Erosion:         Preset{Octaves: 5, Persistence: 0.5, Lacunarity: 2.0, Scale: 80.0},
		Ridges:          Preset{Octaves: 4, Persistence: 0.5, Lacunarity: 2.0, Scale: 60.0},
		Boulders:        Preset{Octaves: 3, Persistence: 0.4, Lacunarity: 2.0, Scale: 30.0},
		BoulderPattern:  Preset{Octaves: 3, Persistence: 0.4, Lacunarity: 2.0, Scale: 40.0},
	}
}

// Lookup returns the preset for a signal.
func (p Presets) Lookup(s Signal) (Preset, error) {
	switch s {
	case Continentalness:
		return p.Continentalness, nil
	case Erosion:
		return p.Erosion, nil
	case Ridges:
		return p.Ridges, nil
	case Boulders:
		return p.Boulders, nil
	case BoulderPattern:
		return p.BoulderPattern, nil
	default:
		return Preset{}, fmt.Errorf("%w: unknown terrain signal %q", field.ErrInvalidConfig, s)
	}
}

// Validate checks every preset against the noise config rules.
func (p Presets) Validate() error {
	for _, s := range Signals {
		preset, err := p.Lookup(s)
		if err != nil {
			return err
		}
		if err := preset.Config(0).Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", s, err)
		}
	}
	return nil
}
