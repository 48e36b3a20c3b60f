// Package noise synthesizes deterministic multi-octave coherent noise fields.
package noise

import (
	"fmt"
	"math"
	"strings"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
)

// MinScale is the smallest accepted Config.Scale. Smaller scales sample the
// primitive far above its lattice frequency and only produce aliasing.
const MinScale = 1e-6

// Algorithm selects how octaves are accumulated.
type Algorithm string

const (
	// AlgorithmPerlin sums Perlin octaves that share one seed offset, scaled
	// together with the coordinates, and divides by the total amplitude,
	// keeping values in [-1,1].
	AlgorithmPerlin Algorithm = "perlin"
	// AlgorithmLayered samples one Perlin octave at a time at lacunarity^k
	// with its own hashed offset and adds it with weight persistence^k,
	// without normalization.
	AlgorithmLayered Algorithm = "layered"
	// AlgorithmSimplex accumulates OpenSimplex octaves the same way as
	// AlgorithmLayered, without normalization.
	AlgorithmSimplex Algorithm = "simplex"
)

// ParseAlgorithm maps a name to an Algorithm. The empty string selects AlgorithmPerlin.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", AlgorithmPerlin:
		return AlgorithmPerlin, nil
	case AlgorithmLayered:
		return AlgorithmLayered, nil
	case AlgorithmSimplex:
		return AlgorithmSimplex, nil
	default:
		return "", fmt.Errorf("%w: unknown algorithm %q (want perlin, layered or simplex)", field.ErrInvalidConfig, s)
	}
}

// Config is the immutable parameter set of one noise field.
type Config struct {
	Algorithm   Algorithm
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Scale       float64
	Seed        int64
}

// DefaultConfig returns a general-purpose four-octave configuration at scale 50.
func DefaultConfig(seed int64) Config {
	return Config{
		Algorithm:   AlgorithmPerlin,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Scale:       50.0,
		Seed:        seed,
	}
}

// Validate reports the first parameter outside its domain.
func (c Config) Validate() error {
	if _, err := ParseAlgorithm(string(c.Algorithm)); err != nil {
		return err
	}
	if c.Octaves <= 0 {
		return fmt.Errorf("%w: octaves must be positive, got %d", field.ErrInvalidConfig, c.Octaves)
	}
	if math.IsNaN(c.Persistence) || c.Persistence <= 0 || c.Persistence > 1 {
		return fmt.Errorf("%w: persistence must be within (0,1], got %v", field.ErrInvalidConfig, c.Persistence)
	}
	if math.IsNaN(c.Lacunarity) || math.IsInf(c.Lacunarity, 0) || c.Lacunarity <= 1 {
		return fmt.Errorf("%w: lacunarity must be > 1, got %v", field.ErrInvalidConfig, c.Lacunarity)
	}
	if math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) || c.Scale < MinScale {
		return fmt.Errorf("%w: scale must be >= %g, got %v", field.ErrInvalidConfig, MinScale, c.Scale)
	}
	if math.IsInf(c.maxFrequency(), 0) {
		return fmt.Errorf("%w: lacunarity %v over %d octaves overflows the frequency", field.ErrInvalidConfig, c.Lacunarity, c.Octaves)
	}
	return nil
}

// maxFrequency returns lacunarity^(octaves-1), the frequency of the last octave.
func (c Config) maxFrequency() float64 {
	return math.Pow(c.Lacunarity, float64(c.Octaves-1))
}

// amplitudeSum returns Σ persistence^k over all octaves.
func (c Config) amplitudeSum() float64 {
	sum, amp := 0.0, 1.0
	for k := 0; k < c.Octaves; k++ {
		sum += amp
		amp *= c.Persistence
	}
	return sum
}

func (c Config) String() string {
	algo := c.Algorithm
	if algo == "" {
		algo = AlgorithmPerlin
	}
	return fmt.Sprintf("%s(octaves=%d persistence=%g lacunarity=%g scale=%g seed=%d)",
		algo, c.Octaves, c.Persistence, c.Lacunarity, c.Scale, c.Seed)
}
