package noise

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/ojrac/opensimplex-go"
)

// Sampler evaluates one Config at arbitrary grid coordinates.
type Sampler struct {
	cfg     Config
	octave  primitive
	wrap    func(a, b float64) (float64, float64)
	norm    float64
	offsets [][2]float64
}

// NewSampler validates cfg and prepares the primitive for it.
func NewSampler(cfg Config) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Algorithm, _ = ParseAlgorithm(string(cfg.Algorithm))

	s := &Sampler{cfg: cfg, norm: 1, wrap: wrapPerlin}
	switch cfg.Algorithm {
	case AlgorithmPerlin:
		s.octave = newPerlinOctave(cfg.Seed)
		s.norm = cfg.amplitudeSum()
		ox, oz := seedOffset(cfg.Seed, 0)
		s.offsets = [][2]float64{{ox, oz}}
		return s, nil
	case AlgorithmSimplex:
		s.octave = opensimplex.New(cfg.Seed)
		s.wrap = wrapSimplex
	default:
		s.octave = newPerlinOctave(cfg.Seed)
	}

	s.offsets = make([][2]float64, cfg.Octaves)
	for k := range s.offsets {
		ox, oz := seedOffset(cfg.Seed, uint64(k)+1)
		s.offsets[k] = [2]float64{ox, oz}
	}
	return s, nil
}

// Config returns the configuration the sampler was built from.
func (s *Sampler) Config() Config { return s.cfg }

// At returns the noise value for grid column x and row z.
func (s *Sampler) At(x, z float64) float64 {
	u := z / s.cfg.Scale
	v := x / s.cfg.Scale
	shared := s.cfg.Algorithm == AlgorithmPerlin

	sum, freq, amp := 0.0, 1.0, 1.0
	for k := 0; k < s.cfg.Octaves; k++ {
		var a, b float64
		if shared {
			off := s.offsets[0]
			a, b = (u+off[1])*freq, (v+off[0])*freq
		} else {
			off := s.offsets[k]
			a, b = u*freq+off[1], v*freq+off[0]
		}
		a, b = s.wrap(a, b)
		sum += s.octave.Eval2(a, b) * amp
		freq *= s.cfg.Lacunarity
		amp *= s.cfg.Persistence
	}
	return sum / s.norm
}

// Generator produces size×size noise fields.
type Generator struct {
	logger *slog.Logger
	size   int
}

// NewGenerator creates a generator for square grids of the given size.
func NewGenerator(size int, logger *slog.Logger) (*Generator, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", field.ErrInvalidConfig, size)
	}
	return &Generator{size: size, logger: logger}, nil
}

// Size returns the grid edge length.
func (g *Generator) Size() int { return g.size }

// Generate evaluates cfg over every cell of the grid. Equal configs produce
// bit-identical fields.
func (g *Generator) Generate(cfg Config) (*field.Scalar, error) {
	sampler, err := NewSampler(cfg)
	if err != nil {
		return nil, err
	}
	if reach := (float64(g.size)/cfg.Scale + offsetSpan) * cfg.maxFrequency(); math.IsInf(reach, 0) {
		return nil, fmt.Errorf("%w: %d cells at scale %v overflow the last octave's coordinates", field.ErrInvalidConfig, g.size, cfg.Scale)
	}

	out, err := field.New(g.size)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	for z := 0; z < g.size; z++ {
		for x := 0; x < g.size; x++ {
			out.Set(x, z, sampler.At(float64(x), float64(z)))
		}
	}

	g.log().Debug("Generated noise field",
		"config", sampler.Config().String(),
		"size", g.size,
		"elapsed", time.Since(start),
	)
	return out, nil
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
