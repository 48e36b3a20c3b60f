package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Skew factors of the 2D OpenSimplex lattice.
const (
	simplexStretch = -0.211324865405187 // (1/sqrt(3)-1)/2
	simplexSquish  = 0.366025403784439  // (sqrt(3)-1)/2
)

// primitive is a single octave of lattice noise.
type primitive interface {
	Eval2(a, b float64) float64
}

// perlinOctave adapts a one-octave go-perlin generator to primitive.
type perlinOctave struct {
	*perlin.Perlin
}

func newPerlinOctave(seed int64) perlinOctave {
	return perlinOctave{perlin.NewPerlin(2.0, 2.0, 1, seed)}
}

func (p perlinOctave) Eval2(a, b float64) float64 { return p.Noise2D(a, b) }

// wrapPeriod folds v onto [0, offsetSpan). Both primitives index their
// gradient tables modulo offsetSpan, so folding keeps the value and holds the
// coordinate far from the primitives' integer conversion limits.
func wrapPeriod(v float64) float64 {
	v = math.Mod(v, offsetSpan)
	if v < 0 {
		v += offsetSpan
	}
	return v
}

// wrapPerlin folds both axes of the axis-aligned Perlin lattice.
func wrapPerlin(a, b float64) (float64, float64) {
	return wrapPeriod(a), wrapPeriod(b)
}

// wrapSimplex folds a point in the skewed simplex lattice and maps it back,
// so the primitive sees the same cell and the same offsets within it.
func wrapSimplex(a, b float64) (float64, float64) {
	stretch := (a + b) * simplexStretch
	as, bs := wrapPeriod(a+stretch), wrapPeriod(b+stretch)
	squish := (as + bs) * simplexSquish
	return as + squish, bs + squish
}
