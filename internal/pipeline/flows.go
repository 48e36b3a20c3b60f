package pipeline

import (
	"context"
	"fmt"

	"github.com/MeKo-Tech/terrainnoise/internal/combine"
	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/MeKo-Tech/terrainnoise/internal/placement"
	"github.com/MeKo-Tech/terrainnoise/internal/terrain"
)

// Comparison builds continentalness, erosion, ridges and boulder noise, then
// blends the boulders onto continentalness with the given factor. Layers are
// returned in that order, the blend last.
func (r *Runner) Comparison(ctx context.Context, blend float64) ([]Layer, error) {
	signals := []terrain.Signal{
		terrain.Continentalness,
		terrain.Erosion,
		terrain.Ridges,
		terrain.Boulders,
	}
	fields, err := r.derive(ctx, signals...)
	if err != nil {
		return nil, err
	}

	combined, err := combine.Additive(fields[0], fields[3], blend)
	if err != nil {
		return nil, err
	}

	layers := make([]Layer, 0, len(signals)+1)
	for i, s := range signals {
		layers = append(layers, newLayer(string(s), fields[i]))
	}
	layers = append(layers, newLayer(LayerCombined, combined))
	return layers, nil
}

// BoulderOptions tunes the placement flow. MaxSpacing caps the
// nearest-placement distance field, in cells.
type BoulderOptions struct {
	Threshold     float64
	DensityWindow int
	MaxSpacing    float64
}

// DefaultBoulderOptions returns threshold 0.2, an 8-cell density window and
// spacing capped at 32 cells.
func DefaultBoulderOptions() BoulderOptions {
	return BoulderOptions{Threshold: 0.2, DensityWindow: 8, MaxSpacing: 32}
}

// BoulderResult holds every intermediate field of the placement flow.
type BoulderResult struct {
	BaseTerrain  *field.Scalar
	Pattern      *field.Scalar
	Gate         *field.Scalar
	TerrainAware *field.Scalar
	Mask         *field.Scalar
	Density      *field.Scalar
	Spacing      *field.Scalar
	Stats        placement.Stats
}

// Layers returns the result fields in presentation order. The gate is an
// intermediate and is left out.
func (b *BoulderResult) Layers() []Layer {
	return []Layer{
		newLayer(string(terrain.Continentalness), b.BaseTerrain),
		newLayer(string(terrain.BoulderPattern), b.Pattern),
		newLayer(LayerTerrainAware, b.TerrainAware),
		newLayer(LayerMask, b.Mask),
		newLayer(LayerDensity, b.Density),
		newLayer(LayerSpacing, b.Spacing),
	}
}

// Boulders places boulders where pattern noise, gated by normalized
// continentalness, exceeds the threshold, and measures their local density
// and spacing.
func (r *Runner) Boulders(ctx context.Context, opts BoulderOptions) (*BoulderResult, error) {
	fields, err := r.derive(ctx, terrain.Continentalness, terrain.BoulderPattern)
	if err != nil {
		return nil, err
	}
	base, pattern := fields[0], fields[1]

	gate, err := combine.NormalizeOrZero(base)
	if err != nil {
		return nil, fmt.Errorf("normalize terrain: %w", err)
	}
	aware, err := combine.Multiply(pattern, gate)
	if err != nil {
		return nil, err
	}
	mask, err := placement.Threshold(aware, opts.Threshold)
	if err != nil {
		return nil, err
	}
	density, err := placement.Density(mask, opts.DensityWindow)
	if err != nil {
		return nil, err
	}
	spacing, err := placement.Spacing(mask, opts.MaxSpacing)
	if err != nil {
		return nil, err
	}

	stats, err := placement.Summarize(base, mask, density)
	if err != nil {
		return nil, err
	}
	stats.Threshold = opts.Threshold
	stats.DensityWindow = opts.DensityWindow
	stats.MeanSpacing = spacing.Mean()

	r.log().Info("Boulder placement complete",
		"seed", r.Seed(),
		"placed", stats.PlacedCells,
		"total", stats.TotalCells,
		"coverage_pct", fmt.Sprintf("%.2f", stats.Coverage),
		"max_density", fmt.Sprintf("%.3f", stats.MaxDensity),
	)

	return &BoulderResult{
		BaseTerrain:  base,
		Pattern:      pattern,
		Gate:         gate,
		TerrainAware: aware,
		Mask:         mask,
		Density:      density,
		Spacing:      spacing,
		Stats:        stats,
	}, nil
}
