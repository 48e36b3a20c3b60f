// Package pipeline composes noise generation, terrain derivation, blending
// and placement into the comparison and boulder-placement flows.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/MeKo-Tech/terrainnoise/internal/noise"
	"github.com/MeKo-Tech/terrainnoise/internal/terrain"
	"github.com/MeKo-Tech/terrainnoise/internal/worker"
)

// DefaultBlendFactor weights the boulder noise added onto continentalness
// in the comparison flow.
const DefaultBlendFactor = 0.3

// Layer is one named output field.
type Layer struct {
	Name  string
	Title string
	Field *field.Scalar
}

var titles = map[string]string{
	string(terrain.Continentalness): "Continentalness (Base Terrain)",
	string(terrain.Erosion):         "Erosion (Terrain Smoothness)",
	string(terrain.Ridges):          "Ridges (Mountain Peaks)",
	string(terrain.Boulders):        "Boulder Noise (Custom Feature)",
	string(terrain.BoulderPattern):  "Boulder Noise Pattern (Raw)",
	LayerCombined:                   "Combined (Terrain + Boulders)",
	LayerTerrainAware:               "Terrain-Aware Boulders (Scaled by Height)",
	LayerMask:                       "Boulder Placement (Above Threshold)",
	LayerDensity:                    "Boulder Density (Local Concentration)",
	LayerSpacing:                    "Boulder Spacing (Distance to Nearest)",
}

// Names of layers that are not terrain signals.
const (
	LayerCombined     = "combined"
	LayerTerrainAware = "terrain_aware"
	LayerMask         = "placement_mask"
	LayerDensity      = "density"
	LayerSpacing      = "spacing"
)

// Title returns the display title of a layer name.
func Title(name string) string {
	if t, ok := titles[name]; ok {
		return t
	}
	return name
}

func newLayer(name string, f *field.Scalar) Layer {
	return Layer{Name: name, Title: Title(name), Field: f}
}

// Options configures a Runner.
type Options struct {
	OnProgress worker.ProgressFunc
	Presets    terrain.Presets
	Seed       int64
	Size       int
	Workers    int
}

// DefaultOptions returns options with the stock presets.
func DefaultOptions(seed int64, size int) Options {
	return Options{
		Presets: terrain.DefaultPresets(),
		Seed:    seed,
		Size:    size,
		Workers: 1,
	}
}

// Runner builds layer sets for one seed and grid size.
type Runner struct {
	deriver    *terrain.Deriver
	logger     *slog.Logger
	onProgress worker.ProgressFunc
	workers    int
}

// NewRunner validates opts and prepares the generator and deriver.
func NewRunner(opts Options, logger *slog.Logger) (*Runner, error) {
	gen, err := noise.NewGenerator(opts.Size, logger)
	if err != nil {
		return nil, err
	}
	deriver, err := terrain.NewDeriver(gen, opts.Seed, opts.Presets)
	if err != nil {
		return nil, err
	}
	return &Runner{
		deriver:    deriver,
		logger:     logger,
		onProgress: opts.OnProgress,
		workers:    opts.Workers,
	}, nil
}

// Seed returns the seed all layers derive from.
func (r *Runner) Seed() int64 { return r.deriver.Seed() }

// layerBuilder adapts a Deriver to worker.Builder.
type layerBuilder struct {
	deriver *terrain.Deriver
}

func (b layerBuilder) Build(ctx context.Context, layer string) (*field.Scalar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.deriver.Derive(terrain.Signal(layer))
}

// derive builds the given signals in parallel and returns them in order.
func (r *Runner) derive(ctx context.Context, signals ...terrain.Signal) ([]*field.Scalar, error) {
	tasks := make([]worker.Task, len(signals))
	for i, s := range signals {
		tasks[i] = worker.Task{Layer: string(s)}
	}

	pool := worker.New(worker.Config{
		Workers:    r.workers,
		Builder:    layerBuilder{deriver: r.deriver},
		OnProgress: r.onProgress,
	})

	start := time.Now()
	results := pool.Run(ctx, tasks)

	fields := make([]*field.Scalar, len(results))
	var errs []error
	for i, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("layer %s: %w", res.Task.Layer, res.Err))
			continue
		}
		r.log().Debug("Layer built", "layer", res.Task.Layer, "elapsed", res.Elapsed)
		fields[i] = res.Field
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	r.log().Info("Derived terrain signals",
		"count", len(signals),
		"seed", r.Seed(),
		"workers", r.workers,
		"elapsed", time.Since(start),
	)
	return fields, nil
}

func (r *Runner) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
