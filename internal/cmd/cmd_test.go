package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/MeKo-Tech/terrainnoise/internal/fieldstore"
	"github.com/MeKo-Tech/terrainnoise/internal/noise"
	"github.com/MeKo-Tech/terrainnoise/internal/pipeline"
	"github.com/MeKo-Tech/terrainnoise/internal/render"
	"github.com/MeKo-Tech/terrainnoise/internal/terrain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yamlViper(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return v
}

func TestLoadPresetsDefaults(t *testing.T) {
	presets, err := loadPresets(viper.New())
	require.NoError(t, err)
	assert.Equal(t, terrain.DefaultPresets(), presets)
}

func TestLoadPresetsOverride(t *testing.T) {
	v := yamlViper(t, `
presets:
  ridges:
    octaves: 2
    scale: 25
`)
	presets, err := loadPresets(v)
	require.NoError(t, err)

	defaults := terrain.DefaultPresets()
	assert.Equal(t, 2, presets.Ridges.Octaves)
	assert.Equal(t, 25.0, presets.Ridges.Scale)
	assert.Equal(t, defaults.Ridges.Persistence, presets.Ridges.Persistence, "unset keys keep their defaults")
	assert.Equal(t, defaults.Continentalness, presets.Continentalness)
}

func TestLoadPresetsRejectsInvalid(t *testing.T) {
	v := yamlViper(t, `
presets:
  erosion:
    octaves: 0
`)
	_, err := loadPresets(v)
	require.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestLayerRange(t *testing.T) {
	f, err := field.FromRows([][]float64{{0.2, 0.4}, {0.6, 0.8}})
	require.NoError(t, err)

	tests := []struct {
		name string
		want render.Range
	}{
		{pipeline.LayerMask, render.UnitRange},
		{"noise_" + pipeline.LayerMask, render.UnitRange},
		{"seed1_16_" + pipeline.LayerDensity, render.UnitRange},
		{string(terrain.Continentalness), render.Range{Lo: 0.2, Hi: 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layerRange(pipeline.Layer{Name: tt.name, Field: f}))
		})
	}
}

func TestWriteLayers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	f, err := field.Filled(4, 0.5)
	require.NoError(t, err)
	layers := []pipeline.Layer{{Name: "a", Field: f}, {Name: "b", Field: f}}

	paths, err := writeLayers(dir, layers, imageOptions{format: render.FormatTIFF, upscale: 2})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a.tiff"), paths[0])
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestStoreLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.db")
	f, err := field.FromRows([][]float64{{-1, 0.5}, {0.25, 1}})
	require.NoError(t, err)

	require.NoError(t, storeLayers(path, "test", 9, 2, []pipeline.Layer{{Name: "ridges", Field: f}}))

	r, err := fieldstore.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadField("ridges", 9, 2)
	require.NoError(t, err)
	assert.True(t, got.Equal(f))

	meta, err := r.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "test", meta.Name)
	assert.Equal(t, int64(9), meta.Seed)
}

func TestNoiseConfigAcceptsSimplex(t *testing.T) {
	viper.Set("noise.algorithm", "simplex")
	t.Cleanup(func() { viper.Set("noise.algorithm", string(noise.AlgorithmPerlin)) })

	cfg, err := noiseConfig()
	require.NoError(t, err)
	assert.Equal(t, noise.AlgorithmSimplex, cfg.Algorithm)
}

func executeCommand(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestBouldersAndInspectCommands(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "fields.db")

	out := executeCommand(t, "boulders",
		"--size", "32",
		"--seed", "42",
		"--output-dir", dir,
		"--progress=false",
		"--store", store,
	)
	assert.Contains(t, out, "cells placed")

	for _, name := range []string{"continentalness", "boulder_pattern", "terrain_aware", "placement_mask", "density", "spacing"} {
		_, err := os.Stat(filepath.Join(dir, name+".png"))
		assert.NoError(t, err, name)
	}

	out = executeCommand(t, "inspect", store)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "placement_mask")
	assert.Contains(t, out, "seed 42, size 32")
}
