package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/MeKo-Tech/terrainnoise/internal/fieldstore"
	"github.com/MeKo-Tech/terrainnoise/internal/pipeline"
	"github.com/MeKo-Tech/terrainnoise/internal/render"
	"github.com/MeKo-Tech/terrainnoise/internal/terrain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeVersion is written into the metadata of every field store.
const storeVersion = "1.0"

// imageOptions controls how layers are written to disk.
type imageOptions struct {
	format  render.Format
	upscale int
	smooth  float32
}

// addImageFlags registers the output flags shared by the rendering commands
// and binds them under prefix.
func addImageFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().String("format", "png", "Image format: png or tiff")
	cmd.Flags().Int("upscale", 1, "Integer upscale factor for output images")
	cmd.Flags().Float32("smooth", 0, "Gaussian blur sigma applied before upscaling (0 disables)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{prefix + ".format", "format"},
		{prefix + ".upscale", "upscale"},
		{prefix + ".smooth", "smooth"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, cmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func readImageOptions(prefix string) (imageOptions, error) {
	format, err := render.ParseFormat(viper.GetString(prefix + ".format"))
	if err != nil {
		return imageOptions{}, err
	}
	upscale := viper.GetInt(prefix + ".upscale")
	if upscale < 1 {
		return imageOptions{}, fmt.Errorf("--upscale must be >= 1, got %d", upscale)
	}
	smooth := float32(viper.GetFloat64(prefix + ".smooth"))
	if smooth < 0 {
		return imageOptions{}, fmt.Errorf("--smooth must be >= 0, got %g", smooth)
	}
	return imageOptions{format: format, upscale: upscale, smooth: smooth}, nil
}

// loadPresets starts from the stock presets and applies any "presets"
// section from v.
func loadPresets(v *viper.Viper) (terrain.Presets, error) {
	presets := terrain.DefaultPresets()
	if v.IsSet("presets") {
		if err := v.UnmarshalKey("presets", &presets); err != nil {
			return terrain.Presets{}, fmt.Errorf("failed to read presets: %w", err)
		}
	}
	if err := presets.Validate(); err != nil {
		return terrain.Presets{}, err
	}
	return presets, nil
}

// runnerOptions collects the root flags into pipeline options.
func runnerOptions(workers int) (pipeline.Options, error) {
	presets, err := loadPresets(viper.GetViper())
	if err != nil {
		return pipeline.Options{}, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	opts := pipeline.DefaultOptions(viper.GetInt64("seed"), viper.GetInt("size"))
	opts.Presets = presets
	opts.Workers = workers
	return opts, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// layerRange picks the gray ramp of a layer. Masks and densities, matched by
// name suffix, live in [0,1]; everything else is stretched to its own bounds.
func layerRange(l pipeline.Layer) render.Range {
	if strings.HasSuffix(l.Name, pipeline.LayerMask) || strings.HasSuffix(l.Name, pipeline.LayerDensity) {
		return render.UnitRange
	}
	return render.AutoRange(l.Field)
}

// writeLayers renders every layer into dir and returns the written paths.
func writeLayers(dir string, layers []pipeline.Layer, opts imageOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(layers))
	for _, l := range layers {
		path := filepath.Join(dir, l.Name+opts.format.Ext())
		if err := writeImage(path, l.Field, layerRange(l), opts); err != nil {
			return paths, fmt.Errorf("layer %s: %w", l.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeImage(path string, f *field.Scalar, r render.Range, opts imageOptions) error {
	var img image.Image
	if opts.format == render.FormatTIFF {
		img = render.Gray16(f, r)
	} else {
		img = render.Gray(f, r)
	}
	img = render.Smooth(img, opts.smooth)
	return render.Save(path, render.Upscale(img, opts.upscale))
}

// storeLayers persists layers into a SQLite field store at path.
func storeLayers(path, name string, seed int64, size int, layers []pipeline.Layer) error {
	w, err := fieldstore.New(path, fieldstore.Metadata{
		Name:        name,
		Description: "Terrain noise fields",
		Version:     storeVersion,
		Seed:        seed,
		Size:        size,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create field store: %w", err)
	}

	for _, l := range layers {
		if err := w.WriteField(l.Name, seed, l.Field); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
