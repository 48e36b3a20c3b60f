package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/terrainnoise/internal/pipeline"
	"github.com/MeKo-Tech/terrainnoise/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render the terrain signal comparison",
	Long: `Generate continentalness, erosion, ridges and boulder noise for one seed,
blend the boulders onto continentalness, and write one grayscale image per layer.`,
	RunE: runVisualize,
}

func init() {
	rootCmd.AddCommand(visualizeCmd)

	visualizeCmd.Flags().Float64("blend", pipeline.DefaultBlendFactor, "Weight of boulder noise added onto continentalness")
	visualizeCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	visualizeCmd.Flags().Bool("progress", true, "Show progress bar while building layers")
	visualizeCmd.Flags().String("store", "", "Also persist the fields to this SQLite file")
	addImageFlags(visualizeCmd, "visualize")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"visualize.blend", "blend"},
		{"visualize.workers", "workers"},
		{"visualize.progress", "progress"},
		{"visualize.store", "store"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, visualizeCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runVisualize(cmd *cobra.Command, args []string) error {
	blend := viper.GetFloat64("visualize.blend")
	workers := viper.GetInt("visualize.workers")
	showProgress := viper.GetBool("visualize.progress")
	storePath := viper.GetString("visualize.store")
	outputDir := viper.GetString("output-dir")

	if logger == nil {
		initLogging()
	}

	imgOpts, err := readImageOptions("visualize")
	if err != nil {
		return err
	}
	opts, err := runnerOptions(workers)
	if err != nil {
		return err
	}

	logger.Info("Starting terrain comparison",
		"seed", opts.Seed,
		"size", opts.Size,
		"blend", blend,
		"workers", opts.Workers,
		"output_dir", outputDir,
		"format", imgOpts.format,
	)

	progress := worker.NewProgress(4, "layers", showProgress)
	opts.OnProgress = progress.Callback()

	runner, err := pipeline.NewRunner(opts, logger)
	if err != nil {
		return fmt.Errorf("failed to init runner: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	layers, err := runner.Comparison(ctx, blend)
	progress.Done()
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	logger.Info(progress.Summary())

	paths, err := writeLayers(outputDir, layers, imgOpts)
	if err != nil {
		return err
	}
	for i, l := range layers {
		lo, hi := l.Field.Bounds()
		logger.Info("Layer written",
			"layer", l.Title,
			"path", paths[i],
			"min", fmt.Sprintf("%.3f", lo),
			"max", fmt.Sprintf("%.3f", hi),
		)
	}

	if storePath != "" {
		if err := storeLayers(storePath, "comparison", opts.Seed, opts.Size, layers); err != nil {
			return err
		}
		logger.Info("Fields stored", "path", storePath, "count", len(layers))
	}

	return nil
}
