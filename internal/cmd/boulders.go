package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/terrainnoise/internal/pipeline"
	"github.com/MeKo-Tech/terrainnoise/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var bouldersCmd = &cobra.Command{
	Use:   "boulders",
	Short: "Place boulders on terrain-gated noise",
	Long: `Gate boulder pattern noise by normalized continentalness, mark cells above the
threshold as placements, and measure local placement density.`,
	RunE: runBoulders,
}

func init() {
	rootCmd.AddCommand(bouldersCmd)

	defaults := pipeline.DefaultBoulderOptions()
	bouldersCmd.Flags().Float64("threshold", defaults.Threshold, "Placement threshold; cells strictly above it hold a boulder")
	bouldersCmd.Flags().Int("window", defaults.DensityWindow, "Side length of the density averaging window")
	bouldersCmd.Flags().Float64("max-spacing", defaults.MaxSpacing, "Cap of the nearest-boulder distance field, in cells")
	bouldersCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	bouldersCmd.Flags().Bool("progress", true, "Show progress bar while building layers")
	bouldersCmd.Flags().String("store", "", "Also persist the fields to this SQLite file")
	addImageFlags(bouldersCmd, "boulders")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"boulders.threshold", "threshold"},
		{"boulders.window", "window"},
		{"boulders.max_spacing", "max-spacing"},
		{"boulders.workers", "workers"},
		{"boulders.progress", "progress"},
		{"boulders.store", "store"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, bouldersCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runBoulders(cmd *cobra.Command, args []string) error {
	boulderOpts := pipeline.BoulderOptions{
		Threshold:     viper.GetFloat64("boulders.threshold"),
		DensityWindow: viper.GetInt("boulders.window"),
		MaxSpacing:    viper.GetFloat64("boulders.max_spacing"),
	}
	workers := viper.GetInt("boulders.workers")
	showProgress := viper.GetBool("boulders.progress")
	storePath := viper.GetString("boulders.store")
	outputDir := viper.GetString("output-dir")

	if logger == nil {
		initLogging()
	}

	imgOpts, err := readImageOptions("boulders")
	if err != nil {
		return err
	}
	opts, err := runnerOptions(workers)
	if err != nil {
		return err
	}

	logger.Info("Starting boulder placement",
		"seed", opts.Seed,
		"size", opts.Size,
		"threshold", boulderOpts.Threshold,
		"window", boulderOpts.DensityWindow,
		"output_dir", outputDir,
	)

	progress := worker.NewProgress(2, "layers", showProgress)
	opts.OnProgress = progress.Callback()

	runner, err := pipeline.NewRunner(opts, logger)
	if err != nil {
		return fmt.Errorf("failed to init runner: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := runner.Boulders(ctx, boulderOpts)
	progress.Done()
	if err != nil {
		return fmt.Errorf("boulder placement failed: %w", err)
	}

	layers := res.Layers()
	paths, err := writeLayers(outputDir, layers, imgOpts)
	if err != nil {
		return err
	}
	logger.Info("Boulder layers written", "count", len(paths), "output_dir", outputDir)

	if storePath != "" {
		if err := storeLayers(storePath, "boulders", opts.Seed, opts.Size, layers); err != nil {
			return err
		}
		logger.Info("Fields stored", "path", storePath, "count", len(layers))
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Stats.String())
	return nil
}
