package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/terrainnoise/internal/noise"
	"github.com/MeKo-Tech/terrainnoise/internal/pipeline"
	"github.com/MeKo-Tech/terrainnoise/internal/placement"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var noiseCmd = &cobra.Command{
	Use:   "noise",
	Short: "Generate a single noise field with custom parameters",
	Long: `Generate one noise field from explicit octave parameters and write it as an
image. With --threshold, a placement mask of the field is written alongside.`,
	RunE: runNoise,
}

func init() {
	rootCmd.AddCommand(noiseCmd)

	defaults := noise.DefaultConfig(0)
	noiseCmd.Flags().String("name", "noise", "Base name of the output files")
	noiseCmd.Flags().String("algorithm", string(defaults.Algorithm), "Octave accumulation: perlin, layered or simplex")
	noiseCmd.Flags().Int("octaves", defaults.Octaves, "Number of octaves")
	noiseCmd.Flags().Float64("persistence", defaults.Persistence, "Amplitude falloff per octave")
	noiseCmd.Flags().Float64("lacunarity", defaults.Lacunarity, "Frequency growth per octave")
	noiseCmd.Flags().Float64("scale", defaults.Scale, "Cells per noise unit; larger is smoother")
	noiseCmd.Flags().Float64("threshold", 0, "Also write a placement mask of cells strictly above this value")
	addImageFlags(noiseCmd, "noise")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"noise.name", "name"},
		{"noise.algorithm", "algorithm"},
		{"noise.octaves", "octaves"},
		{"noise.persistence", "persistence"},
		{"noise.lacunarity", "lacunarity"},
		{"noise.scale", "scale"},
		{"noise.threshold", "threshold"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, noiseCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// noiseConfig builds a noise.Config from the bound flags.
func noiseConfig() (noise.Config, error) {
	algorithm, err := noise.ParseAlgorithm(viper.GetString("noise.algorithm"))
	if err != nil {
		return noise.Config{}, err
	}
	cfg := noise.Config{
		Algorithm:   algorithm,
		Octaves:     viper.GetInt("noise.octaves"),
		Persistence: viper.GetFloat64("noise.persistence"),
		Lacunarity:  viper.GetFloat64("noise.lacunarity"),
		Scale:       viper.GetFloat64("noise.scale"),
		Seed:        viper.GetInt64("seed"),
	}
	return cfg, cfg.Validate()
}

func runNoise(cmd *cobra.Command, args []string) error {
	name := viper.GetString("noise.name")
	size := viper.GetInt("size")
	outputDir := viper.GetString("output-dir")

	if logger == nil {
		initLogging()
	}

	if name == "" {
		return fmt.Errorf("--name must not be empty")
	}
	cfg, err := noiseConfig()
	if err != nil {
		return err
	}
	imgOpts, err := readImageOptions("noise")
	if err != nil {
		return err
	}

	gen, err := noise.NewGenerator(size, logger)
	if err != nil {
		return err
	}
	f, err := gen.Generate(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate noise: %w", err)
	}

	layers := []pipeline.Layer{{Name: name, Title: name, Field: f}}
	if viper.IsSet("noise.threshold") {
		t := viper.GetFloat64("noise.threshold")
		mask, err := placement.Threshold(f, t)
		if err != nil {
			return err
		}
		layers = append(layers, pipeline.Layer{
			Name:  name + "_" + pipeline.LayerMask,
			Title: pipeline.Title(pipeline.LayerMask),
			Field: mask,
		})
		logger.Info("Mask built", "threshold", t, "placed", int(mask.Sum()), "total", mask.Len())
	}

	paths, err := writeLayers(outputDir, layers, imgOpts)
	if err != nil {
		return err
	}

	logger.Info("Noise written",
		"config", cfg.String(),
		"path", paths[0],
		"min", fmt.Sprintf("%.3f", f.Min()),
		"max", fmt.Sprintf("%.3f", f.Max()),
		"mean", fmt.Sprintf("%.3f", f.Mean()),
	)
	return nil
}
