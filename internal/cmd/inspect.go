package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/MeKo-Tech/terrainnoise/internal/fieldstore"
	"github.com/MeKo-Tech/terrainnoise/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <store>",
	Short: "List the fields held in a SQLite field store",
	Long: `Print the metadata and stored fields of a field store written by
visualize or boulders. With --export, every field is rendered into a directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("export", "", "Render every stored field into this directory")
	addImageFlags(inspectCmd, "inspect")

	if err := viper.BindPFlag("inspect.export", inspectCmd.Flags().Lookup("export")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	exportDir := viper.GetString("inspect.export")

	if logger == nil {
		initLogging()
	}

	r, err := fieldstore.OpenReader(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	meta, err := r.Metadata()
	if err != nil {
		return err
	}
	entries, err := r.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Store: %s (%s) version %s, seed %d, size %d\n",
		meta.Name, meta.Description, meta.Version, meta.Seed, meta.Size)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSEED\tSIZE\tMIN\tMAX\tMEAN")
	var layers []pipeline.Layer
	for _, e := range entries {
		f, err := r.ReadField(e.Name, e.Seed, e.Size)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", e, err)
		}
		lo, hi := f.Bounds()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%.3f\t%.3f\n", e.Name, e.Seed, e.Size, lo, hi, f.Mean())
		layers = append(layers, pipeline.Layer{
			Name:  fmt.Sprintf("seed%d_%d_%s", e.Seed, e.Size, e.Name),
			Title: pipeline.Title(e.Name),
			Field: f,
		})
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if exportDir == "" {
		return nil
	}
	imgOpts, err := readImageOptions("inspect")
	if err != nil {
		return err
	}
	paths, err := writeLayers(exportDir, layers, imgOpts)
	if err != nil {
		return err
	}
	logger.Info("Fields exported", "count", len(paths), "dir", exportDir)
	return nil
}
