package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cellseg-labs/cellseg/internal/batch"
)

func newBatchCmd() *cobra.Command {
	var flags paramFlags
	var parquetOut string
	var summaryOut string

	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Segment every image in a directory",
		Long: `Runs the segmentation engine over every supported image in a directory.

Each image gets the same artifact bundle as a single run. Per-image results
are written to a Parquet file for downstream analysis and a YAML summary
for reading.`,
		Example: `  # Batch a plate of images with the nuclei model
  cellseg batch ./plate01 --model nuclei --diameter 17

  # Custom report locations
  cellseg batch ./plate01 --parquet run.parquet --summary run.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			params := flags.params()
			if err := flags.validate(params); err != nil {
				return err
			}

			eng, closeEngine, err := newEngine()
			if err != nil {
				return err
			}
			defer closeEngine()

			runner := &batch.Runner{
				Engine:         eng,
				Params:         params,
				DisplayChannel: flags.displayChannel,
				Colormap:       flags.colormap,
				OutputDir:      flags.outputDir,
			}

			records, err := runner.Run(cmd.Context(), dir)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(flags.outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			timestamp := time.Now().Format("2006-01-02_15-04-05")
			if parquetOut == "" {
				parquetOut = filepath.Join(flags.outputDir, "batch_"+timestamp+".parquet")
			}
			if summaryOut == "" {
				summaryOut = filepath.Join(flags.outputDir, "batch_"+timestamp+".yaml")
			}

			if err := batch.WriteParquet(parquetOut, records); err != nil {
				return err
			}
			config := batch.RunConfig{
				Engine:            eng.Name(),
				Model:             params.Model,
				Diameter:          params.Diameter,
				FlowThreshold:     params.FlowThreshold,
				CellprobThreshold: params.CellprobThreshold,
				InputDir:          dir,
				OutputDir:         flags.outputDir,
				Timestamp:         timestamp,
			}
			if err := batch.WriteSummaryYAML(summaryOut, config, records); err != nil {
				return err
			}

			failures := 0
			cells := 0
			for _, record := range records {
				if record.Error != "" {
					failures++
					continue
				}
				cells += int(record.CellCount)
			}
			fmt.Printf("Processed %d images (%d failed), %d cells total\n", len(records), failures, cells)
			fmt.Println(parquetOut)
			fmt.Println(summaryOut)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&parquetOut, "parquet", "", "Path for the Parquet results file (default under --output-dir)")
	cmd.Flags().StringVar(&summaryOut, "summary", "", "Path for the YAML run summary (default under --output-dir)")

	return cmd
}
