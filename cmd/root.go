package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cellseg",
		Short: "Web front-end for pretrained cell-segmentation models",
		Long: `Cellseg is a browser-based front-end for cell segmentation in microscopy
images. All inference runs behind a pluggable engine (a Cellpose-compatible
inference server or a local ONNX session); cellseg handles uploads, parameter
selection, and rendering and exporting the returned label masks.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSegmentCmd())
	cmd.AddCommand(newBatchCmd())

	return cmd
}
