package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"inpaint-masker/internal/mask"
	"inpaint-masker/internal/services"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newExtractCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract <layer.png>",
		Short: "Convert a painted layer PNG into a mask PNG",
		Long: `Reads a PNG whose painted pixels are non-transparent and writes the
matching binary mask: painted pixels white, everything else black.

Examples:
  inpaint-masker extract strokes.png
  inpaint-masker extract strokes.png -o out/mask.png
  inpaint-masker extract strokes.png -o - > mask.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			log, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			extractor, err := mask.NewExtractor(cfg.MaskBackend)
			if err != nil {
				return err
			}
			svc := services.NewMaskService(extractor, log)

			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open layer: %w", err)
			}
			defer in.Close()

			var buf bytes.Buffer
			result, err := svc.ConvertLayer(cmd.Context(), in, &buf)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			// The output is replaced only once the mask is complete.
			d := services.NewDirDeliverer(filepath.Dir(output))
			if err := d.Deliver(cmd.Context(), filepath.Base(output), buf.Bytes()); err != nil {
				return err
			}

			w, h := result.Size()
			fmt.Fprintf(cmd.ErrOrStderr(), "mask written: %s (%dx%d, %s, backend %s)\n",
				output, w, h, humanize.Bytes(uint64(len(result.PNG))), result.Backend)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", mask.FileName, "output file, - for stdout")
	return cmd
}
