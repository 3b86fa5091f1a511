package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pgm-vision/internal/batch"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

func (a *app) batchOptions(cmd *cobra.Command) batch.Options {
	opts := batch.Options{Workers: a.cfg.Batch.Workers, Threshold: a.cfg.Threshold, Import: a.cfg.ImportOptions()}
	if cmd.Flags().Changed("workers") {
		opts.Workers, _ = cmd.Flags().GetInt("workers")
	}
	return opts
}

func (a *app) newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <manifest.toml>",
		Short: "Label every image listed in a TOML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := batch.LoadManifest(args[0])
			if err != nil {
				return err
			}
			opts := a.batchOptions(cmd)
			if cmd.Flags().Changed("workers") {
				m.Defaults.Workers = 0
			}

			results, runErr := batch.RunManifest(cmd.Context(), m, opts)
			for _, r := range results {
				printResult(cmd, r)
			}
			ok, failed := batch.Summary(results)
			fmt.Fprintf(cmd.OutOrStdout(), "%d labeled, %d failed\n", ok, failed)

			if runErr != nil {
				return runErr
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "number of concurrent jobs (default from manifest or config)")
	return cmd
}

func printResult(cmd *cobra.Command, r batch.Result) {
	if r.Err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", r.Task.Name, r.Err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d objects -> %s\n", r.Task.Name, r.Objects, r.Task.Output)
}

func (a *app) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir> <output-dir>",
		Short: "Label every image written to a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(args[1], 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			w, err := batch.NewWatcher(args[0], nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			preview, _ := cmd.Flags().GetBool("preview")
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl-C to stop)\n", args[0])
			return batch.Watch(ctx, w, args[1], preview, a.batchOptions(cmd),
				func(r batch.Result) { printResult(cmd, r) })
		},
	}
	cmd.Flags().Bool("preview", false, "also write colorized PNG previews")
	return cmd
}

func (a *app) newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <input> <output.png>",
		Short: "Render an image as PNG, optionally coloring each label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readImage(args[0])
			if err != nil {
				return err
			}
			scale, _ := cmd.Flags().GetFloat64("scale")
			colorize, _ := cmd.Flags().GetBool("colorize")
			return raster.SavePreview(args[1], g, raster.PreviewOptions{Scale: scale, Colorize: colorize})
		},
	}
	cmd.Flags().Float64("scale", 1, "scale factor")
	cmd.Flags().Bool("colorize", false, "paint each label with its own color")
	return cmd
}
