package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pgm-vision/internal/edges"
	"github.com/ironsheep/pgm-vision/internal/hough"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

func (a *app) newEdgesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edges <input> <output>",
		Short: "Smooth an image and compute its edge magnitude",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readImage(args[0])
			if err != nil {
				return err
			}
			edges.Gaussian5x5(g)

			var out *raster.Grid
			if laplacian, _ := cmd.Flags().GetBool("laplacian"); laplacian {
				out = edges.Laplacian(g)
			} else {
				out = edges.Sobel(g)
			}
			return a.writeImage(args[1], out)
		},
	}
	cmd.Flags().Bool("laplacian", false, "use the Laplacian instead of the Sobel operator")
	return cmd
}

func (a *app) newHoughCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hough <edges> <output>",
		Short: "Compute the Hough transform of a binary edge image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readImage(args[0])
			if err != nil {
				return err
			}
			space := hough.Transform(g.BinaryCopy())
			fmt.Fprintf(cmd.OutOrStdout(), "Maximum votes: %d\n", space.MaxVotes)
			return a.writeImage(args[1], space.Votes)
		},
	}
}

func (a *app) newLinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines <original> <hough> <threshold> <output>",
		Short: "Draw the lines found in a Hough image over the original image",
		Long: `Finds the peaks of a Hough image above threshold, merges nearby peaks and
draws the corresponding lines across the original image. With --edges-out a
second image is written in which lines are drawn only over detected edges.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := intArg(args[2], "threshold")
			if err != nil {
				return err
			}
			original, err := a.readImage(args[0])
			if err != nil {
				return err
			}
			votes, err := a.readImage(args[1])
			if err != nil {
				return err
			}

			opts := a.cfg.HoughOptions()
			opts.Threshold = t
			shift := hough.RhoShiftFor(original.Rows(), original.Cols())
			peaks := hough.FindPeaks(votes, shift, opts)
			fmt.Fprintf(cmd.OutOrStdout(), "Number of lines: %d\n", len(peaks))
			for _, p := range peaks {
				a.debugf("line rho=%.2f theta=%.2f weight=%d", p.Rho, p.Theta, p.Weight)
			}

			full := original.Clone()
			hough.DrawLines(full, peaks, 255, nil)
			if err := a.writeImage(args[3], full); err != nil {
				return err
			}

			if edgesOut, _ := cmd.Flags().GetString("edges-out"); edgesOut != "" {
				mask := edges.EdgeMask(original, a.cfg.Hough.EdgeThreshold)
				clipped := original.Clone()
				hough.DrawLines(clipped, peaks, 255, mask)
				return a.writeImage(edgesOut, clipped)
			}
			return nil
		},
	}
	cmd.Flags().String("edges-out", "", "also write lines clipped to detected edges to this path")
	return cmd
}
