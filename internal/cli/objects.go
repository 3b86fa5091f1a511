package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pgm-vision/internal/labeling"
	"github.com/ironsheep/pgm-vision/internal/objects"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

func (a *app) newLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label <input> <output>",
		Short: "Label the connected objects of a binary image",
		Long: `Segments a binary image into connected regions. Background pixels are 0 and
every object gets its own number 1..N, in the order its first pixel appears
in a row-major scan. Gray inputs are thresholded first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readImage(args[0])
			if err != nil {
				return err
			}
			if g.Levels > 1 {
				t := a.cfg.Threshold
				if cmd.Flags().Changed("threshold") {
					t, _ = cmd.Flags().GetInt("threshold")
				}
				raster.Threshold(g, t)
			}

			out, res := labeling.LabelBinary(g)
			a.debugf("%d provisional labels", res.Provisional)
			fmt.Fprintf(cmd.OutOrStdout(), "Number of objects: %d\n", res.Count)

			if err := a.writeImage(args[1], out); err != nil {
				return err
			}
			if preview, _ := cmd.Flags().GetString("preview"); preview != "" {
				return raster.SavePreview(preview, out, raster.PreviewOptions{Colorize: true})
			}
			return nil
		},
	}
	cmd.Flags().Int("threshold", 0, "gray-level threshold for non-binary inputs (default from config)")
	cmd.Flags().String("preview", "", "also write a colorized PNG preview to this path")
	return cmd
}

func (a *app) newThresholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold <input> <threshold> <output>",
		Short: "Convert a gray-level image to a binary image",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := intArg(args[1], "threshold")
			if err != nil {
				return err
			}
			g, err := a.readImage(args[0])
			if err != nil {
				return err
			}
			if keep, _ := cmd.Flags().GetBool("keep"); keep {
				raster.ThresholdKeep(g, t)
			} else {
				raster.Threshold(g, t)
			}
			return a.writeImage(args[2], g)
		},
	}
	cmd.Flags().Bool("keep", false, "keep the gray value of pixels above the threshold")
	return cmd
}

// labeledDatabase reads a labeled image and measures its objects.
func labeledDatabase(path string) (*raster.Grid, *objects.Database, error) {
	g, err := raster.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("can't open file %s: %w", path, err)
	}
	db := objects.FromLabeled(g)
	db.CalculateProperties()
	return g, db, nil
}

func (a *app) newPropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties <labeled> <database> <output>",
		Short: "Measure labeled objects and draw their position and orientation",
		Long: `Computes area, center, orientation and moments of inertia of every object
of a labeled image, saves them as a database and writes a copy of the image
with a dot at each center and a line along each object's axis.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, db, err := labeledDatabase(args[0])
			if err != nil {
				return err
			}
			if err := db.SaveFile(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Number of objects: %d\n", db.Len())

			objects.Annotate(g, db, false, a.cfg.Objects.NeedleLength)
			return a.writeImage(args[2], g)
		},
	}
}

func (a *app) newRecognizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recognize <labeled> <database> <output>",
		Short: "Mark objects that match a known object database",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			known, err := objects.LoadFile(args[1])
			if err != nil {
				return err
			}
			g, db, err := labeledDatabase(args[0])
			if err != nil {
				return err
			}

			n := db.Recognize(known, a.cfg.Criteria())
			fmt.Fprintf(cmd.OutOrStdout(), "Recognized %d of %d objects\n", n, db.Len())

			objects.Annotate(g, db, true, a.cfg.Objects.NeedleLength)
			return a.writeImage(args[2], g)
		},
	}
}
