package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pgm-vision/internal/photometric"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

func (a *app) newSphereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sphere <image> <threshold> <params>",
		Short: "Locate the calibration sphere and save its center and radius",
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
			raster.Threshold(g, t)

			s, err := photometric.LocateSphere(g)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sphere center (%.2f, %.2f) radius %.2f\n", s.Row, s.Col, s.Radius)
			return photometric.SaveSphereFile(args[2], s)
		},
	}
}

func (a *app) newLightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lights <params> <image1> <image2> <image3> <directions>",
		Short: "Compute light directions and intensities from three sphere images",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := photometric.LoadSphereFile(args[0])
			if err != nil {
				return err
			}
			imgs, err := a.readTriple(args[1:4])
			if err != nil {
				return err
			}
			lights, err := photometric.LightSources(s, imgs)
			if err != nil {
				return err
			}
			for k, v := range lights {
				fmt.Fprintf(cmd.OutOrStdout(), "Light %d: %.3f %.3f %.3f\n", k+1, v[0], v[1], v[2])
			}
			return photometric.SaveLightsFile(args[4], lights)
		},
	}
}

// lightMatrix loads a directions file and inverts it.
func lightMatrix(path string) (*photometric.LightMatrix, error) {
	lights, err := photometric.LoadLightsFile(path)
	if err != nil {
		return nil, err
	}
	return photometric.NewLightMatrix(lights)
}

func (a *app) newNormalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normals <directions> <image1> <image2> <image3> <step> <threshold> <output>",
		Short: "Draw a needle map of surface normals",
		Args:  cobra.ExactArgs(7),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := intArg(args[4], "step")
			if err != nil {
				return err
			}
			t, err := intArg(args[5], "threshold")
			if err != nil {
				return err
			}
			m, err := lightMatrix(args[0])
			if err != nil {
				return err
			}
			imgs, err := a.readTriple(args[1:4])
			if err != nil {
				return err
			}

			opts := a.cfg.NeedleOptions()
			opts.Step, opts.Threshold = step, t
			out, err := photometric.NeedleMap(imgs, m, opts)
			if err != nil {
				return err
			}
			return a.writeImage(args[6], out)
		},
	}
}

func (a *app) newAlbedoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "albedo <directions> <image1> <image2> <image3> <threshold> <output>",
		Short: "Compute a scaled albedo map",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := intArg(args[4], "threshold")
			if err != nil {
				return err
			}
			m, err := lightMatrix(args[0])
			if err != nil {
				return err
			}
			imgs, err := a.readTriple(args[1:4])
			if err != nil {
				return err
			}
			out, err := photometric.AlbedoMap(imgs, m, t)
			if err != nil {
				return err
			}
			return a.writeImage(args[5], out)
		},
	}
}
