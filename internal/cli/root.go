// Package cli implements the pgmvision command line.
package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/pgm-vision/internal/config"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

// BuildInfo is reported by --version.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app carries state shared by every subcommand of one root command.
type app struct {
	v   *viper.Viper
	cfg config.Config
}

// NewRootCommand builds the full command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "pgmvision",
		Short: "Binary image labeling and classic vision tools for PGM images",
		Long: `pgmvision labels the connected objects of binary P5 images and runs the
classic pipelines built on top of labeling: object properties and recognition,
edge and Hough line detection, and photometric stereo.`,
		Version:           fmt.Sprintf("%s (built %s, commit %s)", info.Version, info.BuildTime, info.GitCommit),
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	root.PersistentFlags().String("config", "", "config file (default .pgmvision.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	root.AddCommand(
		a.newLabelCmd(),
		a.newThresholdCmd(),
		a.newPropertiesCmd(),
		a.newRecognizeCmd(),
		a.newEdgesCmd(),
		a.newHoughCmd(),
		a.newLinesCmd(),
		a.newSphereCmd(),
		a.newLightsCmd(),
		a.newNormalsCmd(),
		a.newAlbedoCmd(),
		a.newBatchCmd(),
		a.newWatchCmd(),
		a.newPreviewCmd(),
	)
	return root
}

// Execute runs the command line and exits with status 1 on error.
func Execute(info BuildInfo) {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := NewRootCommand(info).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName(".pgmvision")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}
	config.BindEnv(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		// It's fine if no default config file is found; we use defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.LoadFrom(a.v)
	if err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	a.debugf("config: %s", a.v.ConfigFileUsed())
	return nil
}

func (a *app) debugf(format string, args ...any) {
	if a.cfg.Debug() {
		log.Printf(format, args...)
	}
}

// readImage imports path as a gray grid.
func (a *app) readImage(path string) (*raster.Grid, error) {
	g, err := raster.ImportFile(path, a.cfg.ImportOptions())
	if err != nil {
		return nil, fmt.Errorf("can't open file %s: %w", path, err)
	}
	return g, nil
}

// writeImage writes g as P5 and reports its size.
func (a *app) writeImage(path string, g *raster.Grid) error {
	if err := raster.WriteFile(path, g); err != nil {
		return fmt.Errorf("can't write to file %s: %w", path, err)
	}
	a.debugf("saved image of size %d %d to %s", g.Rows(), g.Cols(), path)
	return nil
}

func (a *app) readTriple(paths []string) ([3]*raster.Grid, error) {
	var imgs [3]*raster.Grid
	for k, p := range paths {
		g, err := a.readImage(p)
		if err != nil {
			return imgs, err
		}
		imgs[k] = g
	}
	return imgs, nil
}

func intArg(s, name string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, s)
	}
	return n, nil
}
