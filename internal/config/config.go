// Package config loads pgmvision settings from .pgmvision.yaml, PGMVISION_*
// environment variables and command line flags through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ironsheep/pgm-vision/internal/edges"
	"github.com/ironsheep/pgm-vision/internal/hough"
	"github.com/ironsheep/pgm-vision/internal/objects"
	"github.com/ironsheep/pgm-vision/internal/photometric"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

// EnvPrefix is prepended to every environment variable viper consults.
const EnvPrefix = "PGMVISION"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid value")

// HoughConfig tunes line detection.
type HoughConfig struct {
	Threshold      int     `mapstructure:"threshold"`
	RhoTolerance   float64 `mapstructure:"rho_tolerance"`
	ThetaTolerance float64 `mapstructure:"theta_tolerance"`
	EdgeThreshold  int     `mapstructure:"edge_threshold"`
}

// ObjectsConfig tunes recognition and annotation.
type ObjectsConfig struct {
	AreaRatio      float64 `mapstructure:"area_ratio"`
	RoundnessRatio float64 `mapstructure:"roundness_ratio"`
	NeedleLength   int     `mapstructure:"needle_length"`
}

// PhotometricConfig tunes needle and albedo maps.
type PhotometricConfig struct {
	Step        int     `mapstructure:"step"`
	Threshold   int     `mapstructure:"threshold"`
	NeedleScale float64 `mapstructure:"needle_scale"`
}

// BatchConfig tunes the batch runner.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// ImportConfig controls decoding of PNG and JPEG inputs.
type ImportConfig struct {
	Denoise float64 `mapstructure:"denoise"`
}

// Config holds all runtime configuration.
type Config struct {
	LogLevel    string            `mapstructure:"log_level"`
	Threshold   int               `mapstructure:"threshold"`
	Hough       HoughConfig       `mapstructure:"hough"`
	Objects     ObjectsConfig     `mapstructure:"objects"`
	Photometric PhotometricConfig `mapstructure:"photometric"`
	Batch       BatchConfig       `mapstructure:"batch"`
	Import      ImportConfig      `mapstructure:"import"`
}

// SetDefaults registers the built-in value of every key on v.
func SetDefaults(v *viper.Viper) {
	h := hough.DefaultOptions()
	c := objects.DefaultCriteria()
	n := photometric.DefaultNeedleOptions()

	v.SetDefault("log_level", "info")
	v.SetDefault("threshold", 128)
	v.SetDefault("hough.threshold", h.Threshold)
	v.SetDefault("hough.rho_tolerance", h.RhoTolerance)
	v.SetDefault("hough.theta_tolerance", h.ThetaTolerance)
	v.SetDefault("hough.edge_threshold", edges.DefaultMaskThreshold)
	v.SetDefault("objects.area_ratio", c.AreaRatio)
	v.SetDefault("objects.roundness_ratio", c.RoundnessRatio)
	v.SetDefault("objects.needle_length", 20)
	v.SetDefault("photometric.step", n.Step)
	v.SetDefault("photometric.threshold", n.Threshold)
	v.SetDefault("photometric.needle_scale", n.Length)
	v.SetDefault("batch.workers", 4)
	v.SetDefault("import.denoise", 0.0)
}

// Load reads configuration from the global viper instance, applying built-in
// defaults for any values not set by config file, environment, or flags.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for an explicit viper instance.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindEnv makes nested keys such as hough.threshold reachable as
// PGMVISION_HOUGH_THRESHOLD.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Validate rejects values no command can work with.
func (c Config) Validate() error {
	switch {
	case c.Threshold < 0 || c.Threshold > 255:
		return fmt.Errorf("%w: threshold %d outside 0..255", ErrInvalidConfig, c.Threshold)
	case c.Hough.Threshold < 0 || c.Hough.Threshold > 255:
		return fmt.Errorf("%w: hough.threshold %d outside 0..255", ErrInvalidConfig, c.Hough.Threshold)
	case c.Objects.AreaRatio < 0 || c.Objects.AreaRatio > 1:
		return fmt.Errorf("%w: objects.area_ratio %g outside 0..1", ErrInvalidConfig, c.Objects.AreaRatio)
	case c.Objects.RoundnessRatio < 0 || c.Objects.RoundnessRatio > 1:
		return fmt.Errorf("%w: objects.roundness_ratio %g outside 0..1", ErrInvalidConfig, c.Objects.RoundnessRatio)
	case c.Photometric.Step < 1:
		return fmt.Errorf("%w: photometric.step must be positive", ErrInvalidConfig)
	case c.Batch.Workers < 1:
		return fmt.Errorf("%w: batch.workers must be positive", ErrInvalidConfig)
	case c.Import.Denoise < 0:
		return fmt.Errorf("%w: import.denoise must not be negative", ErrInvalidConfig)
	}
	return nil
}

// HoughOptions converts the hough section for the hough package.
func (c Config) HoughOptions() hough.Options {
	return hough.Options{
		Threshold:      c.Hough.Threshold,
		RhoTolerance:   c.Hough.RhoTolerance,
		ThetaTolerance: c.Hough.ThetaTolerance,
	}
}

// Criteria converts the objects section for recognition.
func (c Config) Criteria() objects.Criteria {
	return objects.Criteria{AreaRatio: c.Objects.AreaRatio, RoundnessRatio: c.Objects.RoundnessRatio}
}

// NeedleOptions converts the photometric section for needle maps.
func (c Config) NeedleOptions() photometric.NeedleOptions {
	return photometric.NeedleOptions{
		Step:      c.Photometric.Step,
		Threshold: c.Photometric.Threshold,
		Length:    c.Photometric.NeedleScale,
	}
}

// ImportOptions converts the import section for raster.ImportFile.
func (c Config) ImportOptions() raster.ImportOptions {
	return raster.ImportOptions{Denoise: c.Import.Denoise}
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}
