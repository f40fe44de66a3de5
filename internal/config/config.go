// Package config loads simulator settings from layered YAML files. Later
// layers override earlier ones key by key:
//
//  1. built-in defaults
//  2. $HOME/.toyphotonics.yml
//  3. ./toyphotonics.yml
//  4. the file named on the command line
//
// Missing optional files are skipped. Numbers accept unit suffixes ("317n").
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/edp1096/toy-photonics/internal/logging"
	"github.com/edp1096/toy-photonics/pkg/analysis"
	"github.com/edp1096/toy-photonics/pkg/model"
	"github.com/edp1096/toy-photonics/pkg/netlist"
	"github.com/edp1096/toy-photonics/pkg/tmm"
)

const FileName = "toyphotonics.yml"

type Config struct {
	LogLevel  string                  `mapstructure:"log_level"`
	Sweep     Sweep                   `mapstructure:"sweep"`
	Waveguide model.WaveguideSettings `mapstructure:"waveguide"`
	Grating   model.GratingSettings   `mapstructure:"grating"`
	Cavity    Cavity                  `mapstructure:"cavity"`
	Output    Output                  `mapstructure:"output"`
}

// Sweep is the wavelength range in metres. Points, when zero, follows from
// the resolution.
type Sweep struct {
	Type         string  `mapstructure:"type"`
	Start        float64 `mapstructure:"start"`
	Stop         float64 `mapstructure:"stop"`
	Points       int     `mapstructure:"points"`
	ResolutionNm float64 `mapstructure:"resolution_nm"`
}

// Cavity places a straight section between the grating and a right-hand
// grating. Right overrides grating keys for the right mirror only.
type Cavity struct {
	Length     float64         `mapstructure:"length"`
	Right      map[string]any  `mapstructure:"right"`
	Dispersion *tmm.Dispersion `mapstructure:"dispersion"`
}

type Output struct {
	DB         bool    `mapstructure:"db"`
	TmaxDB     float64 `mapstructure:"tmax_db"`
	Scattering bool    `mapstructure:"scattering"`
	Workers    int     `mapstructure:"workers"`
	File       string  `mapstructure:"file"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Sweep: Sweep{
			Type:         string(netlist.SweepLIN),
			Start:        1500e-9,
			Stop:         1600e-9,
			ResolutionNm: 0.1,
		},
		Waveguide: model.DefaultWaveguideSettings(),
		Grating:   model.DefaultGratingSettings(200),
		Cavity:    Cavity{Length: 20e-6},
		Output:    Output{DB: true},
	}
}

// Paths returns the optional layer files in increasing priority.
func Paths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+FileName))
	}
	return append(paths, FileName)
}

// Load reads the optional layers and then explicit, which must exist when
// given.
func Load(explicit string, logger *slog.Logger) (Config, error) {
	paths := Paths()
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", explicit, err)
		}
		paths = append(paths, explicit)
	}
	return LoadFiles(logger, paths...)
}

// LoadFiles merges the given files over the defaults; missing files are
// skipped.
func LoadFiles(logger *slog.Logger, paths ...string) (Config, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	merged := make(map[string]any)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("config file not found, skipped", "path", path)
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}

		var layer map[string]any
		if err := yaml.Unmarshal(data, &layer); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		merge(merged, layer)
		logger.Debug("config file loaded", "path", path)
	}

	cfg := Default()
	if err := model.Decode(merged, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

// merge copies src into dst, descending into maps present in both.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
			v = maps.Clone(sub)
		}
		dst[k] = v
	}
}

func (c Config) Validate() error {
	if _, err := c.Grid(); err != nil {
		return fmt.Errorf("config sweep: %w", err)
	}
	if c.Output.Workers < 0 {
		return fmt.Errorf("config output: workers=%d must not be negative", c.Output.Workers)
	}
	return nil
}

// Grid returns the wavelength sweep.
func (c Config) Grid() (analysis.Grid, error) {
	s := c.Sweep
	if s.Points == 0 {
		g, err := analysis.GridByResolution(s.Start, s.Stop, s.ResolutionNm)
		if err != nil {
			return g, err
		}
		g.Type = netlist.SweepType(s.Type)
		return g, g.Validate()
	}

	g := analysis.Grid{Type: netlist.SweepType(s.Type), Points: s.Points, Start: s.Start, Stop: s.Stop}
	return g, g.Validate()
}

// RightGrating returns the grating settings overlaid with cavity.right.
func (c Config) RightGrating() (model.GratingSettings, error) {
	right := c.Grating
	if len(c.Cavity.Right) == 0 {
		return right, nil
	}
	if err := model.Decode(c.Cavity.Right, &right); err != nil {
		return right, fmt.Errorf("config cavity.right: %w", err)
	}
	return right, nil
}

// TMM returns the grating sweep configuration, or the cavity one when
// withCavity is set.
func (c Config) TMM(withCavity bool) (tmm.Config, error) {
	cfg := tmm.Config{
		Dispersion: c.Waveguide.Dispersion,
		Grating:    c.Grating.Grating(c.Waveguide.LossDBPerCm),
		Scattering: c.Output.Scattering,
		DB:         c.Output.DB,
		TmaxDB:     c.Output.TmaxDB,
		Workers:    c.Output.Workers,
	}
	if !withCavity {
		return cfg, nil
	}

	right, err := c.RightGrating()
	if err != nil {
		return cfg, err
	}
	cfg.Cavity = &tmm.Cavity{
		Left:        cfg.Grating,
		Right:       right.Grating(c.Waveguide.LossDBPerCm),
		Length:      c.Cavity.Length,
		LossDBPerCm: c.Waveguide.LossDBPerCm,
		Dispersion:  c.Cavity.Dispersion,
	}
	return cfg, nil
}
