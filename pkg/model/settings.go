package model

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/edp1096/toy-photonics/internal/consts"
	"github.com/edp1096/toy-photonics/pkg/netlist"
	"github.com/edp1096/toy-photonics/pkg/tmm"
)

// Decode fills out, a pointer to a settings struct that already holds its
// defaults, from an instance settings map. Strings with unit suffixes
// ("10u", "220n") are accepted for numbers and unknown keys are rejected.
func Decode(settings map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       unitValueHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(settings); err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	return nil
}

func unitValueHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Float32, reflect.Float64:
		return netlist.ParseValue(data.(string))
	}
	return data, nil
}

// WaveguideSettings are shared by every model built on a strip waveguide.
// Width, thickness and sidewall angle label the cross-section the dispersion
// fit belongs to; the fit itself carries the optics.
type WaveguideSettings struct {
	Width       float64        `mapstructure:"width"`
	Thickness   float64        `mapstructure:"thickness"`
	SwAngle     float64        `mapstructure:"sw_angle"`
	LossDBPerCm float64        `mapstructure:"loss_db_per_cm"`
	Dispersion  tmm.Dispersion `mapstructure:"dispersion"`
}

func DefaultWaveguideSettings() WaveguideSettings {
	return WaveguideSettings{
		Width:       500e-9,
		Thickness:   220e-9,
		SwAngle:     90,
		LossDBPerCm: consts.WAVEGUIDE_LOSS_DB,
		Dispersion:  tmm.DefaultDispersion(),
	}
}

func (w WaveguideSettings) validate() error {
	if !(w.LossDBPerCm >= 0) || math.IsInf(w.LossDBPerCm, 0) {
		return fmt.Errorf("loss_db_per_cm=%g: %w", w.LossDBPerCm, ErrSettings)
	}
	if w.Dispersion.IsZero() {
		return fmt.Errorf("dispersion not set: %w", ErrSettings)
	}
	return nil
}

// transmission returns the complex field transmission exp(-j·β·L) of a
// straight section, computed through its transfer matrix.
func (w WaveguideSettings) transmission(wavelength, length float64) (complex128, error) {
	n, err := w.Dispersion.Index(wavelength)
	if err != nil {
		return 0, err
	}

	p, err := tmm.Propagation(wavelength, complex(n, 0), length, tmm.AlphaFromDBPerCm(w.LossDBPerCm))
	if err != nil {
		return 0, err
	}
	s, err := tmm.ToScattering(p)
	if err != nil {
		return 0, err
	}

	return s[1][0], nil
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%s=%g must be positive: %w", name, v, ErrSettings)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%s=%g must not be negative: %w", name, v, ErrSettings)
	}
	return nil
}
