package tmm

import (
	"fmt"
	"math"
)

// Cavity is a grating–waveguide–grating resonator. Left and Right are
// independent gratings; passing the same value twice gives a symmetric cavity.
type Cavity struct {
	Left        Grating `yaml:"left" mapstructure:"left"`
	Right       Grating `yaml:"right" mapstructure:"right"`
	Length      float64 `yaml:"length" mapstructure:"length"` // m
	LossDBPerCm float64 `yaml:"loss_db_per_cm" mapstructure:"loss_db_per_cm"`

	// Dispersion of the cavity section. Nil means the sweep uses the
	// grating waveguide fit.
	Dispersion *Dispersion `yaml:"dispersion,omitempty" mapstructure:"dispersion"`
}

// Validate checks both gratings and the cavity section.
func (c Cavity) Validate() error {
	if err := c.Left.Validate(); err != nil {
		return tmmErrorf("Cavity.Left", err)
	}
	if err := c.Right.Validate(); err != nil {
		return tmmErrorf("Cavity.Right", err)
	}
	if !(c.Length >= 0) || math.IsInf(c.Length, 0) {
		return tmmErrorf(fmt.Sprintf("Cavity(length=%g)", c.Length), ErrDomain)
	}
	if !(c.LossDBPerCm >= 0) || math.IsInf(c.LossDBPerCm, 0) {
		return tmmErrorf(fmt.Sprintf("Cavity(loss=%g)", c.LossDBPerCm), ErrDomain)
	}
	return nil
}

// Matrix returns T_left · T_cavity · T_right at one wavelength. n0 is the
// unperturbed grating index and nCavity the index of the cavity section.
func (c Cavity) Matrix(wavelength, n0 float64, nCavity complex128) (Matrix2, error) {
	if err := c.Validate(); err != nil {
		return Matrix2{}, err
	}

	left, err := c.Left.Matrix(wavelength, n0)
	if err != nil {
		return Matrix2{}, tmmErrorf("Cavity.Left", err)
	}
	section, err := Propagation(wavelength, nCavity, c.Length, AlphaFromDBPerCm(c.LossDBPerCm))
	if err != nil {
		return Matrix2{}, tmmErrorf("Cavity", err)
	}
	right, err := c.Right.Matrix(wavelength, n0)
	if err != nil {
		return Matrix2{}, tmmErrorf("Cavity.Right", err)
	}

	return Compose(left, section, right), nil
}

// Compose chains transfer matrices in propagation order.
func Compose(ms ...Matrix2) Matrix2 {
	out := Identity()
	for _, m := range ms {
		out = out.Mul(m)
	}
	return out
}
