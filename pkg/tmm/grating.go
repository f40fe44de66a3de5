package tmm

import (
	"fmt"
	"math"
)

// Grating describes a uniform Bragg grating of Periods alternating half-period
// sections with indices n0-DN/2 and n0+DN/2.
type Grating struct {
	Period      float64 `yaml:"period" mapstructure:"period"` // m
	DN          float64 `yaml:"dn" mapstructure:"dn"`
	Periods     int     `yaml:"periods" mapstructure:"periods"`
	LossDBPerCm float64 `yaml:"loss_db_per_cm" mapstructure:"loss_db_per_cm"`

	// SidewallAngle is accepted for symmetry with the other compact models
	// and does not enter the matrix math.
	SidewallAngle float64 `yaml:"sw_angle" mapstructure:"sw_angle"`
}

// Validate checks the grating parameters without evaluating any matrix. A
// grating of zero periods is a pass-through and ignores its period.
func (g Grating) Validate() error {
	if g.Periods < 0 {
		return tmmErrorf(fmt.Sprintf("Grating(periods=%d)", g.Periods), ErrInvalidArgument)
	}
	if g.Periods > 0 && (!(g.Period > 0) || math.IsInf(g.Period, 0)) {
		return tmmErrorf(fmt.Sprintf("Grating(period=%g)", g.Period), ErrDomain)
	}
	if math.IsNaN(g.DN) || math.IsInf(g.DN, 0) {
		return tmmErrorf(fmt.Sprintf("Grating(dn=%g)", g.DN), ErrDomain)
	}
	if !(g.LossDBPerCm >= 0) || math.IsInf(g.LossDBPerCm, 0) {
		return tmmErrorf(fmt.Sprintf("Grating(loss=%g)", g.LossDBPerCm), ErrDomain)
	}
	return nil
}

// Rails returns the two section indices around the unperturbed index n0.
func (g Grating) Rails(n0 float64) (complex128, complex128) {
	return complex(n0-g.DN/2, 0), complex(n0+g.DN/2, 0)
}

// Matrix returns the transfer matrix of the whole grating at one wavelength.
func (g Grating) Matrix(wavelength, n0 float64) (Matrix2, error) {
	if err := g.Validate(); err != nil {
		return Matrix2{}, err
	}
	if g.Periods == 0 {
		return Identity(), nil
	}

	n1, n2 := g.Rails(n0)
	cell, err := UnitCell(wavelength, n1, n2, g.Period, AlphaFromDBPerCm(g.LossDBPerCm))
	if err != nil {
		return Matrix2{}, err
	}

	return Power(cell, g.Periods)
}

// UnitCell composes one grating period:
//
//	Tp = P(n1, Λ/2) · B(n1→n2) · P(n2, Λ/2) · B(n2→n1)
func UnitCell(wavelength float64, n1, n2 complex128, period, alpha float64) (Matrix2, error) {
	half := period / 2

	p1, err := Propagation(wavelength, n1, half, alpha)
	if err != nil {
		return Matrix2{}, tmmErrorf("UnitCell", err)
	}
	b12, err := Boundary(n1, n2)
	if err != nil {
		return Matrix2{}, tmmErrorf("UnitCell", err)
	}
	p2, err := Propagation(wavelength, n2, half, alpha)
	if err != nil {
		return Matrix2{}, tmmErrorf("UnitCell", err)
	}
	b21, err := Boundary(n2, n1)
	if err != nil {
		return Matrix2{}, tmmErrorf("UnitCell", err)
	}

	return p1.Mul(b12).Mul(p2).Mul(b21), nil
}
