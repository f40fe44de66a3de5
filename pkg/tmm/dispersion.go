package tmm

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-photonics/internal/consts"
)

// Dispersion is a quadratic fit of the effective index against wavelength in
// micrometres, n(λ) = N1 + N2·λ + N3·λ², valid for one waveguide cross-section.
type Dispersion struct {
	N1 float64 `yaml:"n1" mapstructure:"n1"`
	N2 float64 `yaml:"n2" mapstructure:"n2"`
	N3 float64 `yaml:"n3" mapstructure:"n3"`
}

// DefaultDispersion is the fit for a 500 nm x 220 nm silicon strip.
func DefaultDispersion() Dispersion {
	return Dispersion{N1: consts.STRIP_N1, N2: consts.STRIP_N2, N3: consts.STRIP_N3}
}

// IsZero reports whether no coefficient is set.
func (d Dispersion) IsZero() bool {
	return d.N1 == 0 && d.N2 == 0 && d.N3 == 0
}

// Index evaluates the fit at a wavelength given in metres.
func (d Dispersion) Index(wavelength float64) (float64, error) {
	if !(wavelength > 0) || math.IsInf(wavelength, 0) {
		return 0, tmmErrorf(fmt.Sprintf("Dispersion.Index(λ=%g)", wavelength), ErrDomain)
	}

	um := wavelength / consts.MICRON
	n := d.N1 + d.N2*um + d.N3*um*um
	if !(n > 0) || math.IsInf(n, 0) {
		return 0, tmmErrorf(fmt.Sprintf("Dispersion.Index(λ=%g): n=%g", wavelength, n), ErrDomain)
	}

	return n, nil
}

// KappaFromWidth returns the grating coupling coefficient (1/m) of a sidewall
// corrugation of width dw (m), from a quadratic fit for 500 nm strips.
func KappaFromWidth(dw float64) float64 {
	return consts.KAPPA_A*dw*dw + consts.KAPPA_B*dw
}

// IndexPerturbation converts a coupling coefficient into the peak-to-peak
// effective index modulation at the Bragg wavelength: dn = kappa·λB/2.
func IndexPerturbation(kappa, braggWavelength float64) float64 {
	return kappa * braggWavelength / 2
}
