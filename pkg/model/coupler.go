package model

import (
	"math"
	"math/cmplx"

	"github.com/edp1096/toy-photonics/internal/consts"
	"github.com/edp1096/toy-photonics/pkg/matrix"
)

// CouplingSettings is the coupled-mode fit of two parallel strips:
// kappa(gap) = Kappa0·exp(-gap/GapDecay).
type CouplingSettings struct {
	Gap      float64 `mapstructure:"gap"`       // m, edge to edge
	Kappa0   float64 `mapstructure:"kappa0"`    // 1/m
	GapDecay float64 `mapstructure:"gap_decay"` // m
}

func defaultCoupling(gap float64) CouplingSettings {
	return CouplingSettings{
		Gap:      gap,
		Kappa0:   consts.COUPLER_KAPPA0,
		GapDecay: consts.COUPLER_GAP_DECAY,
	}
}

// Kappa returns the coupling coefficient in 1/m.
func (c CouplingSettings) Kappa() float64 {
	return c.Kappa0 * math.Exp(-c.Gap/c.GapDecay)
}

func (c CouplingSettings) validate() error {
	if err := positive("gap", c.Gap); err != nil {
		return err
	}
	if err := nonNegative("kappa0", c.Kappa0); err != nil {
		return err
	}
	return positive("gap_decay", c.GapDecay)
}

type CouplerParams struct {
	WaveguideSettings `mapstructure:",squash"`
	CouplingSettings  `mapstructure:",squash"`
	Length            float64 `mapstructure:"length"` // m, straight coupling section
}

// DirectionalCoupler is a symmetric four-port:
//
//	W1 ---\      /--- E1
//	       ------
//	       ------
//	W0 ---/      \--- E0
type DirectionalCoupler struct {
	BaseModel
	CouplerParams
}

func NewDirectionalCoupler(name string, gap, length float64) *DirectionalCoupler {
	return &DirectionalCoupler{
		BaseModel: NewBaseModel(name, "W0", "W1", "E0", "E1"),
		CouplerParams: CouplerParams{
			WaveguideSettings: DefaultWaveguideSettings(),
			CouplingSettings:  defaultCoupling(gap),
			Length:            length,
		},
	}
}

func (c *DirectionalCoupler) GetType() string { return "coupler" }

func (c *DirectionalCoupler) Validate() error {
	if err := nonNegative("length", c.Length); err != nil {
		return err
	}
	if err := c.CouplingSettings.validate(); err != nil {
		return err
	}
	return c.WaveguideSettings.validate()
}

// PowerCoupling returns the fraction of power crossing to the other guide.
func (c *DirectionalCoupler) PowerCoupling() float64 {
	s := math.Sin(c.Kappa() * c.Length)
	return s * s
}

func (c *DirectionalCoupler) SParameters(wavelength float64) ([][]complex128, error) {
	p, err := c.transmission(wavelength, c.Length)
	if err != nil {
		return nil, err
	}

	theta := c.Kappa() * c.Length
	through := complex(math.Cos(theta), 0) * p
	cross := complex(0, -math.Sin(theta)) * p

	const w0, w1, e0, e1 = 0, 1, 2, 3
	s := newSMatrix(4)
	setReciprocal(s, w0, e0, through)
	setReciprocal(s, w1, e1, through)
	setReciprocal(s, w0, e1, cross)
	setReciprocal(s, w1, e0, cross)
	return s, nil
}

func (c *DirectionalCoupler) Stamp(m matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(m, c, status)
}

type RingCouplerParams struct {
	WaveguideSettings `mapstructure:",squash"`
	CouplingSettings  `mapstructure:",squash"`
	LengthX           float64 `mapstructure:"length_x"`    // m
	BendRadius        float64 `mapstructure:"bend_radius"` // m
}

// RingCoupler is the lower half of a racetrack next to a straight bus:
//
//	N0            N1
//	|             |
//	 \           /
//	  \         /
//	---=========---
//	W0  length_x  E0
//
// The bus path spans length_x plus both bend radii, the ring path length_x
// plus two quarter circles. The curved region adds sqrt(2π·R·γ) of
// effective coupling length.
type RingCoupler struct {
	BaseModel
	RingCouplerParams
}

func NewRingCoupler(name string, gap, lengthX, bendRadius float64) *RingCoupler {
	return &RingCoupler{
		BaseModel: NewBaseModel(name, "W0", "N0", "N1", "E0"),
		RingCouplerParams: RingCouplerParams{
			WaveguideSettings: DefaultWaveguideSettings(),
			CouplingSettings:  defaultCoupling(gap),
			LengthX:           lengthX,
			BendRadius:        bendRadius,
		},
	}
}

func (r *RingCoupler) GetType() string { return "coupler_ring" }

func (r *RingCoupler) Validate() error {
	if err := nonNegative("length_x", r.LengthX); err != nil {
		return err
	}
	if err := positive("bend_radius", r.BendRadius); err != nil {
		return err
	}
	if err := r.CouplingSettings.validate(); err != nil {
		return err
	}
	return r.WaveguideSettings.validate()
}

// CouplingAngle returns κ·L_eff of the whole coupling region.
func (r *RingCoupler) CouplingAngle() float64 {
	effective := r.LengthX + math.Sqrt(2*math.Pi*r.BendRadius*r.GapDecay)
	return r.Kappa() * effective
}

// RingLength is the ring-side path length N0 to N1.
func (r *RingCoupler) RingLength() float64 {
	return r.LengthX + math.Pi*r.BendRadius
}

func (r *RingCoupler) SParameters(wavelength float64) ([][]complex128, error) {
	bus, err := r.transmission(wavelength, r.LengthX+2*r.BendRadius)
	if err != nil {
		return nil, err
	}
	ring, err := r.transmission(wavelength, r.RingLength())
	if err != nil {
		return nil, err
	}
	// Cross paths take the mean phase and loss of both arms so the coupler
	// stays unitary when lossless.
	mean := cmplx.Sqrt(bus * ring)

	theta := r.CouplingAngle()
	t, k := complex(math.Cos(theta), 0), complex(0, -math.Sin(theta))

	const w0, n0, n1, e0 = 0, 1, 2, 3
	s := newSMatrix(4)
	setReciprocal(s, w0, e0, t*bus)
	setReciprocal(s, n0, n1, t*ring)
	setReciprocal(s, w0, n1, k*mean)
	setReciprocal(s, n0, e0, k*mean)
	return s, nil
}

func (r *RingCoupler) Stamp(m matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(m, r, status)
}
