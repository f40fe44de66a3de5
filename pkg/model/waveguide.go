package model

import (
	"math"

	"github.com/edp1096/toy-photonics/pkg/matrix"
)

type WaveguideParams struct {
	WaveguideSettings `mapstructure:",squash"`
	Length            float64 `mapstructure:"length"` // m
}

// Waveguide is a straight, reflectionless section.
type Waveguide struct {
	BaseModel
	WaveguideParams
}

func NewWaveguide(name string, length float64) *Waveguide {
	return &Waveguide{
		BaseModel: NewBaseModel(name, "W0", "E0"),
		WaveguideParams: WaveguideParams{
			WaveguideSettings: DefaultWaveguideSettings(),
			Length:            length,
		},
	}
}

func (w *Waveguide) GetType() string { return "waveguide" }

func (w *Waveguide) Validate() error {
	if err := nonNegative("length", w.Length); err != nil {
		return err
	}
	return w.validate()
}

func (w *Waveguide) SParameters(wavelength float64) ([][]complex128, error) {
	t, err := w.transmission(wavelength, w.Length)
	if err != nil {
		return nil, err
	}

	s := newSMatrix(2)
	setReciprocal(s, 0, 1, t)
	return s, nil
}

func (w *Waveguide) Stamp(m matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(m, w, status)
}

type BendParams struct {
	WaveguideSettings `mapstructure:",squash"`
	Radius            float64 `mapstructure:"radius"` // m
	Angle             float64 `mapstructure:"angle"`  // deg
}

// Bend is a circular arc modelled as a waveguide of the arc length.
type Bend struct {
	BaseModel
	BendParams
}

func NewBend(name string, radius float64) *Bend {
	return &Bend{
		BaseModel: NewBaseModel(name, "W0", "N0"),
		BendParams: BendParams{
			WaveguideSettings: DefaultWaveguideSettings(),
			Radius:            radius,
			Angle:             90,
		},
	}
}

func (b *Bend) GetType() string { return "bend" }

func (b *Bend) Validate() error {
	if err := positive("radius", b.Radius); err != nil {
		return err
	}
	if err := nonNegative("angle", b.Angle); err != nil {
		return err
	}
	return b.validate()
}

// Length returns the arc length.
func (b *Bend) Length() float64 {
	return b.Angle * math.Pi / 180 * b.Radius
}

func (b *Bend) SParameters(wavelength float64) ([][]complex128, error) {
	t, err := b.transmission(wavelength, b.Length())
	if err != nil {
		return nil, err
	}

	s := newSMatrix(2)
	setReciprocal(s, 0, 1, t)
	return s, nil
}

func (b *Bend) Stamp(m matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(m, b, status)
}
