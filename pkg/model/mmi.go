package model

import (
	"math"

	"github.com/edp1096/toy-photonics/internal/consts"
	"github.com/edp1096/toy-photonics/pkg/matrix"
)

type MMIParams struct {
	WaveguideSettings `mapstructure:",squash"`
	Length            float64 `mapstructure:"length_mmi"`     // m
	WidthMMI          float64 `mapstructure:"width_mmi"`      // m
	ExcessLossDB      float64 `mapstructure:"excess_loss_db"` // dB
}

func defaultMMI() MMIParams {
	return MMIParams{
		WaveguideSettings: DefaultWaveguideSettings(),
		Length:            5.5e-6,
		WidthMMI:          2.5e-6,
		ExcessLossDB:      consts.MMI_EXCESS_LOSS_DB,
	}
}

func (p MMIParams) validate() error {
	if err := nonNegative("length_mmi", p.Length); err != nil {
		return err
	}
	if err := nonNegative("excess_loss_db", p.ExcessLossDB); err != nil {
		return err
	}
	return p.WaveguideSettings.validate()
}

// splitAmplitude is the field amplitude into each of two outputs.
func (p MMIParams) splitAmplitude(wavelength float64) (complex128, error) {
	t, err := p.transmission(wavelength, p.Length)
	if err != nil {
		return 0, err
	}
	eta := math.Pow(10, -p.ExcessLossDB/10)
	return complex(math.Sqrt(eta/2), 0) * t, nil
}

// MMI1x2 splits W0 evenly and in phase into E0 and E1.
//
//	           ________
//	          |        |__ E1
//	     W0 __|        |
//	          |        |__ E0
//	          |________|
type MMI1x2 struct {
	BaseModel
	MMIParams
}

func NewMMI1x2(name string) *MMI1x2 {
	return &MMI1x2{
		BaseModel: NewBaseModel(name, "W0", "E0", "E1"),
		MMIParams: defaultMMI(),
	}
}

func (m *MMI1x2) GetType() string { return "mmi1x2" }

func (m *MMI1x2) Validate() error { return m.validate() }

func (m *MMI1x2) SParameters(wavelength float64) ([][]complex128, error) {
	a, err := m.splitAmplitude(wavelength)
	if err != nil {
		return nil, err
	}

	s := newSMatrix(3)
	setReciprocal(s, 0, 1, a)
	setReciprocal(s, 0, 2, a)
	return s, nil
}

func (m *MMI1x2) Stamp(mat matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(mat, m, status)
}

// MMI2x2 is a 3 dB coupler with a -90° cross port.
type MMI2x2 struct {
	BaseModel
	MMIParams
}

func NewMMI2x2(name string) *MMI2x2 {
	p := defaultMMI()
	p.Length = 13e-6
	return &MMI2x2{
		BaseModel: NewBaseModel(name, "W0", "W1", "E0", "E1"),
		MMIParams: p,
	}
}

func (m *MMI2x2) GetType() string { return "mmi2x2" }

func (m *MMI2x2) Validate() error { return m.validate() }

func (m *MMI2x2) SParameters(wavelength float64) ([][]complex128, error) {
	a, err := m.splitAmplitude(wavelength)
	if err != nil {
		return nil, err
	}

	const w0, w1, e0, e1 = 0, 1, 2, 3
	s := newSMatrix(4)
	setReciprocal(s, w0, e0, a)
	setReciprocal(s, w1, e1, a)
	setReciprocal(s, w0, e1, -1i*a)
	setReciprocal(s, w1, e0, -1i*a)
	return s, nil
}

func (m *MMI2x2) Stamp(mat matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(mat, m, status)
}
