package model

import (
	"fmt"

	"github.com/edp1096/toy-photonics/internal/consts"
	"github.com/edp1096/toy-photonics/pkg/matrix"
	"github.com/edp1096/toy-photonics/pkg/tmm"
)

// GratingSettings describes one uniform Bragg grating. When DN is zero it is
// derived from the corrugation width DW through the coupling fit.
type GratingSettings struct {
	Period          float64 `mapstructure:"period"`           // m
	DN              float64 `mapstructure:"dn"`               // index modulation
	DW              float64 `mapstructure:"dw"`               // m, corrugation width
	Periods         int     `mapstructure:"periods"`          // count
	BraggWavelength float64 `mapstructure:"bragg_wavelength"` // m
}

func DefaultGratingSettings(periods int) GratingSettings {
	return GratingSettings{
		Period:          consts.GRATING_PERIOD,
		DW:              consts.CORRUGATION,
		Periods:         periods,
		BraggWavelength: consts.BRAGG_WAVELENGTH,
	}
}

// Index returns the peak-to-peak index modulation.
func (g GratingSettings) Index() float64 {
	if g.DN != 0 {
		return g.DN
	}
	return tmm.IndexPerturbation(tmm.KappaFromWidth(g.DW), g.BraggWavelength)
}

// Grating returns the transfer-matrix description of the settings.
func (g GratingSettings) Grating(lossDBPerCm float64) tmm.Grating {
	return tmm.Grating{
		Period:      g.Period,
		DN:          g.Index(),
		Periods:     g.Periods,
		LossDBPerCm: lossDBPerCm,
	}
}

// twoPortFromTransfer maps a transfer matrix onto the W0/E0 ports.
func twoPortFromTransfer(t tmm.Matrix2) ([][]complex128, error) {
	sm, err := tmm.ToScattering(t)
	if err != nil {
		return nil, err
	}

	const w0, e0 = 0, 1
	s := newSMatrix(2)
	s[w0][w0] = sm[0][0]
	s[e0][w0] = sm[1][0]
	s[w0][e0] = sm[0][1]
	s[e0][e0] = sm[1][1]
	return s, nil
}

type DBRParams struct {
	WaveguideSettings `mapstructure:",squash"`
	GratingSettings   `mapstructure:",squash"`
}

// DBR is a distributed Bragg reflector between W0 and E0.
type DBR struct {
	BaseModel
	DBRParams
}

func NewDBR(name string, periods int) *DBR {
	return &DBR{
		BaseModel: NewBaseModel(name, "W0", "E0"),
		DBRParams: DBRParams{
			WaveguideSettings: DefaultWaveguideSettings(),
			GratingSettings:   DefaultGratingSettings(periods),
		},
	}
}

func (d *DBR) GetType() string { return "dbr" }

func (d *DBR) Validate() error {
	if err := d.Grating(d.LossDBPerCm).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	return d.WaveguideSettings.validate()
}

// Config returns the sweep configuration of the bare grating.
func (d *DBR) Config() tmm.Config {
	return tmm.Config{Dispersion: d.Dispersion, Grating: d.Grating(d.LossDBPerCm)}
}

func (d *DBR) SParameters(wavelength float64) ([][]complex128, error) {
	t, err := d.Config().Evaluate(wavelength)
	if err != nil {
		return nil, err
	}
	return twoPortFromTransfer(t)
}

func (d *DBR) Stamp(m matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(m, d, status)
}

type DBRCavityParams struct {
	WaveguideSettings `mapstructure:",squash"`
	Left              GratingSettings `mapstructure:"left"`
	Right             GratingSettings `mapstructure:"right"`
	Length            float64         `mapstructure:"length"` // m, cavity section

	// CavityDispersion overrides the fit used for the cavity section.
	CavityDispersion *tmm.Dispersion `mapstructure:"cavity_dispersion"`
}

// DBRCavity is a Fabry-Perot resonator of two gratings around a straight
// cavity, between W0 and E0.
type DBRCavity struct {
	BaseModel
	DBRCavityParams
}

func NewDBRCavity(name string, periods int, length float64) *DBRCavity {
	return &DBRCavity{
		BaseModel: NewBaseModel(name, "W0", "E0"),
		DBRCavityParams: DBRCavityParams{
			WaveguideSettings: DefaultWaveguideSettings(),
			Left:              DefaultGratingSettings(periods),
			Right:             DefaultGratingSettings(periods),
			Length:            length,
		},
	}
}

func (d *DBRCavity) GetType() string { return "dbr_cavity" }

func (d *DBRCavity) Cavity() *tmm.Cavity {
	return &tmm.Cavity{
		Left:        d.Left.Grating(d.LossDBPerCm),
		Right:       d.Right.Grating(d.LossDBPerCm),
		Length:      d.Length,
		LossDBPerCm: d.LossDBPerCm,
		Dispersion:  d.CavityDispersion,
	}
}

func (d *DBRCavity) Validate() error {
	if err := d.Cavity().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	return d.WaveguideSettings.validate()
}

// Config returns the sweep configuration of the resonator.
func (d *DBRCavity) Config() tmm.Config {
	return tmm.Config{Dispersion: d.Dispersion, Cavity: d.Cavity()}
}

func (d *DBRCavity) SParameters(wavelength float64) ([][]complex128, error) {
	t, err := d.Config().Evaluate(wavelength)
	if err != nil {
		return nil, err
	}
	return twoPortFromTransfer(t)
}

func (d *DBRCavity) Stamp(m matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(m, d, status)
}
