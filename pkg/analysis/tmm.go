package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"github.com/edp1096/toy-photonics/pkg/circuit"
	"github.com/edp1096/toy-photonics/pkg/tmm"
)

// TMMAnalysis sweeps a grating or grating cavity with the transfer-matrix
// method. It needs no circuit.
type TMMAnalysis struct {
	BaseAnalysis
	grid     Grid
	config   tmm.Config
	spectrum *tmm.Spectrum
}

func NewTMM(grid Grid, cfg tmm.Config, opts ...Option) *TMMAnalysis {
	return &TMMAnalysis{
		BaseAnalysis: *NewBaseAnalysis(opts...),
		grid:         grid,
		config:       cfg,
	}
}

// Setup accepts a nil circuit.
func (ta *TMMAnalysis) Setup(ckt *circuit.Circuit) error {
	ta.Circuit = ckt
	return ta.grid.Validate()
}

func (ta *TMMAnalysis) Execute() error {
	ta.reset()
	began := time.Now()

	spec, err := tmm.Sweep(ta.grid.Wavelengths(), ta.config)
	if err != nil {
		return fmt.Errorf("tmm analysis: %w", err)
	}
	ta.spectrum = spec

	tName, rName := "T", "R"
	if spec.DB {
		tName, rName = "T_DB", "R_DB"
	}
	for i, wl := range spec.Wavelength {
		ta.StoreAxis(wl)
		ta.appendResult(tName, spec.Transmission[i])
		ta.appendResult(rName, spec.Reflection[i])
	}
	if spec.Scattering != nil {
		for _, s := range spec.Scattering {
			ta.appendResult("S11_MAG", cmplx.Abs(s[0][0]))
			ta.appendResult("S11_PHASE", cmplx.Phase(s[0][0])*180.0/math.Pi)
			ta.appendResult("S21_MAG", cmplx.Abs(s[1][0]))
			ta.appendResult("S21_PHASE", cmplx.Phase(s[1][0])*180.0/math.Pi)
		}
	}

	peak := spec.Peak()
	ta.logger.Debug("tmm sweep done",
		"points", spec.Len(), "peak_wavelength", spec.Wavelength[peak], "peak_r", spec.Reflection[peak],
		"elapsed", time.Since(began))
	return nil
}

// Spectrum returns the last sweep, or nil before Execute.
func (ta *TMMAnalysis) Spectrum() *tmm.Spectrum {
	return ta.spectrum
}
