package analysis

import (
	"fmt"
	"time"

	"github.com/edp1096/toy-photonics/pkg/circuit"
)

// SParamAnalysis sweeps a circuit and records every external S-parameter.
type SParamAnalysis struct {
	BaseAnalysis
	grid        Grid
	wavelengths []float64
	sparams     [][][]complex128
}

func NewSParam(grid Grid, opts ...Option) *SParamAnalysis {
	return &SParamAnalysis{
		BaseAnalysis: *NewBaseAnalysis(opts...),
		grid:         grid,
	}
}

func (sa *SParamAnalysis) Setup(ckt *circuit.Circuit) error {
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	if ckt.GetMatrix() == nil {
		return fmt.Errorf("circuit %s has no network matrix", ckt.Name())
	}
	if err := sa.grid.Validate(); err != nil {
		return err
	}

	sa.Circuit = ckt
	sa.wavelengths = sa.grid.Wavelengths()
	return nil
}

func (sa *SParamAnalysis) Execute() error {
	if sa.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}

	sa.reset()
	sa.sparams = make([][][]complex128, 0, len(sa.wavelengths))
	ports := sa.Circuit.GetExternalPorts()
	began := time.Now()

	for _, wl := range sa.wavelengths {
		s, err := sa.Circuit.Solve(wl)
		if err != nil {
			return err
		}

		solution := make(map[string]complex128, len(ports)*len(ports))
		for out := range ports {
			for in := range ports {
				solution[Name(ports[out].Name, ports[in].Name)] = s[out][in]
			}
		}

		sa.StoreSParamResult(wl, solution)
		sa.sparams = append(sa.sparams, s)
	}

	sa.logger.Debug("s-parameter sweep done",
		"circuit", sa.Circuit.Name(), "points", len(sa.wavelengths), "elapsed", time.Since(began))
	return nil
}

// SParameters returns the complex external S-matrix of every sweep point.
func (sa *SParamAnalysis) SParameters() [][][]complex128 {
	return sa.sparams
}

func (sa *SParamAnalysis) Wavelengths() []float64 {
	return sa.wavelengths
}

// Name is the result key of the S-parameter from port in to port out.
func Name(out, in string) string {
	return fmt.Sprintf("S(%s,%s)", out, in)
}
