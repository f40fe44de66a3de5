package analysis

import (
	"log/slog"
	"math"
	"math/cmplx"

	"github.com/edp1096/toy-photonics/internal/logging"
	"github.com/edp1096/toy-photonics/pkg/circuit"
	"github.com/edp1096/toy-photonics/pkg/util"
)

type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute() error
	GetResults() map[string][]float64
}

type Option func(*BaseAnalysis)

// WithLogger sends progress and timing to logger instead of discarding it.
func WithLogger(logger *slog.Logger) Option {
	return func(a *BaseAnalysis) {
		if logger != nil {
			a.logger = logger
		}
	}
}

type BaseAnalysis struct {
	Circuit *circuit.Circuit
	results map[string][]float64 // key: variable name, value: result by wavelength
	logger  *slog.Logger
}

func NewBaseAnalysis(opts ...Option) *BaseAnalysis {
	ba := &BaseAnalysis{
		results: make(map[string][]float64),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(ba)
	}
	return ba
}

func (a *BaseAnalysis) appendResult(name string, value float64) {
	if _, exists := a.results[name]; !exists {
		a.results[name] = make([]float64, 0)
	}
	a.results[name] = append(a.results[name], value)
}

// StoreAxis appends one sweep point to WAVELENGTH and FREQ.
func (a *BaseAnalysis) StoreAxis(wavelength float64) {
	a.appendResult("WAVELENGTH", wavelength)
	a.appendResult("FREQ", util.WavelengthToFrequency(wavelength))
}

// StoreSParamResult stores magnitude, phase in degrees and 20·log10 magnitude
// of every complex value at one wavelength.
func (a *BaseAnalysis) StoreSParamResult(wavelength float64, solution map[string]complex128) {
	a.StoreAxis(wavelength)

	for name, value := range solution {
		magnitude := cmplx.Abs(value)
		a.appendResult(name+"_MAG", magnitude)
		a.appendResult(name+"_PHASE", cmplx.Phase(value)*180.0/math.Pi)
		a.appendResult(name+"_DB", util.FieldToDB(magnitude))
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}

func (a *BaseAnalysis) reset() {
	a.results = make(map[string][]float64)
}
