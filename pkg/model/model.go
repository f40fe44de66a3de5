package model

import (
	"fmt"

	"github.com/edp1096/toy-photonics/pkg/matrix"
)

// Model is a compact model: an N-port whose scattering matrix is a function
// of wavelength. Port indices are assigned by the circuit.
type Model interface {
	GetName() string
	GetType() string
	GetPortNames() []string
	GetPorts() []int
	SetPorts(ports []int)
	SParameters(wavelength float64) ([][]complex128, error)
	Stamp(m matrix.ModelMatrix, status *SweepStatus) error
}

type BaseModel struct {
	Name      string
	Ports     []int
	PortNames []string
}

// SweepStatus is the sweep point being stamped.
type SweepStatus struct {
	Wavelength float64 // m
	Frequency  float64 // Hz
}

func (m *BaseModel) GetName() string {
	return m.Name
}

func (m *BaseModel) GetPorts() []int {
	return m.Ports
}

func (m *BaseModel) GetPortNames() []string {
	return m.PortNames
}

func (m *BaseModel) SetPorts(ports []int) {
	m.Ports = ports
}

func NewBaseModel(name string, portNames ...string) BaseModel {
	return BaseModel{
		Name:      name,
		PortNames: portNames,
		Ports:     make([]int, len(portNames)),
	}
}

// stamp evaluates the model and loads every coefficient into the network.
func stamp(m matrix.ModelMatrix, model Model, status *SweepStatus) error {
	ports := model.GetPorts()

	s, err := model.SParameters(status.Wavelength)
	if err != nil {
		return fmt.Errorf("%s %s at λ=%g: %w", model.GetType(), model.GetName(), status.Wavelength, err)
	}
	if len(s) != len(ports) {
		return fmt.Errorf("%s %s: %d ports but %dx%d scattering matrix", model.GetType(), model.GetName(), len(ports), len(s), len(s))
	}

	for out := range s {
		for in, v := range s[out] {
			m.AddScattering(ports[out], ports[in], v)
		}
	}
	return nil
}

func newSMatrix(n int) [][]complex128 {
	s := make([][]complex128, n)
	for i := range s {
		s[i] = make([]complex128, n)
	}
	return s
}

// setReciprocal sets s[i][j] and s[j][i].
func setReciprocal(s [][]complex128, i, j int, v complex128) {
	s[i][j] = v
	s[j][i] = v
}
