package circuit

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/edp1096/toy-photonics/internal/consts"
	"github.com/edp1096/toy-photonics/internal/logging"
	"github.com/edp1096/toy-photonics/pkg/matrix"
	"github.com/edp1096/toy-photonics/pkg/model"
	"github.com/edp1096/toy-photonics/pkg/netlist"
)

var (
	// ErrBadNet is returned when a net joins more than two ports.
	ErrBadNet = errors.New("circuit: net joins more than two ports")

	// ErrBadPort reports an external port on a missing or already connected
	// net.
	ErrBadPort = errors.New("circuit: invalid external port")
)

// ExternalPort is a declared circuit port and the model port it exposes.
type ExternalPort struct {
	Name string
	Net  string
	Port int
}

type Circuit struct {
	name     string
	netMap   map[string][]int // net name -> model ports on it
	portMap  map[string]int   // "instance,pin" -> global port index
	models   []model.Model
	external []ExternalPort
	numPorts int
	matrix   *matrix.NetworkMatrix
	Status   *model.SweepStatus
	logger   *slog.Logger
}

func New(name string) *Circuit {
	return &Circuit{
		name:    name,
		netMap:  make(map[string][]int),
		portMap: make(map[string]int),
		models:  make([]model.Model, 0),
		Status:  &model.SweepStatus{},
		logger:  logging.NewNop(),
	}
}

// SetLogger replaces the default no-op logger.
func (c *Circuit) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Load builds a ready-to-solve circuit from parsed netlist data.
func Load(data *netlist.NetlistData) (*Circuit, error) {
	c := New(data.Title)
	if err := c.SetupModels(data.Elements); err != nil {
		return nil, err
	}
	if err := c.AssignPorts(data.Ports); err != nil {
		return nil, err
	}
	if err := c.CreateMatrix(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetupModels creates one model per element and numbers every model port
// 1..N in element order.
func (c *Circuit) SetupModels(elements []netlist.Element) error {
	for _, elem := range elements {
		m, err := model.Create(elem)
		if err != nil {
			return fmt.Errorf("creating model %s: %w", elem.Name, err)
		}
		for _, other := range c.models {
			if other.GetName() == m.GetName() {
				return fmt.Errorf("duplicate instance name %q", m.GetName())
			}
		}

		elem.Name = m.GetName()
		names := m.GetPortNames()
		nets, err := elem.NetsFor(names)
		if err != nil {
			return fmt.Errorf("wiring model %s: %w", m.GetName(), err)
		}

		ports := make([]int, len(names))
		for i, net := range nets {
			c.numPorts++
			ports[i] = c.numPorts
			c.netMap[net] = append(c.netMap[net], c.numPorts)
			c.portMap[netlist.PinNet(m.GetName(), names[i])] = c.numPorts
		}
		m.SetPorts(ports)

		c.models = append(c.models, m)
	}

	return nil
}

// AssignPorts checks the nets and binds the declared external ports. A net
// with two ports is an internal connection; a net with a single port is
// either declared external or left open.
func (c *Circuit) AssignPorts(ports []netlist.Port) error {
	for _, net := range sortedNets(c.netMap) {
		if n := len(c.netMap[net]); n > 2 {
			return fmt.Errorf("net %s has %d ports: %w", net, n, ErrBadNet)
		}
	}

	c.external = c.external[:0]
	seen := make(map[string]bool, len(ports))
	for _, p := range ports {
		on, ok := c.netMap[p.Net]
		if !ok {
			return fmt.Errorf("port %s: no net %s: %w", p.Name, p.Net, ErrBadPort)
		}
		if len(on) != 1 {
			return fmt.Errorf("port %s: net %s is an internal connection: %w", p.Name, p.Net, ErrBadPort)
		}
		if seen[p.Net] {
			return fmt.Errorf("port %s: net %s already exposed: %w", p.Name, p.Net, ErrBadPort)
		}
		seen[p.Net] = true
		c.external = append(c.external, ExternalPort{Name: p.Name, Net: p.Net, Port: on[0]})
	}
	if len(c.external) == 0 {
		return fmt.Errorf("no external ports declared: %w", ErrBadPort)
	}

	return nil
}

// CreateMatrix builds the network matrix and wires connections and
// excitations into it.
func (c *Circuit) CreateMatrix() error {
	mat, err := matrix.NewMatrix(c.numPorts, len(c.external))
	if err != nil {
		return err
	}

	for _, net := range sortedNets(c.netMap) {
		if on := c.netMap[net]; len(on) == 2 {
			if err := mat.Connect(on[0], on[1]); err != nil {
				mat.Destroy()
				return fmt.Errorf("net %s: %w", net, err)
			}
		}
	}
	for k, p := range c.external {
		if err := mat.Drive(k, p.Port); err != nil {
			mat.Destroy()
			return fmt.Errorf("port %s: %w", p.Name, err)
		}
	}
	mat.SetupElements()

	c.matrix = mat
	c.logger.Debug("network created", "circuit", c.name, "models", len(c.models), "ports", c.numPorts, "external", len(c.external))
	return nil
}

// Stamp loads every model at the given sweep point.
func (c *Circuit) Stamp(status *model.SweepStatus) error {
	c.matrix.LoadIdentity()
	for _, m := range c.models {
		if err := m.Stamp(c.matrix, status); err != nil {
			return fmt.Errorf("stamping model %s: %w", m.GetName(), err)
		}
	}
	return nil
}

// Solve returns the external scattering matrix at one wavelength, indexed
// [out][in] in port declaration order.
func (c *Circuit) Solve(wavelength float64) ([][]complex128, error) {
	if c.matrix == nil {
		return nil, fmt.Errorf("circuit %s: matrix not created", c.name)
	}

	c.Status = &model.SweepStatus{
		Wavelength: wavelength,
		Frequency:  consts.SPEED_OF_LIGHT / wavelength,
	}

	c.matrix.Clear()
	if err := c.Stamp(c.Status); err != nil {
		return nil, fmt.Errorf("stamping error at λ=%g: %w", wavelength, err)
	}
	if err := c.matrix.Solve(); err != nil {
		return nil, fmt.Errorf("matrix solve error at λ=%g: %w", wavelength, err)
	}

	return c.GetSolution(), nil
}

// GetSolution reads the external scattering matrix of the last solve.
func (c *Circuit) GetSolution() [][]complex128 {
	n := len(c.external)
	s := make([][]complex128, n)
	for out, p := range c.external {
		s[out] = make([]complex128, n)
		for in := range c.external {
			s[out][in] = c.matrix.GetComplexSolution(in, p.Port)
		}
	}
	return s
}

func (c *Circuit) GetMatrix() *matrix.NetworkMatrix {
	return c.matrix
}

func (c *Circuit) GetNetMap() map[string][]int {
	return c.netMap
}

func (c *Circuit) GetPortMap() map[string]int {
	return c.portMap
}

func (c *Circuit) GetModels() []model.Model {
	return c.models
}

func (c *Circuit) GetExternalPorts() []ExternalPort {
	return c.external
}

func (c *Circuit) GetNumPorts() int {
	return c.numPorts
}

func (c *Circuit) Name() string {
	return c.name
}

func (c *Circuit) Destroy() {
	if c.matrix != nil {
		c.matrix.Destroy()
		c.matrix = nil
	}
}

func sortedNets(nets map[string][]int) []string {
	names := make([]string, 0, len(nets))
	for n := range nets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
