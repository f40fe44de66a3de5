package netlist

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrSyntax is returned for malformed netlist input.
var ErrSyntax = errors.New("netlist: syntax error")

type SweepType string

const (
	SweepLIN  SweepType = "LIN"  // linear in wavelength
	SweepFREQ SweepType = "FREQ" // linear in frequency
)

type NetlistData struct {
	Title    string
	Elements []Element     // Circuit elements
	Nets     map[string]int // Net name and first-seen index
	Ports    []Port         // External ports, in declaration order
	Sweep    SweepParam
	HasSweep bool
}

type SweepParam struct {
	Type   SweepType
	Points int
	Start  float64 // m for LIN, Hz for FREQ
	Stop   float64
}

// Element is one model instance. Nets are listed in the model's port order;
// an element built from a YAML netlist names its nets per pin instead.
type Element struct {
	Name   string
	Type   string            // Component type (waveguide, coupler, mmi1x2, ...)
	Nets   []string          // Net names by port position
	Pins   map[string]string // Net names by port name
	Params map[string]any    // Settings; dotted keys nest (left.periods=100)
}

// Port exposes a net as an external port of the circuit.
type Port struct {
	Name string
	Net  string
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGMKkmunpf])?(?:m|s|Hz)?$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

func New(title string) *NetlistData {
	return &NetlistData{Title: title, Nets: make(map[string]int)}
}

// Parse reads the line-oriented netlist format:
//
//	MZI title
//	* comment
//	splitter mmi1x2 in a b
//	wg1 waveguide a c length=110u
//	+ loss_db_per_cm=2
//	.port input in
//	.sweep LIN 1001 1500n 1600n
func Parse(input string) (*NetlistData, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	netlistData := New("")

	// Title or comment
	if scanner.Scan() {
		netlistData.Title = strings.TrimPrefix(scanner.Text(), "*")
		netlistData.Title = strings.TrimSpace(netlistData.Title)
	}

	var currentLine string
	lineNo, startNo := 1, 1

	flush := func() error {
		if currentLine == "" {
			return nil
		}
		if err := parseLine(netlistData, currentLine); err != nil {
			return fmt.Errorf("line %d: %w", startNo, err)
		}
		currentLine = ""
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Inline comment
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if len(line) == 0 {
			continue
		}

		if strings.HasPrefix(line, "+") { // Line continue
			if currentLine == "" {
				return nil, fmt.Errorf("line %d: continuation without element: %w", lineNo, ErrSyntax)
			}
			currentLine += " " + strings.TrimSpace(line[1:])
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		currentLine, startNo = line, lineNo
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return netlistData, nil
}

func parseLine(netlistData *NetlistData, line string) error {
	line = spaceRe.ReplaceAllString(line, " ")

	if strings.HasPrefix(line, ".") {
		return parseDotOperator(netlistData, line)
	}

	element, err := parseElement(line)
	if err != nil {
		return err
	}
	return netlistData.AddElement(*element)
}

// AddElement appends an element and registers its nets.
func (n *NetlistData) AddElement(elem Element) error {
	for _, e := range n.Elements {
		if e.Name == elem.Name {
			return fmt.Errorf("duplicate element %q: %w", elem.Name, ErrSyntax)
		}
	}

	n.Elements = append(n.Elements, elem)
	for _, net := range elem.Nets {
		n.addNet(net)
	}
	for _, net := range elem.Pins {
		n.addNet(net)
	}
	return nil
}

// AddPort declares an external port.
func (n *NetlistData) AddPort(name, net string) error {
	for _, p := range n.Ports {
		if p.Name == name {
			return fmt.Errorf("duplicate port %q: %w", name, ErrSyntax)
		}
	}
	n.Ports = append(n.Ports, Port{Name: name, Net: net})
	return nil
}

func (n *NetlistData) addNet(net string) {
	if _, exists := n.Nets[net]; !exists {
		n.Nets[net] = len(n.Nets)
	}
}

// Parse .port, .sweep
func parseDotOperator(netlistData *NetlistData, line string) error {
	var err error

	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ".port":
		if len(fields) != 3 {
			return fmt.Errorf(".port needs a name and a net: %w", ErrSyntax)
		}
		return netlistData.AddPort(fields[1], fields[2])

	case ".sweep":
		if len(fields) < 5 {
			return fmt.Errorf("insufficient sweep parameters, need type, points, start and stop: %w", ErrSyntax)
		}

		sweep := SweepParam{Type: SweepType(strings.ToUpper(fields[1]))}
		if sweep.Type != SweepLIN && sweep.Type != SweepFREQ {
			return fmt.Errorf("invalid sweep type %s: %w", fields[1], ErrSyntax)
		}
		sweep.Points, err = strconv.Atoi(fields[2])
		if err != nil || sweep.Points < 1 {
			return fmt.Errorf("invalid points number %s: %w", fields[2], ErrSyntax)
		}
		sweep.Start, err = ParseValue(fields[3])
		if err != nil {
			return fmt.Errorf("invalid start: %w", err)
		}
		sweep.Stop, err = ParseValue(fields[4])
		if err != nil {
			return fmt.Errorf("invalid stop: %w", err)
		}

		netlistData.Sweep = sweep
		netlistData.HasSweep = true

	default:
		return fmt.Errorf("unsupported directive %s: %w", fields[0], ErrSyntax)
	}

	return nil
}

// Parse model instance
func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, fmt.Errorf("invalid element format %q: %w", line, ErrSyntax)
	}

	elem := &Element{
		Name:   fields[0],
		Type:   strings.ToLower(fields[1]),
		Params: make(map[string]any),
	}

	for _, field := range fields[2:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			if len(elem.Params) > 0 {
				return nil, fmt.Errorf("net %q after settings in %s: %w", field, elem.Name, ErrSyntax)
			}
			elem.Nets = append(elem.Nets, field)
			continue
		}
		if key == "" || value == "" {
			return nil, fmt.Errorf("invalid setting %q in %s: %w", field, elem.Name, ErrSyntax)
		}
		if err := SetParam(elem.Params, strings.ToLower(key), value); err != nil {
			return nil, fmt.Errorf("%s: %w", elem.Name, err)
		}
	}

	if len(elem.Nets) == 0 {
		return nil, fmt.Errorf("element %s has no nets: %w", elem.Name, ErrSyntax)
	}

	return elem, nil
}

// SetParam stores value under a dotted key, creating nested maps as needed.
func SetParam(params map[string]any, key string, value any) error {
	parts := strings.Split(key, ".")
	m := params
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part]
		if !ok {
			nested := make(map[string]any)
			m[part] = nested
			m = nested
			continue
		}
		nested, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("setting %q is not a group: %w", part, ErrSyntax)
		}
		m = nested
	}
	m[parts[len(parts)-1]] = value
	return nil
}

// NetsFor returns the element's nets in the given port order. Pins that a
// YAML element leaves unnamed get a private net "<element>,<pin>".
func (e Element) NetsFor(ports []string) ([]string, error) {
	if e.Pins == nil {
		if len(e.Nets) != len(ports) {
			return nil, fmt.Errorf("%s: %d nets for %d ports %v: %w", e.Name, len(e.Nets), len(ports), ports, ErrSyntax)
		}
		return e.Nets, nil
	}

	known := make(map[string]bool, len(ports))
	nets := make([]string, len(ports))
	for i, p := range ports {
		known[p] = true
		if net, ok := e.Pins[p]; ok {
			nets[i] = net
		} else {
			nets[i] = PinNet(e.Name, p)
		}
	}
	for p := range e.Pins {
		if !known[p] {
			return nil, fmt.Errorf("%s has no pin %q (pins %v): %w", e.Name, p, ports, ErrSyntax)
		}
	}
	return nets, nil
}

// PinNet is the net name of an instance pin, "<instance>,<pin>".
func PinNet(instance, pin string) string {
	return instance + "," + pin
}

// ParseValue - Parse value and factor. 1.55u -> 1.55e-6, 193.4T -> 1.934e14
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format %q: %w", val, ErrSyntax)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if multiplier, ok := unitMap[matches[2]]; ok {
		num *= multiplier
	}

	return num, nil
}
