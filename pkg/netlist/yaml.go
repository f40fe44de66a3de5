package netlist

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlNetlist struct {
	Name        string                  `yaml:"name"`
	Instances   map[string]yamlInstance `yaml:"instances"`
	Connections map[string]string       `yaml:"connections"`
	Ports       yaml.Node               `yaml:"ports"`
	Sweep       *yamlSweep              `yaml:"sweep"`
}

type yamlInstance struct {
	Component string         `yaml:"component"`
	Settings  map[string]any `yaml:"settings"`
}

type yamlSweep struct {
	Type   string `yaml:"type"`
	Points int    `yaml:"points"`
	Start  any    `yaml:"start"`
	Stop   any    `yaml:"stop"`
}

// ParseYAML reads the instance/connection netlist form:
//
//	name: mzi
//	instances:
//	  splitter: {component: mmi1x2}
//	  arm: {component: waveguide, settings: {length: 100u}}
//	connections:
//	  splitter,E0: arm,W0
//	ports:
//	  input: splitter,W0
//
// Connected pins share the net named after the left-hand pin; ports keep the
// order they are written in.
func ParseYAML(data []byte) (*NetlistData, error) {
	var doc yamlNetlist
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(doc.Instances) == 0 {
		return nil, fmt.Errorf("yaml netlist has no instances: %w", ErrSyntax)
	}

	netlistData := New(doc.Name)

	pins := make(map[string]map[string]string, len(doc.Instances))
	for name := range doc.Instances {
		pins[name] = make(map[string]string)
	}
	assign := func(ref, net string) error {
		inst, pin, err := splitRef(ref)
		if err != nil {
			return err
		}
		p, ok := pins[inst]
		if !ok {
			return fmt.Errorf("unknown instance %q in %q: %w", inst, ref, ErrSyntax)
		}
		if prev, taken := p[pin]; taken {
			return fmt.Errorf("pin %q already on net %q: %w", ref, prev, ErrSyntax)
		}
		p[pin] = net
		return nil
	}

	for _, from := range sortedKeys(doc.Connections) {
		inst, pin, err := splitRef(from)
		if err != nil {
			return nil, err
		}
		net := PinNet(inst, pin)
		if err := assign(from, net); err != nil {
			return nil, err
		}
		if err := assign(doc.Connections[from], net); err != nil {
			return nil, err
		}
	}

	ports, err := decodePorts(&doc.Ports)
	if err != nil {
		return nil, err
	}
	for _, p := range ports {
		if err := assign(p.Net, p.Name); err != nil {
			return nil, err
		}
		if err := netlistData.AddPort(p.Name, p.Name); err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(doc.Instances) {
		inst := doc.Instances[name]
		if inst.Component == "" {
			return nil, fmt.Errorf("instance %q has no component: %w", name, ErrSyntax)
		}
		params := make(map[string]any, len(inst.Settings))
		for k, v := range inst.Settings {
			params[strings.ToLower(k)] = v
		}
		elem := Element{
			Name:   name,
			Type:   strings.ToLower(inst.Component),
			Pins:   pins[name],
			Params: params,
		}
		if err := netlistData.AddElement(elem); err != nil {
			return nil, err
		}
	}

	if doc.Sweep != nil {
		sweep, err := doc.Sweep.param()
		if err != nil {
			return nil, err
		}
		netlistData.Sweep = sweep
		netlistData.HasSweep = true
	}

	return netlistData, nil
}

// decodePorts keeps the mapping order of the ports node.
func decodePorts(node *yaml.Node) ([]Port, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("ports must be a mapping: %w", ErrSyntax)
	}

	ports := make([]Port, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name, ref string
		if err := node.Content[i].Decode(&name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		if err := node.Content[i+1].Decode(&ref); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		ports = append(ports, Port{Name: name, Net: ref})
	}
	return ports, nil
}

func (s yamlSweep) param() (SweepParam, error) {
	sweep := SweepParam{Type: SweepType(strings.ToUpper(s.Type)), Points: s.Points}
	if sweep.Type == "" {
		sweep.Type = SweepLIN
	}
	if sweep.Type != SweepLIN && sweep.Type != SweepFREQ {
		return SweepParam{}, fmt.Errorf("invalid sweep type %s: %w", s.Type, ErrSyntax)
	}
	if sweep.Points < 1 {
		return SweepParam{}, fmt.Errorf("invalid points number %d: %w", s.Points, ErrSyntax)
	}

	var err error
	if sweep.Start, err = toFloat(s.Start); err != nil {
		return SweepParam{}, fmt.Errorf("invalid start: %w", err)
	}
	if sweep.Stop, err = toFloat(s.Stop); err != nil {
		return SweepParam{}, fmt.Errorf("invalid stop: %w", err)
	}
	return sweep, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return ParseValue(x)
	}
	return 0, fmt.Errorf("unsupported value %v: %w", v, ErrSyntax)
}

func splitRef(ref string) (string, string, error) {
	inst, pin, ok := strings.Cut(ref, ",")
	inst, pin = strings.TrimSpace(inst), strings.TrimSpace(pin)
	if !ok || inst == "" || pin == "" {
		return "", "", fmt.Errorf("invalid pin reference %q, want instance,pin: %w", ref, ErrSyntax)
	}
	return inst, pin, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
