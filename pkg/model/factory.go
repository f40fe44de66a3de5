package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/edp1096/toy-photonics/pkg/netlist"
)

// Constructor builds a model from an instance name and its settings.
type Constructor func(name string, settings map[string]any) (Model, error)

type validator interface {
	Validate() error
}

var factory = map[string]Constructor{
	"waveguide":     waveguideFrom,
	"straight":      waveguideFrom,
	"bend":          bendFrom,
	"bend_circular": bendFrom,
	"coupler":       couplerFrom,
	"coupler_ring":  ringCouplerFrom,
	"mmi1x2":        mmi1x2From,
	"mmi2x2":        mmi2x2From,
	"dbr":           dbrFrom,
	"dbr_cavity":    dbrCavityFrom,
	"sparameters":   tabulatedFrom,
}

// Register adds or replaces a component type. It must not race with Create.
func Register(componentType string, c Constructor) {
	factory[strings.ToLower(componentType)] = c
}

// Types lists the registered component types.
func Types() []string {
	types := make([]string, 0, len(factory))
	for t := range factory {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Create builds the model of one netlist element. Unnamed elements are
// named from their type and settings.
func Create(elem netlist.Element) (Model, error) {
	newModel, ok := factory[strings.ToLower(elem.Type)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", elem.Type, ErrUnknownComponent)
	}

	name := elem.Name
	if name == "" {
		name = AutoName(elem.Type, elem.Params)
	}

	m, err := newModel(name, elem.Params)
	if err != nil {
		return nil, fmt.Errorf("creating %s %s: %w", elem.Type, name, err)
	}
	if v, ok := m.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("creating %s %s: %w", elem.Type, name, err)
		}
	}
	return m, nil
}

func waveguideFrom(name string, settings map[string]any) (Model, error) {
	w := NewWaveguide(name, 10e-6)
	return w, Decode(settings, &w.WaveguideParams)
}

func bendFrom(name string, settings map[string]any) (Model, error) {
	b := NewBend(name, 10e-6)
	return b, Decode(settings, &b.BendParams)
}

func couplerFrom(name string, settings map[string]any) (Model, error) {
	c := NewDirectionalCoupler(name, 0.22e-6, 10e-6)
	return c, Decode(settings, &c.CouplerParams)
}

func ringCouplerFrom(name string, settings map[string]any) (Model, error) {
	r := NewRingCoupler(name, 0.22e-6, 4e-6, 5e-6)
	return r, Decode(settings, &r.RingCouplerParams)
}

func mmi1x2From(name string, settings map[string]any) (Model, error) {
	m := NewMMI1x2(name)
	return m, Decode(settings, &m.MMIParams)
}

func mmi2x2From(name string, settings map[string]any) (Model, error) {
	m := NewMMI2x2(name)
	return m, Decode(settings, &m.MMIParams)
}

func dbrFrom(name string, settings map[string]any) (Model, error) {
	d := NewDBR(name, 200)
	return d, Decode(settings, &d.DBRParams)
}

func dbrCavityFrom(name string, settings map[string]any) (Model, error) {
	d := NewDBRCavity(name, 600, 20e-6)
	return d, Decode(settings, &d.DBRCavityParams)
}

func tabulatedFrom(name string, settings map[string]any) (Model, error) {
	var p TabulatedParams
	if err := Decode(settings, &p); err != nil {
		return nil, err
	}
	if p.File == "" {
		return nil, fmt.Errorf("file not set: %w", ErrSettings)
	}

	data, err := LoadSParameters(p.File)
	if err != nil {
		return nil, err
	}
	t := NewTabulated(name, data)
	t.TabulatedParams = p
	return t, nil
}

const maxNameLength = 100

// AutoName builds an instance name from a component type and its settings:
// sorted keys shortened to the initials of their words, each followed by a
// compact value, e.g. waveguide_L10u_LDPC2.
func AutoName(componentType string, settings map[string]any) string {
	name := componentType
	if len(settings) > 0 {
		name += "_" + settingsName(settings)
	}
	name = cleanName(name)

	if len(name) > maxNameLength {
		sum := md5.Sum([]byte(name))
		name = componentType + "_" + hex.EncodeToString(sum[:])[:8]
	}
	return name
}

func settingsName(settings map[string]any) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, strings.ToUpper(initials(k))+cleanValue(settings[k]))
	}
	return strings.Join(labels, "_")
}

func initials(key string) string {
	var b strings.Builder
	for _, word := range strings.Split(key, "_") {
		if word != "" {
			b.WriteByte(word[0])
		}
	}
	return b.String()
}

func cleanValue(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case float64:
		return cleanFloat(x)
	case map[string]any:
		return settingsName(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = cleanValue(e)
		}
		return strings.Join(parts, "_")
	}
	return fmt.Sprint(v)
}

func cleanFloat(v float64) string {
	a := math.Abs(v)
	switch {
	case v == math.Trunc(v) && a < 1e15:
		return strconv.FormatInt(int64(v), 10)
	case a >= 1e-3 && a < 1:
		return formatScaled(v, 1e3, "m")
	case a >= 1e-6 && a < 1e-3:
		return formatScaled(v, 1e6, "u")
	case a >= 1e-9 && a < 1e-6:
		return formatScaled(v, 1e9, "n")
	case a >= 1e-12 && a < 1e-9:
		return formatScaled(v, 1e12, "p")
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatScaled(v, scale float64, unit string) string {
	return strconv.FormatFloat(math.Round(v*scale*1000)/1000, 'f', -1, 64) + unit
}

var nameReplacer = strings.NewReplacer(
	" ", "_", "!", "_", "#", "_", "%", "_", "(", "", ")", "",
	"*", "_", ",", "_", "-", "m", ".", "p", "/", "_", ":", "_",
	"=", "", "@", "_", "[", "", "]", "",
)

func cleanName(name string) string {
	return nameReplacer.Replace(name)
}
