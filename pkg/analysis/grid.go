package analysis

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-photonics/pkg/netlist"
	"github.com/edp1096/toy-photonics/pkg/util"
)

// Grid is a wavelength sweep. LIN spaces points evenly in wavelength, FREQ
// evenly in frequency; Start and Stop are wavelengths in metres for both.
type Grid struct {
	Type   netlist.SweepType
	Points int
	Start  float64
	Stop   float64
}

func NewGrid(start, stop float64, points int) Grid {
	return Grid{Type: netlist.SweepLIN, Points: points, Start: start, Stop: stop}
}

// GridByResolution spaces points about resolutionNm apart, as
// round((stop-start)/resolution) points including both ends.
func GridByResolution(start, stop, resolutionNm float64) (Grid, error) {
	if !(resolutionNm > 0) {
		return Grid{}, fmt.Errorf("resolution %g nm must be positive", resolutionNm)
	}
	points := int(math.Round((stop - start) * 1e9 / resolutionNm))
	g := NewGrid(start, stop, points)
	return g, g.Validate()
}

// GridFromSweep converts a netlist sweep. FREQ sweeps are given in Hz and
// are stored as the equivalent wavelengths.
func GridFromSweep(s netlist.SweepParam) (Grid, error) {
	g := Grid{Type: s.Type, Points: s.Points, Start: s.Start, Stop: s.Stop}
	if s.Type == netlist.SweepFREQ {
		g.Start = util.FrequencyToWavelength(s.Start)
		g.Stop = util.FrequencyToWavelength(s.Stop)
	}
	return g, g.Validate()
}

func (g Grid) Validate() error {
	if g.Type != netlist.SweepLIN && g.Type != netlist.SweepFREQ {
		return fmt.Errorf("unknown sweep type %q", g.Type)
	}
	if g.Points < 1 {
		return fmt.Errorf("sweep needs at least one point, got %d", g.Points)
	}
	for _, wl := range []float64{g.Start, g.Stop} {
		if !(wl > 0) || math.IsInf(wl, 0) {
			return fmt.Errorf("invalid sweep wavelength %g", wl)
		}
	}
	return nil
}

// Wavelengths returns the sweep points in metres.
func (g Grid) Wavelengths() []float64 {
	wavelengths := make([]float64, g.Points)
	if g.Points == 1 {
		wavelengths[0] = g.Start
		return wavelengths
	}

	switch g.Type {
	case netlist.SweepFREQ:
		fStart := util.WavelengthToFrequency(g.Start)
		fStop := util.WavelengthToFrequency(g.Stop)
		step := (fStop - fStart) / float64(g.Points-1)
		for i := range g.Points {
			wavelengths[i] = util.FrequencyToWavelength(fStart + float64(i)*step)
		}

	default: // LIN
		step := (g.Stop - g.Start) / float64(g.Points-1)
		for i := range g.Points {
			wavelengths[i] = g.Start + float64(i)*step
		}
	}
	return wavelengths
}
