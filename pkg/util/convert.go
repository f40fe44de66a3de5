package util

import (
	"math"

	"github.com/edp1096/toy-photonics/internal/consts"
)

// WavelengthToFrequency converts a vacuum wavelength in metres to Hz.
func WavelengthToFrequency(wl float64) float64 {
	return consts.SPEED_OF_LIGHT / wl
}

// FrequencyToWavelength converts a frequency in Hz to a vacuum wavelength in
// metres.
func FrequencyToWavelength(freq float64) float64 {
	return consts.SPEED_OF_LIGHT / freq
}

// ToDB returns 10·log10(p) for a power ratio.
func ToDB(p float64) float64 {
	return 10 * math.Log10(p)
}

// FieldToDB returns 20·log10(a) for a field amplitude.
func FieldToDB(a float64) float64 {
	return 20 * math.Log10(a)
}
