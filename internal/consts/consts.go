package consts

const (
	SPEED_OF_LIGHT = 299792458.0 // Speed of light in vacuum (m/s)
	MICRON         = 1e-6        // Metres per micrometre
	NANO           = 1e-9        // Metres per nanometre
)

// Effective index fit of a 500 nm x 220 nm silicon strip, lambda in um.
const (
	STRIP_N1 = 4.077182700600432
	STRIP_N2 = -0.982556173493906
	STRIP_N3 = -0.046366956781710
)

// Grating design defaults.
const (
	BRAGG_WAVELENGTH = 1550e-9 // Design wavelength (m)
	GRATING_PERIOD   = 317e-9  // Period for a 1550 nm first order grating (m)
	CORRUGATION      = 20e-9   // Sidewall corrugation width dw (m)
	KAPPA_A          = -1.53519e19
	KAPPA_B          = 2.2751e12
)

// Coupled mode defaults for strip couplers.
const (
	COUPLER_KAPPA0     = 2.9e6  // Coupling coefficient extrapolated to zero gap (1/m)
	COUPLER_GAP_DECAY  = 60e-9  // Exponential decay length of kappa with gap (m)
	WAVEGUIDE_LOSS_DB  = 2.0    // Propagation loss (dB/cm)
	MMI_EXCESS_LOSS_DB = 0.1    // Excess insertion loss of MMI splitters (dB)
)
