package matrix

// ModelMatrix is what a compact model sees while stamping. Port numbers are
// the 1-based global indices assigned by the circuit.
type ModelMatrix interface {
	AddScattering(out, in int, s complex128)
}
