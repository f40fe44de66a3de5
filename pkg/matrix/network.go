package matrix

import (
	"fmt"
	"io"

	"github.com/edp1096/sparse"
)

// NetworkMatrix holds the linear system of a photonic port network,
//
//	(I - S·C)·b = S·P·x
//
// where b are the outgoing waves at every model port, S is the block-diagonal
// scattering matrix of all models, C the port-to-port connection map and P
// routes the external excitations x into the ports they drive. One right-hand
// side is kept per external port so a single factorization yields every
// column of the external scattering matrix.
type NetworkMatrix struct {
	Size        int
	Excitations int

	matrix       *sparse.Matrix
	config       *sparse.Configuration
	rhs          [][]float64
	rhsImag      [][]float64
	solution     [][]float64
	solutionImag [][]float64

	partner []int // partner[i] is the port wired to port i, 0 if none
	drive   []int // drive[i] is the excitation entering port i, -1 if none

	err error
}

// NewMatrix creates a size x size complex network with the given number of
// external excitations. Ports are numbered 1..size.
func NewMatrix(size, excitations int) (*NetworkMatrix, error) {
	if size <= 0 {
		return nil, fmt.Errorf("network matrix: invalid size %d", size)
	}

	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: true,
		Expandable:              true,
		Translate:               true,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	m := &NetworkMatrix{
		Size:         size,
		Excitations:  excitations,
		matrix:       mat,
		config:       config,
		rhs:          make([][]float64, excitations),
		rhsImag:      make([][]float64, excitations),
		solution:     make([][]float64, excitations),
		solutionImag: make([][]float64, excitations),
		partner:      make([]int, size+1),
		drive:        make([]int, size+1),
	}
	for k := 0; k < excitations; k++ {
		m.rhs[k] = make([]float64, size+1) // 1-based indexing
		m.rhsImag[k] = make([]float64, size+1)
	}
	for i := range m.drive {
		m.drive[i] = -1
	}

	return m, nil
}

// Connect wires port i to port j in both directions.
func (m *NetworkMatrix) Connect(i, j int) error {
	if !m.inBounds(i) || !m.inBounds(j) || i == j {
		return fmt.Errorf("connect: invalid ports (%d, %d), size=%d", i, j, m.Size)
	}
	if m.partner[i] != 0 || m.partner[j] != 0 {
		return fmt.Errorf("connect: port %d or %d already connected", i, j)
	}
	m.partner[i], m.partner[j] = j, i
	return nil
}

// Drive routes external excitation k into port i.
func (m *NetworkMatrix) Drive(k, i int) error {
	if k < 0 || k >= m.Excitations || !m.inBounds(i) {
		return fmt.Errorf("drive: invalid excitation %d at port %d", k, i)
	}
	if m.partner[i] != 0 || m.drive[i] >= 0 {
		return fmt.Errorf("drive: port %d is already fed", i)
	}
	m.drive[i] = k
	return nil
}

// SetupElements creates the diagonal so the sparse structure is fixed before
// the first factorization.
func (m *NetworkMatrix) SetupElements() {
	for i := 1; i <= m.Size; i++ {
		m.matrix.GetElement(int64(i), int64(i))
	}
}

// AddScattering stamps one scattering coefficient s = b_out / a_in of a
// model. The incoming wave of port in is either the outgoing wave of its
// partner or an external excitation; unconnected, undriven ports are
// terminated and contribute nothing.
func (m *NetworkMatrix) AddScattering(out, in int, s complex128) {
	if !m.inBounds(out) || !m.inBounds(in) {
		m.fail(fmt.Errorf("scattering index out of bounds (out=%d, in=%d, size=%d)", out, in, m.Size))
		return
	}
	if s == 0 {
		return
	}

	if p := m.partner[in]; p != 0 {
		m.AddComplexElement(out, p, -real(s), -imag(s))
	}
	if k := m.drive[in]; k >= 0 {
		m.AddComplexRHS(k, out, real(s), imag(s))
	}
}

func (m *NetworkMatrix) AddComplexElement(i, j int, real, imag float64) {
	if !m.inBounds(i) || !m.inBounds(j) {
		m.fail(fmt.Errorf("matrix index out of bounds (i=%d, j=%d, size=%d)", i, j, m.Size))
		return
	}

	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real
	element.Imag += imag
}

func (m *NetworkMatrix) AddComplexRHS(k, i int, real, imag float64) {
	if k < 0 || k >= m.Excitations || !m.inBounds(i) {
		m.fail(fmt.Errorf("rhs index out of bounds (k=%d, i=%d, size=%d)", k, i, m.Size))
		return
	}
	m.rhs[k][i] += real
	m.rhsImag[k][i] += imag
}

// LoadIdentity adds the identity term of (I - S·C).
func (m *NetworkMatrix) LoadIdentity() {
	for i := 1; i <= m.Size; i++ {
		if diag := m.GetDiagElement(i); diag != nil {
			diag.Real += 1
		}
	}
}

func (m *NetworkMatrix) Clear() {
	m.matrix.Clear()
	for k := range m.rhs {
		clear(m.rhs[k])
		clear(m.rhsImag[k])
	}
	m.err = nil
}

// Solve factors the network once and solves every excitation.
func (m *NetworkMatrix) Solve() error {
	if m.err != nil {
		return m.err
	}

	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}

	for k := 0; k < m.Excitations; k++ {
		x, ix, err := m.matrix.SolveComplex(m.rhs[k], m.rhsImag[k])
		if err != nil {
			return fmt.Errorf("matrix solve failed for excitation %d: %w", k, err)
		}
		m.solution[k] = append(m.solution[k][:0], x...)
		m.solutionImag[k] = append(m.solutionImag[k][:0], ix...)
	}

	return nil
}

func (m *NetworkMatrix) GetDiagElement(i int) *sparse.Element {
	if !m.inBounds(i) {
		return nil
	}
	if d := m.matrix.Diags[i]; d != nil {
		return d
	}
	return m.matrix.GetElement(int64(i), int64(i))
}

// GetComplexSolution returns the outgoing wave at port i for excitation k.
func (m *NetworkMatrix) GetComplexSolution(k, i int) complex128 {
	if k < 0 || k >= m.Excitations || !m.inBounds(i) || m.solution[k] == nil {
		return 0
	}
	return complex(m.solution[k][i], m.solutionImag[k][i])
}

// Partner returns the port wired to port i, 0 if it has none.
func (m *NetworkMatrix) Partner(i int) int {
	if !m.inBounds(i) {
		return 0
	}
	return m.partner[i]
}

func (m *NetworkMatrix) PrintSystem(w io.Writer) {
	fmt.Fprintf(w, "\nNetwork Equations (%dx%d):\n", m.Size, m.Size)

	for i := 1; i <= m.Size; i++ {
		fmt.Fprintf(w, "Equation %d:", i)
		for j := 1; j <= m.Size; j++ {
			element := m.matrix.GetElement(int64(i), int64(j))
			if element.Real == 0 && element.Imag == 0 {
				continue
			}
			if element.Imag == 0 {
				fmt.Fprintf(w, "  %+g*b%d", element.Real, j)
			} else {
				fmt.Fprintf(w, "  (%g + j%g)*b%d", element.Real, element.Imag, j)
			}
		}
		for k := 0; k < m.Excitations; k++ {
			fmt.Fprintf(w, " | x%d: %g + j%g", k, m.rhs[k][i], m.rhsImag[k][i])
		}
		fmt.Fprintln(w)
	}
}

func (m *NetworkMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}

func (m *NetworkMatrix) inBounds(i int) bool {
	return i > 0 && i <= m.Size
}

func (m *NetworkMatrix) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}
