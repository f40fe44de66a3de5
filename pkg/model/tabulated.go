package model

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/edp1096/toy-photonics/internal/consts"
	"github.com/edp1096/toy-photonics/pkg/matrix"
)

// SParameters is a measured or simulated scattering table, sorted by
// ascending wavelength. S[k][out][in] belongs to Wavelengths[k].
type SParameters struct {
	Ports       []string
	Wavelengths []float64
	S           [][][]complex128
}

// LoadSParameters reads a table from a file, see ReadSParameters.
func LoadSParameters(path string) (*SParameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sp, err := ReadSParameters(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sp, nil
}

// ReadSParameters reads the INTERCONNECT text format: optional port lines
// ["name","side"], then per coefficient a header
// ("out",mode,id,"in",id,"transmission"), a shape line (rows,3) and rows of
// frequency (Hz), magnitude and phase (rad).
func ReadSParameters(r io.Reader) (*SParameters, error) {
	type block struct {
		out, in string
		freq    []float64
		value   []complex128
	}

	var (
		declared []string
		blocks   []*block
		current  *block
		rows     int
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "["):
			fields := splitTuple(line, "[", "]")
			if len(fields) == 0 || fields[0] == "" {
				return nil, fmt.Errorf("line %d: invalid port line %q: %w", lineNo, line, ErrSettings)
			}
			declared = append(declared, fields[0])

		case strings.HasPrefix(line, "(") && current != nil && rows == 0 && len(current.freq) == 0:
			fields := splitTuple(line, "(", ")")
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: invalid shape %q: %w", lineNo, line, ErrSettings)
			}
			n, err := strconv.Atoi(fields[0])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("line %d: invalid row count %q: %w", lineNo, fields[0], ErrSettings)
			}
			rows = n

		case strings.HasPrefix(line, "("):
			if current != nil && rows > 0 {
				return nil, fmt.Errorf("line %d: %d rows missing before %q: %w", lineNo, rows, line, ErrSettings)
			}
			fields := splitTuple(line, "(", ")")
			if len(fields) != 6 {
				return nil, fmt.Errorf("line %d: invalid header %q: %w", lineNo, line, ErrSettings)
			}
			current = &block{out: fields[0], in: fields[3]}
			blocks = append(blocks, current)
			rows = 0

		default:
			if current == nil || rows == 0 {
				return nil, fmt.Errorf("line %d: data outside a block: %w", lineNo, ErrSettings)
			}
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: want frequency, magnitude, phase: %w", lineNo, ErrSettings)
			}
			var v [3]float64
			for i, f := range fields {
				x, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrSettings, err)
				}
				v[i] = x
			}
			current.freq = append(current.freq, v[0])
			current.value = append(current.value, cmplx.Rect(v[1], v[2]))
			rows--
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no S-parameter blocks: %w", ErrSettings)
	}
	if rows > 0 {
		return nil, fmt.Errorf("last block is %d rows short: %w", rows, ErrSettings)
	}

	ports := declared
	if len(ports) == 0 {
		seen := map[string]bool{}
		for _, b := range blocks {
			for _, p := range []string{b.out, b.in} {
				if !seen[p] {
					seen[p] = true
					ports = append(ports, p)
				}
			}
		}
	}
	index := make(map[string]int, len(ports))
	for i, p := range ports {
		index[p] = i
	}

	freq := blocks[0].freq
	order := make([]int, len(freq))
	for i := range order {
		order[i] = i
	}
	// Ascending wavelength is descending frequency.
	sort.Slice(order, func(a, b int) bool { return freq[order[a]] > freq[order[b]] })

	sp := &SParameters{
		Ports:       ports,
		Wavelengths: make([]float64, len(freq)),
		S:           make([][][]complex128, len(freq)),
	}
	for k, i := range order {
		if !(freq[i] > 0) {
			return nil, fmt.Errorf("non-positive frequency %g: %w", freq[i], ErrSettings)
		}
		sp.Wavelengths[k] = consts.SPEED_OF_LIGHT / freq[i]
		sp.S[k] = newSMatrix(len(ports))
	}

	for _, b := range blocks {
		out, okOut := index[b.out]
		in, okIn := index[b.in]
		if !okOut || !okIn {
			return nil, fmt.Errorf("block %s->%s uses an undeclared port: %w", b.in, b.out, ErrSettings)
		}
		if len(b.freq) != len(freq) {
			return nil, fmt.Errorf("block %s->%s has %d rows, want %d: %w", b.in, b.out, len(b.freq), len(freq), ErrSettings)
		}
		for k, i := range order {
			if b.freq[i] != freq[i] {
				return nil, fmt.Errorf("block %s->%s frequency grid differs: %w", b.in, b.out, ErrSettings)
			}
			sp.S[k][out][in] = b.value[i]
		}
	}

	return sp, nil
}

// At interpolates real and imaginary parts linearly in wavelength.
func (sp *SParameters) At(wavelength float64) ([][]complex128, error) {
	wl := sp.Wavelengths
	n := len(wl)
	if n == 0 {
		return nil, ErrOutOfRange
	}
	if math.IsNaN(wavelength) || wavelength < wl[0] || wavelength > wl[n-1] {
		return nil, fmt.Errorf("λ=%g not in [%g, %g]: %w", wavelength, wl[0], wl[n-1], ErrOutOfRange)
	}

	hi := sort.SearchFloat64s(wl, wavelength)
	if wl[hi] == wavelength || n == 1 {
		return cloneS(sp.S[hi]), nil
	}
	lo := hi - 1
	f := complex((wavelength-wl[lo])/(wl[hi]-wl[lo]), 0)

	s := newSMatrix(len(sp.Ports))
	for i := range s {
		for j := range s[i] {
			a, b := sp.S[lo][i][j], sp.S[hi][i][j]
			s[i][j] = a + f*(b-a)
		}
	}
	return s, nil
}

func cloneS(s [][]complex128) [][]complex128 {
	out := newSMatrix(len(s))
	for i := range s {
		copy(out[i], s[i])
	}
	return out
}

func splitTuple(line, prefix, suffix string) []string {
	line = strings.TrimSuffix(strings.TrimPrefix(line, prefix), suffix)
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return parts
}

type TabulatedParams struct {
	File string `mapstructure:"file"`
}

// Tabulated plays back an S-parameter table. Its ports are the table's.
type Tabulated struct {
	BaseModel
	TabulatedParams
	Data *SParameters
}

func NewTabulated(name string, data *SParameters) *Tabulated {
	return &Tabulated{
		BaseModel: NewBaseModel(name, data.Ports...),
		Data:      data,
	}
}

func (t *Tabulated) GetType() string { return "sparameters" }

func (t *Tabulated) SParameters(wavelength float64) ([][]complex128, error) {
	return t.Data.At(wavelength)
}

func (t *Tabulated) Stamp(m matrix.ModelMatrix, status *SweepStatus) error {
	return stamp(m, t, status)
}
