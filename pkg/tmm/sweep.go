package tmm

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config is the immutable input of a spectral sweep. A nil Cavity sweeps the
// bare Grating; otherwise the grating–cavity–grating structure is swept and
// Grating is ignored.
type Config struct {
	Dispersion Dispersion
	Grating    Grating
	Cavity     *Cavity

	// Scattering keeps the full complex scattering matrix of every sample.
	Scattering bool
	// DB converts transmission to 10·log10(T) and reflection to
	// TmaxDB + 10·log10(R).
	DB     bool
	TmaxDB float64

	// Workers bounds the number of concurrent batches; <= 0 uses GOMAXPROCS.
	Workers int
}

// Spectrum holds one entry per sampled wavelength, in input order.
type Spectrum struct {
	Wavelength   []float64
	Transmission []float64
	Reflection   []float64
	Scattering   []Matrix2 // only when Config.Scattering
	DB           bool
}

// Len returns the number of samples.
func (s *Spectrum) Len() int { return len(s.Wavelength) }

// Peak returns the index of the largest reflection sample.
func (s *Spectrum) Peak() int {
	best := 0
	for i := range s.Reflection {
		if s.Reflection[i] > s.Reflection[best] {
			best = i
		}
	}
	return best
}

// minBatch keeps batches large enough that scheduling stays negligible next
// to the matrix work.
const minBatch = 64

// Sweep evaluates the structure at every wavelength (m). Batches of
// contiguous samples run concurrently and write disjoint ranges of the
// output; any failing sample aborts the sweep and no partial spectrum is
// returned.
func Sweep(wavelengths []float64, cfg Config) (*Spectrum, error) {
	if len(wavelengths) == 0 {
		return nil, tmmErrorf("Sweep", ErrInvalidArgument)
	}
	if err := cfg.validate(); err != nil {
		return nil, tmmErrorf("Sweep", err)
	}

	n := len(wavelengths)
	spec := &Spectrum{
		Wavelength:   append([]float64(nil), wavelengths...),
		Transmission: make([]float64, n),
		Reflection:   make([]float64, n),
		DB:           cfg.DB,
	}
	if cfg.Scattering {
		spec.Scattering = make([]Matrix2, n)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batch := (n + workers - 1) / workers
	if batch < minBatch {
		batch = minBatch
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for start := 0; start < n; start += batch {
		end := min(start+batch, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return nil
				}
				if err := cfg.sample(spec, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return spec, nil
}

// Evaluate returns the transfer matrix of the configured structure at one
// wavelength.
func (cfg Config) Evaluate(wavelength float64) (Matrix2, error) {
	n0, err := cfg.Dispersion.Index(wavelength)
	if err != nil {
		return Matrix2{}, err
	}
	if cfg.Cavity == nil {
		return cfg.Grating.Matrix(wavelength, n0)
	}

	nCavity := n0
	if d := cfg.Cavity.Dispersion; d != nil && !d.IsZero() {
		if nCavity, err = d.Index(wavelength); err != nil {
			return Matrix2{}, err
		}
	}
	return cfg.Cavity.Matrix(wavelength, n0, complex(nCavity, 0))
}

func (cfg Config) sample(spec *Spectrum, i int) error {
	wl := spec.Wavelength[i]

	t, err := cfg.Evaluate(wl)
	if err != nil {
		return fmt.Errorf("sweep at λ=%g: %w", wl, err)
	}

	var tr, re float64
	if cfg.Scattering {
		s, err := ToScattering(t)
		if err != nil {
			return fmt.Errorf("sweep at λ=%g: %w", wl, err)
		}
		spec.Scattering[i] = s
		tr, re = sqAbs(s[1][0]), sqAbs(s[0][0])
	} else {
		tr, re, err = PowerCoefficients(t)
		if err != nil {
			return fmt.Errorf("sweep at λ=%g: %w", wl, err)
		}
	}

	if cfg.DB {
		tr = 10 * math.Log10(tr)
		re = cfg.TmaxDB + 10*math.Log10(re)
	}
	spec.Transmission[i] = tr
	spec.Reflection[i] = re

	return nil
}

func (cfg Config) validate() error {
	if cfg.Dispersion.IsZero() {
		return fmt.Errorf("dispersion not set: %w", ErrInvalidArgument)
	}
	if cfg.Cavity != nil {
		return cfg.Cavity.Validate()
	}
	return cfg.Grating.Validate()
}

func sqAbs(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}
