package tmm

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain reports a non-physical input: a non-positive wavelength,
	// index or length, or a NaN/Inf parameter.
	ErrDomain = errors.New("tmm: non-physical input")

	// ErrInvalidArgument reports a structurally invalid call, such as a negative
	// period count or an empty wavelength sweep.
	ErrInvalidArgument = errors.New("tmm: invalid argument")

	// ErrSingularMatrix is returned when t11 of a transfer matrix vanishes and
	// the scattering form does not exist at that sample.
	ErrSingularMatrix = errors.New("tmm: singular transfer matrix")
)

func tmmErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
