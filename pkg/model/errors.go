package model

import "errors"

var (
	// ErrUnknownComponent is returned by Create for an unregistered type.
	ErrUnknownComponent = errors.New("model: unknown component type")

	// ErrSettings reports settings that do not decode into the model's
	// parameters or fall outside their valid range.
	ErrSettings = errors.New("model: invalid settings")

	// ErrOutOfRange is returned when tabulated data is evaluated outside its
	// wavelength span.
	ErrOutOfRange = errors.New("model: wavelength outside tabulated range")
)
